package password

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndCheck(t *testing.T) {
	h, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(h, "$2a$") {
		t.Fatalf("unexpected hash format: %q", h)
	}
	if err := Check(h, "s3cret"); err != nil {
		t.Fatalf("Check valid: %v", err)
	}
	if err := Check(h, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("Check wrong: want ErrMismatch, got %v", err)
	}
}

func TestHash_Empty(t *testing.T) {
	if _, err := Hash(""); err == nil {
		t.Fatal("want error for empty password")
	}
}
