// Package id generates the public identifiers exposed by the API.
package id

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/xid"
)

var reID32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random UUID as 32 lowercase hex characters.
func NewID32() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// IsID32 reports whether s has the NewID32 shape.
func IsID32(s string) bool { return reID32.MatchString(s) }

// NewReference returns a short, time-sortable reference shared by the rows of
// one submitted payment (20 chars, base32hex).
func NewReference() string {
	return xid.New().String()
}
