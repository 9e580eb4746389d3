package loanmock

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "crediya/internal/domain/loan"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.Create(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.Save(ctx, &domain.Loan{}); err != nil {
		t.Fatalf("Save default: want nil, got %v", err)
	}
	if _, err := m.GetByLoanID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByLoanID default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByLoanIDForUpdate(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByLoanIDForUpdate default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetByIDForUpdate(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByIDForUpdate default: want context.Canceled, got %v", err)
	}
	if _, err := m.GetPendingLoanByCustomerID(ctx, "c"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetPendingLoanByCustomerID default: want context.Canceled, got %v", err)
	}
	if out, total, err := m.List(ctx, domain.ListFilter{}); out != nil || total != 0 || err != nil {
		t.Fatalf("List default: got %v %d %v", out, total, err)
	}
}

func TestRepo_ForwardsToFuncs(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-2"}
	wantErr := errors.New("boom")

	var calls []string
	m := &Repo{
		CreateFn: func(_ context.Context, l *domain.Loan) error {
			calls = append(calls, "create")
			return wantErr
		},
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			calls = append(calls, "get:"+loanID)
			return want, nil
		},
		GetPendingLoanByCustomerIDFn: func(_ context.Context, customerID string) (*domain.Loan, error) {
			calls = append(calls, "pending:"+customerID)
			return want, nil
		},
	}

	if err := m.Create(ctx, want); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if got, _ := m.GetByLoanID(ctx, "LN-2"); got != want {
		t.Fatalf("GetByLoanID: returned wrong pointer")
	}
	if got, _ := m.GetPendingLoanByCustomerID(ctx, "C-1"); got != want {
		t.Fatalf("GetPendingLoanByCustomerID: returned wrong pointer")
	}
	if len(calls) != 3 || calls[1] != "get:LN-2" || calls[2] != "pending:C-1" {
		t.Fatalf("unexpected calls: %v", calls)
	}
}

func TestInstallmentRepo(t *testing.T) {
	ctx := context.Background()
	m := &InstallmentRepo{}
	if err := m.CreateBatch(ctx, nil); err != nil {
		t.Fatalf("CreateBatch default: %v", err)
	}
	if got, err := m.ListPendingDueBefore(ctx, time.Now()); got != nil || err != nil {
		t.Fatalf("ListPendingDueBefore default: %v %v", got, err)
	}

	var cutoff time.Time
	m.ListPendingDueBeforeFn = func(_ context.Context, c time.Time) ([]domain.Installment, error) {
		cutoff = c
		return []domain.Installment{{WeekNumber: 1}}, nil
	}
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got, _ := m.ListPendingDueBefore(ctx, at)
	if len(got) != 1 || !cutoff.Equal(at) {
		t.Fatalf("ListPendingDueBefore not forwarded: %v %v", got, cutoff)
	}
}
