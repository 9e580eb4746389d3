package loanmock

import (
	"context"
	"time"

	domain "crediya/internal/domain/loan"
)

var (
	_ domain.Repository            = (*Repo)(nil)
	_ domain.InstallmentRepository = (*InstallmentRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn                func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByIDForUpdateFn           func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetPendingLoanByCustomerIDFn func(ctx context.Context, customerID string) (*domain.Loan, error)
	ListFn                       func(ctx context.Context, f domain.ListFilter) ([]domain.Loan, int64, error)
	SaveFn                       func(ctx context.Context, l *domain.Loan) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetPendingLoanByCustomerID(ctx context.Context, customerID string) (*domain.Loan, error) {
	if m.GetPendingLoanByCustomerIDFn != nil {
		return m.GetPendingLoanByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Loan, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

// InstallmentRepo is a function-backed mock of domain.InstallmentRepository.
type InstallmentRepo struct {
	CreateBatchFn          func(ctx context.Context, items []domain.Installment) error
	ListByLoanFn           func(ctx context.Context, loanNumericID uint64) ([]domain.Installment, error)
	ListPendingDueBeforeFn func(ctx context.Context, cutoff time.Time) ([]domain.Installment, error)
	SaveFn                 func(ctx context.Context, it *domain.Installment) error
}

func (m *InstallmentRepo) CreateBatch(ctx context.Context, items []domain.Installment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, items)
	}
	return nil
}

func (m *InstallmentRepo) ListByLoan(ctx context.Context, loanNumericID uint64) ([]domain.Installment, error) {
	if m.ListByLoanFn != nil {
		return m.ListByLoanFn(ctx, loanNumericID)
	}
	return nil, nil
}

func (m *InstallmentRepo) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]domain.Installment, error) {
	if m.ListPendingDueBeforeFn != nil {
		return m.ListPendingDueBeforeFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *InstallmentRepo) Save(ctx context.Context, it *domain.Installment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, it)
	}
	return nil
}
