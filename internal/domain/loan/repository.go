package loan

import (
	"context"
	"time"
)

type ListFilter struct {
	Status     State
	CustomerID string
	StoreID    string
	Limit      int
	Offset     int
}

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	GetPendingLoanByCustomerID(ctx context.Context, customerID string) (*Loan, error)
	List(ctx context.Context, f ListFilter) ([]Loan, int64, error)
	Save(ctx context.Context, l *Loan) error
}

type InstallmentRepository interface {
	CreateBatch(ctx context.Context, items []Installment) error
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Installment, error)
	// ListPendingDueBefore returns pending installments with due_date < cutoff.
	ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]Installment, error)
	Save(ctx context.Context, it *Installment) error
}
