package approval

import "context"

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	// GetByLoanID takes the internal loans.id. It returns gorm.ErrRecordNotFound
	// for loans that were never approved.
	GetByLoanID(ctx context.Context, loanID uint64) (*Approval, error)
}
