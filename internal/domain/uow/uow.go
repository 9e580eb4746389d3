package uow

import (
	"context"

	"crediya/internal/domain/approval"
	"crediya/internal/domain/customer"
	"crediya/internal/domain/inventory"
	"crediya/internal/domain/loan"
	"crediya/internal/domain/payment"
	"crediya/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Loans        loan.Repository
	Installments loan.InstallmentRepository
	Payments     payment.Repository
	Approvals    approval.Repository
	Customers    customer.Repository
	Users        user.Repository
	Stores       user.StoreRepository
	Inventory    inventory.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
