package uowmock

import (
	"context"
	"errors"

	"crediya/internal/domain/loan"
	"crediya/internal/domain/uow"
)

var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Unfilled function fields return errUnimplemented.
type UoW struct {
	WithinTxFn     func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn func(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error

	// Calls counts transactions started, committed or not.
	Calls int
}

// Passthrough runs every callback directly against repos. WithinLoanTx loads
// the loan through repos.Loans.GetByLoanIDForUpdate, like the gorm version.
func Passthrough(repos uow.Repos) *UoW {
	m := &UoW{}
	m.WithinTxFn = func(_ context.Context, fn func(uow.Repos) error) error {
		return fn(repos)
	}
	m.WithinLoanTxFn = func(ctx context.Context, loanID string, fn func(uow.Repos, *loan.Loan) error) error {
		l, err := repos.Loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(repos, l)
	}
	return m
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	m.Calls++
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	m.Calls++
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}
