package payment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateBatch(ctx context.Context, rows []Payment) error
	ListByLoan(ctx context.Context, loanNumericID uint64) ([]Payment, error)
	// SumBetween totals payments with from <= payment_date < to.
	SumBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}
