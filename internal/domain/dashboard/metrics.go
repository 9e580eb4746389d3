package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Metrics struct {
	LoansByStatus        map[string]int64 `json:"loans_by_status"`
	PortfolioOutstanding decimal.Decimal  `json:"portfolio_outstanding"`
	CollectedThisMonth   decimal.Decimal  `json:"collected_this_month"`
	OverdueInstallments  int64            `json:"overdue_installments"`
	Customers            int64            `json:"customers"`
	GeneratedAt          time.Time        `json:"generated_at"`
}

// Repository exposes the read-side aggregates behind the dashboard.
type Repository interface {
	CountLoansByStatus(ctx context.Context) (map[string]int64, error)
	// SumOutstanding totals remaining_balance of active and overdue loans.
	SumOutstanding(ctx context.Context) (decimal.Decimal, error)
	CountOverdueInstallments(ctx context.Context) (int64, error)
	CountCustomers(ctx context.Context) (int64, error)
}
