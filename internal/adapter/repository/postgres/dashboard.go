package postgres

import (
	"context"

	customerDomain "crediya/internal/domain/customer"
	loanDomain "crediya/internal/domain/loan"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository implements the read-side aggregates of the dashboard.
type DashboardRepository struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) *DashboardRepository { return &DashboardRepository{db: db} }

func (r *DashboardRepository) CountLoansByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *DashboardRepository) SumOutstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("status IN ?", []loanDomain.State{loanDomain.StateActive, loanDomain.StateOverdue}).
		Select("COALESCE(SUM(remaining_balance), 0)").
		Row().
		Scan(&total)
	return total, err
}

func (r *DashboardRepository) CountOverdueInstallments(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&loanDomain.Installment{}).
		Where("status = ?", loanDomain.InstallmentOverdue).
		Count(&n).Error
	return n, err
}

func (r *DashboardRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&customerDomain.Customer{}).Count(&n).Error
	return n, err
}
