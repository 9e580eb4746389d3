package postgres

import (
	"context"
	"time"

	loanDomain "crediya/internal/domain/loan"

	"gorm.io/gorm"
)

type InstallmentRepository struct{ db *gorm.DB }

func NewInstallmentRepository(db *gorm.DB) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

func (r *InstallmentRepository) CreateBatch(ctx context.Context, items []loanDomain.Installment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *InstallmentRepository) ListByLoan(ctx context.Context, loanNumericID uint64) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanNumericID).
		Order("week_number ASC").
		Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) ListPendingDueBefore(ctx context.Context, cutoff time.Time) ([]loanDomain.Installment, error) {
	var out []loanDomain.Installment
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", loanDomain.InstallmentPending, cutoff).
		Order("loan_id ASC, week_number ASC").
		Find(&out).Error
	return out, err
}

func (r *InstallmentRepository) Save(ctx context.Context, it *loanDomain.Installment) error {
	return r.db.WithContext(ctx).Save(it).Error
}
