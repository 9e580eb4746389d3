package postgres

import (
	"context"
	"fmt"

	approvalDomain "crediya/internal/domain/approval"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: loan %d", approvalDomain.ErrDuplicate, a.LoanID)
	}
	return err
}

func (r *ApprovalRepository) GetByLoanID(ctx context.Context, loanID uint64) (*approvalDomain.Approval, error) {
	var a approvalDomain.Approval
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).Take(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
