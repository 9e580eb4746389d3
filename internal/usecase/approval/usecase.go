package approval

import (
	"context"
	"errors"
	"time"

	domainApproval "crediya/internal/domain/approval"
	domainLoan "crediya/internal/domain/loan"
	"crediya/internal/domain/uow"
	"crediya/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	uow uow.UnitOfWork
	log *zap.Logger
	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Approve moves a pending loan to approved and records who approved it.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*ApprovalDTO, error) {
	if u.uow == nil {
		return nil, domainLoan.ErrInvalidTransition
	}
	var dto *ApprovalDTO

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatePending {
			if l.Status == domainLoan.StateApproved {
				return domainLoan.ErrAlreadyApproved
			}
			return domainLoan.ErrInvalidTransition
		}

		if _, err := r.Approvals.GetByLoanID(ctx, l.ID); err == nil {
			return domainLoan.ErrAlreadyApproved
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := u.now()
		day := in.ApprovalDate
		if day.IsZero() {
			day = now
		}
		y, m, d := day.UTC().Date()

		a := &domainApproval.Approval{
			ApprovalID:   id.NewID32(),
			LoanID:       l.ID,
			ApprovedBy:   in.ApprovedBy,
			ApprovalDate: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Notes:        in.Notes,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			if errors.Is(err, domainApproval.ErrDuplicate) {
				return domainLoan.ErrAlreadyApproved
			}
			return err
		}

		l.Status = domainLoan.StateApproved
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.log.Info("loan approved", zap.String("loan_id", l.LoanID), zap.String("approved_by", in.ApprovedBy))

		dto = &ApprovalDTO{
			ApprovalID:   a.ApprovalID,
			LoanID:       l.LoanID,
			ApprovedBy:   a.ApprovedBy,
			Notes:        a.Notes,
			ApprovalDate: a.ApprovalDate,
			Status:       string(l.Status),
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}
