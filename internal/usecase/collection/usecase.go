// Package collection marks late installments overdue and charges the flat
// late penalty.
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainLoan "crediya/internal/domain/loan"
	"crediya/internal/domain/uow"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Policy struct {
	Penalty   decimal.Decimal
	GraceDays int
}

type SweepResult struct {
	InstallmentsMarked int             `json:"installments_marked"`
	LoansMarked        int             `json:"loans_marked"`
	PenaltiesTotal     decimal.Decimal `json:"penalties_total"`
}

type Usecase struct {
	installments domainLoan.InstallmentRepository
	uow          uow.UnitOfWork
	policy       Policy
	log          *zap.Logger
}

func NewUsecase(installments domainLoan.InstallmentRepository, tx uow.UnitOfWork, p Policy, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{installments: installments, uow: tx, policy: p, log: log}
}

// SweepOverdue marks every pending installment whose due date plus the grace
// period is before now. Each loan is handled in its own transaction so one
// failure does not block the rest; errors are joined.
func (u *Usecase) SweepOverdue(ctx context.Context, now time.Time) (SweepResult, error) {
	res := SweepResult{PenaltiesTotal: decimal.Zero}
	cutoff := now.UTC().AddDate(0, 0, -u.policy.GraceDays)

	late, err := u.installments.ListPendingDueBefore(ctx, cutoff)
	if err != nil {
		return res, err
	}
	var loanIDs []uint64
	seen := make(map[uint64]bool)
	for _, it := range late {
		if !seen[it.LoanID] {
			seen[it.LoanID] = true
			loanIDs = append(loanIDs, it.LoanID)
		}
	}

	var errs []error
	for _, loanID := range loanIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		marked, loanMarked, penalties, err := u.sweepLoan(ctx, loanID, cutoff)
		if err != nil {
			u.log.Error("overdue sweep failed for loan", zap.Uint64("loan", loanID), zap.Error(err))
			errs = append(errs, fmt.Errorf("loan %d: %w", loanID, err))
			continue
		}
		res.InstallmentsMarked += marked
		res.PenaltiesTotal = res.PenaltiesTotal.Add(penalties)
		if loanMarked {
			res.LoansMarked++
		}
	}

	u.log.Info("overdue sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("installments_marked", res.InstallmentsMarked),
		zap.Int("loans_marked", res.LoansMarked))
	return res, errors.Join(errs...)
}

func (u *Usecase) sweepLoan(ctx context.Context, loanID uint64, cutoff time.Time) (int, bool, decimal.Decimal, error) {
	var (
		marked     int
		loanMarked bool
		penalties  = decimal.Zero
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if !l.Status.Payable() {
			return nil
		}
		// re-read under the lock; a payment may have landed since the scan
		items, err := r.Installments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		for i := range items {
			it := &items[i]
			if it.Status != domainLoan.InstallmentPending || !it.DueDate.Before(cutoff) || !it.Outstanding().IsPositive() {
				continue
			}
			it.Status = domainLoan.InstallmentOverdue
			it.PenaltyApplied = it.PenaltyApplied.Add(u.policy.Penalty)
			if err := r.Installments.Save(ctx, it); err != nil {
				return err
			}
			marked++
			penalties = penalties.Add(u.policy.Penalty)
		}
		if marked > 0 && l.Status == domainLoan.StateActive {
			l.Status = domainLoan.StateOverdue
			l.StateUpdatedAt = time.Now().UTC()
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
			loanMarked = true
		}
		return nil
	})
	if err != nil {
		return 0, false, decimal.Zero, err
	}
	return marked, loanMarked, penalties, nil
}
