package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainLoan "crediya/internal/domain/loan"
	domainPayment "crediya/internal/domain/payment"
	"crediya/internal/domain/uow"
	"crediya/pkg/amortization"
	"crediya/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	log   *zap.Logger
	now   func() time.Time
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: r, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// MakePayment applies amount to the loan's installments in week order,
// settling penalty, then interest, then capital of each week before moving on.
// Every slice becomes a payment row; all rows share one reference.
func (u *Usecase) MakePayment(ctx context.Context, in MakePaymentInput) (*PaymentDTO, error) {
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, domainPayment.ErrInvalidAmount
	}
	method := domainPayment.Method(in.Method)
	if !method.Valid() {
		return nil, domainPayment.ErrInvalidMethod
	}
	paidAt := in.PaymentDate
	if paidAt.IsZero() {
		paidAt = u.now()
	}
	paidAt = paidAt.UTC()

	var out *PaymentDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if !l.Status.Payable() {
			return fmt.Errorf("%w: status %s", domainLoan.ErrNotPayable, l.Status)
		}
		items, err := r.Installments.ListByLoan(ctx, l.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: no installments", domainLoan.ErrNotPayable)
		}

		limit := l.RemainingBalance
		for _, it := range items {
			limit = limit.Add(it.OutstandingPenalty())
		}
		if amount.GreaterThan(limit) {
			return fmt.Errorf("%w: max %s", domainLoan.ErrOverpayment, limit.StringFixed(2))
		}

		ref := id.NewReference()
		res := allocate(items, amount)
		if res.rest.IsPositive() {
			// remaining_balance and the installments disagree
			return fmt.Errorf("%w: %s could not be allocated", domainLoan.ErrOverpayment, res.rest.StringFixed(2))
		}

		rows := make([]domainPayment.Payment, 0, len(res.slices))
		dto := &PaymentDTO{
			Reference:   ref,
			LoanID:      l.LoanID,
			Amount:      amount,
			Method:      string(method),
			PaymentDate: paidAt,
		}
		for _, s := range res.slices {
			rows = append(rows, domainPayment.Payment{
				PaymentID:   id.NewID32(),
				Reference:   ref,
				LoanID:      l.ID,
				WeekNumber:  s.week,
				Component:   s.component,
				Amount:      s.amount,
				PaymentDate: paidAt,
				Method:      method,
				ReceivedBy:  in.ReceivedBy,
			})
			dto.Allocations = append(dto.Allocations, AllocationDTO{WeekNumber: s.week, Component: string(s.component), Amount: s.amount})
		}
		if err := r.Payments.CreateBatch(ctx, rows); err != nil {
			return err
		}

		allPaid, anyOverdue := true, false
		for i := range items {
			it := &items[i]
			// tiny loans over long terms leave rows with nothing due; they
			// settle with the next payment
			settled := it.Status != domainLoan.InstallmentPaid && !it.Outstanding().IsPositive()
			if settled {
				it.Status = domainLoan.InstallmentPaid
				it.PaidAt = &paidAt
				dto.InstallmentsPaid = append(dto.InstallmentsPaid, it.WeekNumber)
			}
			if res.touched[i] || settled {
				if err := r.Installments.Save(ctx, it); err != nil {
					return err
				}
			}
			if it.Status != domainLoan.InstallmentPaid {
				allPaid = false
			}
			if it.Status == domainLoan.InstallmentOverdue {
				anyOverdue = true
			}
		}

		l.RemainingBalance = l.RemainingBalance.Sub(res.capital).Sub(res.interest)
		if l.RemainingBalance.IsNegative() {
			l.RemainingBalance = decimal.Zero
		}
		switch {
		case allPaid:
			l.Status = domainLoan.StateCompleted
			l.RemainingBalance = decimal.Zero
			l.StateUpdatedAt = u.now()
		case l.Status == domainLoan.StateOverdue && !anyOverdue:
			l.Status = domainLoan.StateActive
			l.StateUpdatedAt = u.now()
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		dto.RemainingBalance = l.RemainingBalance
		dto.LoanStatus = string(l.Status)
		out = dto
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	u.log.Info("payment applied",
		zap.String("loan_id", out.LoanID),
		zap.String("reference", out.Reference),
		zap.String("amount", out.Amount.StringFixed(2)),
		zap.String("loan_status", out.LoanStatus))
	return out, nil
}

type slice struct {
	week      int
	component domainPayment.Component
	amount    decimal.Decimal
}

type allocation struct {
	slices            []slice
	touched           []bool
	capital, interest decimal.Decimal
	rest              decimal.Decimal
}

// allocate mutates the Paid* fields of items in place.
func allocate(items []domainLoan.Installment, amount decimal.Decimal) allocation {
	res := allocation{touched: make([]bool, len(items)), rest: amount}
	for i := range items {
		if !res.rest.IsPositive() {
			break
		}
		it := &items[i]
		if it.Status == domainLoan.InstallmentPaid {
			continue
		}
		parts := []struct {
			component domainPayment.Component
			due       decimal.Decimal
			paid      *decimal.Decimal
		}{
			{domainPayment.ComponentPenalty, it.PenaltyApplied, &it.PaidPenalty},
			{domainPayment.ComponentInterest, it.InterestPortion, &it.PaidInterest},
			{domainPayment.ComponentCapital, it.CapitalPortion, &it.PaidCapital},
		}
		for _, p := range parts {
			open := p.due.Sub(*p.paid)
			if !open.IsPositive() || !res.rest.IsPositive() {
				continue
			}
			take := decimal.Min(open, res.rest)
			*p.paid = p.paid.Add(take)
			res.rest = res.rest.Sub(take)
			res.touched[i] = true
			res.slices = append(res.slices, slice{week: it.WeekNumber, component: p.component, amount: take})
			switch p.component {
			case domainPayment.ComponentCapital:
				res.capital = res.capital.Add(take)
			case domainPayment.ComponentInterest:
				res.interest = res.interest.Add(take)
			}
		}
	}
	return res
}

// Statement returns the installment ledger of a loan with its payments. Loans
// that are not active yet get the projected schedule.
func (u *Usecase) Statement(ctx context.Context, loanID string) (*StatementDTO, error) {
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	items, err := u.repos.Installments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	payments, err := u.repos.Payments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	out := &StatementDTO{
		LoanID:           l.LoanID,
		CustomerID:       l.CustomerID,
		Status:           string(l.Status),
		RemainingBalance: l.RemainingBalance,
		Payments:         payments,
		Totals: StatementTotals{
			TotalDue:       decimal.Zero,
			TotalPaid:      decimal.Zero,
			TotalPenalties: decimal.Zero,
		},
	}

	if len(items) == 0 {
		y, m, d := u.now().Date()
		rows, err := amortization.Schedule(amortization.Terms{
			Principal:   l.Amount,
			RatePercent: l.InterestRate,
			TermWeeks:   l.TermWeeks,
			Start:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		})
		if err != nil {
			return nil, err
		}
		out.Projected = true
		for _, r := range rows {
			items = append(items, domainLoan.Installment{
				WeekNumber:      r.WeekNumber,
				DueDate:         r.DueDate,
				CapitalPortion:  r.Capital,
				InterestPortion: r.Interest,
				Status:          domainLoan.InstallmentPending,
			})
		}
	}

	for _, it := range items {
		out.Lines = append(out.Lines, StatementLine{
			WeekNumber:  it.WeekNumber,
			DueDate:     it.DueDate,
			Capital:     it.CapitalPortion,
			Interest:    it.InterestPortion,
			Penalty:     it.PenaltyApplied,
			Total:       it.Total(),
			Paid:        it.Paid(),
			Outstanding: it.Outstanding(),
			Status:      string(it.Status),
			PaidAt:      it.PaidAt,
		})
		out.Totals.TotalDue = out.Totals.TotalDue.Add(it.Total())
		out.Totals.TotalPaid = out.Totals.TotalPaid.Add(it.Paid())
		out.Totals.TotalPenalties = out.Totals.TotalPenalties.Add(it.PenaltyApplied)
	}
	out.Totals.Outstanding = out.Totals.TotalDue.Sub(out.Totals.TotalPaid)
	return out, nil
}
