package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crediya/internal/domain/customer"
	domain "crediya/internal/domain/loan"
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

// NewUsecase takes repositories bound to the main connection for reads and a
// UoW for loan creation and the locked lifecycle transitions.
func NewUsecase(r uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: r, uow: tx, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source. Used by tests.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	terms := amortization.Terms{Principal: in.Amount, RatePercent: in.InterestRate, TermWeeks: in.TermWeeks}
	total, err := amortization.TotalDue(terms)
	if err != nil {
		return nil, err
	}

	var l *domain.Loan
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// the customer row lock serialises concurrent applications
		c, err := r.Customers.GetByCustomerIDForUpdate(ctx, in.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return customer.ErrNotFound
			}
			return err
		}

		// one pending application per customer
		pending, err := r.Loans.GetPendingLoanByCustomerID(ctx, in.CustomerID)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", domain.ErrPendingLoanExists, pending.LoanID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		now := u.now()
		l = &domain.Loan{
			LoanID:           id.NewID32(),
			CustomerID:       c.CustomerID,
			StoreID:          c.StoreID,
			Amount:           in.Amount.Round(2),
			InterestRate:     in.InterestRate.Round(2),
			TermWeeks:        in.TermWeeks,
			Status:           domain.StatePending,
			RemainingBalance: total,
			CreatedBy:        in.CreatedBy,
			StateUpdatedAt:   now,
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("loan created", zap.String("loan_id", l.LoanID), zap.String("customer_id", l.CustomerID))

	dto := toDTO(l)
	return &dto, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(l)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*ListDTO, error) {
	if in.Status != "" && !domain.State(in.Status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, in.Status)
	}
	loans, total, err := u.repos.Loans.List(ctx, domain.ListFilter{
		Status:     domain.State(in.Status),
		CustomerID: in.CustomerID,
		StoreID:    in.StoreID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &ListDTO{Items: make([]LoanDTO, 0, len(loans)), Total: total, Limit: in.Limit, Offset: in.Offset}
	for i := range loans {
		out.Items = append(out.Items, toDTO(&loans[i]))
	}
	return out, nil
}

// Preview computes the contract schedule without persisting anything.
func (u *Usecase) Preview(_ context.Context, in PreviewInput) (*PreviewDTO, error) {
	start := in.StartDate
	if start.IsZero() {
		start = startOfDay(u.now())
	}
	terms := amortization.Terms{Principal: in.Amount, RatePercent: in.InterestRate, TermWeeks: in.TermWeeks, Start: start}
	rows, err := amortization.Schedule(terms)
	if err != nil {
		return nil, err
	}
	weekly, _ := amortization.WeeklyPayment(terms)
	total, _ := amortization.TotalDue(terms)
	return &PreviewDTO{
		Amount:        in.Amount,
		InterestRate:  in.InterestRate,
		TermWeeks:     in.TermWeeks,
		WeeklyPayment: weekly,
		TotalDue:      total,
		TotalInterest: total.Sub(in.Amount.Round(2)),
		Schedule:      rows,
	}, nil
}

// Details returns the loan with its customer, approval, schedule and payments. Loans that
// are not active yet get the projected schedule starting today.
func (u *Usecase) Details(ctx context.Context, loanID string) (*DetailsDTO, error) {
	l, err := u.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	out := &DetailsDTO{Loan: toDTO(l)}

	if c, err := u.repos.Customers.GetByCustomerID(ctx, l.CustomerID); err == nil {
		out.Customer = &CustomerSummary{CustomerID: c.CustomerID, FullName: c.FullName(), CURP: c.CURP, Phone: c.Phone}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if a, err := u.repos.Approvals.GetByLoanID(ctx, l.ID); err == nil {
		out.Approval = a
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items, err := u.repos.Installments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		for _, it := range items {
			out.Schedule = append(out.Schedule, ScheduleRow{
				WeekNumber: it.WeekNumber,
				DueDate:    it.DueDate,
				Capital:    it.CapitalPortion,
				Interest:   it.InterestPortion,
				Penalty:    it.PenaltyApplied,
				Total:      it.Total(),
				Status:     string(it.Status),
			})
		}
	} else {
		rows, err := amortization.Schedule(termsOf(l, startOfDay(u.now())))
		if err != nil {
			return nil, err
		}
		out.Projected = true
		for _, r := range rows {
			out.Schedule = append(out.Schedule, ScheduleRow{
				WeekNumber: r.WeekNumber,
				DueDate:    r.DueDate,
				Capital:    r.Capital,
				Interest:   r.Interest,
				Penalty:    decimal.Zero,
				Total:      r.Capital.Add(r.Interest),
			})
		}
	}

	out.Payments, err = u.repos.Payments.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) GenerateContract(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.advance(ctx, loanID, domain.StateContractGenerated, nil)
}

func (u *Usecase) Deliver(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.advance(ctx, loanID, domain.StateDelivered, nil)
}

// Activate persists the weekly installments starting from the activation day
// and sets the loan due date to the last one.
func (u *Usecase) Activate(ctx context.Context, loanID string) (*LoanDTO, error) {
	return u.advance(ctx, loanID, domain.StateActive, func(r uow.Repos, l *domain.Loan, now time.Time) error {
		rows, err := amortization.Schedule(termsOf(l, startOfDay(now)))
		if err != nil {
			return err
		}
		items := make([]domain.Installment, 0, len(rows))
		for _, row := range rows {
			items = append(items, domain.Installment{
				LoanID:          l.ID,
				WeekNumber:      row.WeekNumber,
				DueDate:         row.DueDate,
				CapitalPortion:  row.Capital,
				InterestPortion: row.Interest,
				PenaltyApplied:  decimal.Zero,
				PaidCapital:     decimal.Zero,
				PaidInterest:    decimal.Zero,
				PaidPenalty:     decimal.Zero,
				Status:          domain.InstallmentPending,
			})
		}
		if err := r.Installments.CreateBatch(ctx, items); err != nil {
			return err
		}
		due := rows[len(rows)-1].DueDate
		l.DueDate = &due
		return nil
	})
}

type transitionHook func(r uow.Repos, l *domain.Loan, now time.Time) error

func (u *Usecase) advance(ctx context.Context, loanID string, to domain.State, hook transitionHook) (*LoanDTO, error) {
	var out LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		if !l.Status.CanAdvanceTo(to) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, l.Status, to)
		}
		now := u.now()
		if hook != nil {
			if err := hook(r, l, now); err != nil {
				return err
			}
		}
		from := l.Status
		l.Status = to
		l.StateUpdatedAt = now
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		u.log.Info("loan transition",
			zap.String("loan_id", l.LoanID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
		out = toDTO(l)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) getLoan(ctx context.Context, loanID string) (*domain.Loan, error) {
	l, err := u.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
