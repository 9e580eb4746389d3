package loan

import (
	"time"

	domain "crediya/internal/domain/loan"
	"crediya/internal/domain/approval"
	"crediya/internal/domain/payment"
	"crediya/pkg/amortization"

	"github.com/shopspring/decimal"
)

type CreateLoanInput struct {
	CustomerID   string
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TermWeeks    int
	CreatedBy    string
}

type ListInput struct {
	Status     string
	CustomerID string
	StoreID    string
	Limit      int
	Offset     int
}

type PreviewInput struct {
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TermWeeks    int
	// StartDate defaults to today when zero.
	StartDate time.Time
}

type LoanDTO struct {
	LoanID           string          `json:"loan_id"`
	CustomerID       string          `json:"customer_id"`
	StoreID          string          `json:"store_id"`
	Amount           decimal.Decimal `json:"amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TermWeeks        int             `json:"term_weeks"`
	WeeklyPayment    decimal.Decimal `json:"weekly_payment"`
	TotalDue         decimal.Decimal `json:"total_due"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	StateUpdatedAt   time.Time       `json:"state_updated_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

type ListDTO struct {
	Items  []LoanDTO `json:"items"`
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

type PreviewDTO struct {
	Amount        decimal.Decimal            `json:"amount"`
	InterestRate  decimal.Decimal            `json:"interest_rate"`
	TermWeeks     int                        `json:"term_weeks"`
	WeeklyPayment decimal.Decimal            `json:"weekly_payment"`
	TotalDue      decimal.Decimal            `json:"total_due"`
	TotalInterest decimal.Decimal            `json:"total_interest"`
	Schedule      []amortization.Installment `json:"schedule"`
}

type CustomerSummary struct {
	CustomerID string `json:"customer_id"`
	FullName   string `json:"full_name"`
	CURP       string `json:"curp"`
	Phone      string `json:"phone"`
}

// ScheduleRow is one week of a loan. Before activation the rows are the
// projected schedule and Status is empty.
type ScheduleRow struct {
	WeekNumber int             `json:"week_number"`
	DueDate    time.Time       `json:"due_date"`
	Capital    decimal.Decimal `json:"capital"`
	Interest   decimal.Decimal `json:"interest"`
	Penalty    decimal.Decimal `json:"penalty"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status,omitempty"`
}

type DetailsDTO struct {
	Loan      LoanDTO            `json:"loan"`
	Customer  *CustomerSummary   `json:"customer,omitempty"`
	Approval  *approval.Approval `json:"approval,omitempty"`
	Projected bool               `json:"projected"`
	Schedule  []ScheduleRow      `json:"schedule"`
	Payments  []payment.Payment  `json:"payments"`
}

func toDTO(l *domain.Loan) LoanDTO {
	dto := LoanDTO{
		LoanID:           l.LoanID,
		CustomerID:       l.CustomerID,
		StoreID:          l.StoreID,
		Amount:           l.Amount,
		InterestRate:     l.InterestRate,
		TermWeeks:        l.TermWeeks,
		RemainingBalance: l.RemainingBalance,
		Status:           string(l.Status),
		DueDate:          l.DueDate,
		StateUpdatedAt:   l.StateUpdatedAt,
		CreatedAt:        l.CreatedAt,
	}
	terms := termsOf(l, time.Time{})
	if w, err := amortization.WeeklyPayment(terms); err == nil {
		dto.WeeklyPayment = w
	}
	if t, err := amortization.TotalDue(terms); err == nil {
		dto.TotalDue = t
	}
	return dto
}

func termsOf(l *domain.Loan, start time.Time) amortization.Terms {
	return amortization.Terms{
		Principal:   l.Amount,
		RatePercent: l.InterestRate,
		TermWeeks:   l.TermWeeks,
		Start:       start,
	}
}
