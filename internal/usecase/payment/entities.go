package payment

import (
	"time"

	"crediya/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type MakePaymentInput struct {
	LoanID      string
	Amount      decimal.Decimal
	Method      string
	PaymentDate time.Time // zero means now
	ReceivedBy  string
}

type AllocationDTO struct {
	WeekNumber int             `json:"week_number"`
	Component  string          `json:"component"`
	Amount     decimal.Decimal `json:"amount"`
}

type PaymentDTO struct {
	Reference        string          `json:"reference"`
	LoanID           string          `json:"loan_id"`
	Amount           decimal.Decimal `json:"amount"`
	Method           string          `json:"method"`
	PaymentDate      time.Time       `json:"payment_date"`
	Allocations      []AllocationDTO `json:"allocations"`
	InstallmentsPaid []int           `json:"installments_paid"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	LoanStatus       string          `json:"loan_status"`
}

type StatementLine struct {
	WeekNumber  int             `json:"week_number"`
	DueDate     time.Time       `json:"due_date"`
	Capital     decimal.Decimal `json:"capital"`
	Interest    decimal.Decimal `json:"interest"`
	Penalty     decimal.Decimal `json:"penalty"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      string          `json:"status"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
}

type StatementTotals struct {
	TotalDue       decimal.Decimal `json:"total_due"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalPenalties decimal.Decimal `json:"total_penalties"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

type StatementDTO struct {
	LoanID           string            `json:"loan_id"`
	CustomerID       string            `json:"customer_id"`
	Status           string            `json:"status"`
	RemainingBalance decimal.Decimal   `json:"remaining_balance"`
	Projected        bool              `json:"projected"`
	Lines            []StatementLine   `json:"lines"`
	Payments         []payment.Payment `json:"payments"`
	Totals           StatementTotals   `json:"totals"`
}
