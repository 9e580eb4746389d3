package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type State string

const (
	StatePending           State = "pending"
	StateApproved          State = "approved"
	StateContractGenerated State = "contract_generated"
	StateDelivered         State = "delivered"
	StateActive            State = "active"
	StateOverdue           State = "overdue"
	StateCompleted         State = "completed"
)

// transitions lists the manual lifecycle moves. active<->overdue and
// ->completed are driven by payments and the overdue sweep, not by operators.
var transitions = map[State]State{
	StatePending:           StateApproved,
	StateApproved:          StateContractGenerated,
	StateContractGenerated: StateDelivered,
	StateDelivered:         StateActive,
}

func (s State) CanAdvanceTo(next State) bool { return transitions[s] == next }

// Payable reports whether payments may be applied to a loan in this state.
func (s State) Payable() bool { return s == StateActive || s == StateOverdue }

func (s State) Valid() bool {
	switch s {
	case StatePending, StateApproved, StateContractGenerated, StateDelivered,
		StateActive, StateOverdue, StateCompleted:
		return true
	}
	return false
}

type Loan struct {
	ID               uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID           string          `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	CustomerID       string          `gorm:"size:32;index:idx_loans_customer" json:"customer_id"`
	StoreID          string          `gorm:"size:32;index" json:"store_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	InterestRate     decimal.Decimal `gorm:"type:numeric(6,2)" json:"interest_rate"`
	TermWeeks        int             `gorm:"not null" json:"term_weeks"`
	Status           State           `gorm:"size:24;index:idx_loans_status;default:'pending'" json:"status"`
	RemainingBalance decimal.Decimal `gorm:"type:numeric(14,2)" json:"remaining_balance"`
	DueDate          *time.Time      `json:"due_date,omitempty"`
	CreatedBy        string          `gorm:"size:32" json:"created_by"`
	StateUpdatedAt   time.Time       `gorm:"autoCreateTime" json:"state_updated_at"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"
	InstallmentOverdue InstallmentStatus = "overdue"
)

type Installment struct {
	ID              uint64            `gorm:"primaryKey;column:id" json:"-"`
	LoanID          uint64            `gorm:"not null;uniqueIndex:ux_installments_loan_week" json:"-"`
	WeekNumber      int               `gorm:"not null;uniqueIndex:ux_installments_loan_week" json:"week_number"`
	DueDate         time.Time         `gorm:"index" json:"due_date"`
	CapitalPortion  decimal.Decimal   `gorm:"type:numeric(14,2)" json:"capital_portion"`
	InterestPortion decimal.Decimal   `gorm:"type:numeric(14,2)" json:"interest_portion"`
	PenaltyApplied  decimal.Decimal   `gorm:"type:numeric(14,2)" json:"penalty_applied"`
	PaidCapital     decimal.Decimal   `gorm:"type:numeric(14,2)" json:"paid_capital"`
	PaidInterest    decimal.Decimal   `gorm:"type:numeric(14,2)" json:"paid_interest"`
	PaidPenalty     decimal.Decimal   `gorm:"type:numeric(14,2)" json:"paid_penalty"`
	Status          InstallmentStatus `gorm:"size:16;index;default:'pending'" json:"status"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"-"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"-"`
}

func (Installment) TableName() string { return "installments" }

// Total is capital + interest + penalty.
func (i Installment) Total() decimal.Decimal {
	return i.CapitalPortion.Add(i.InterestPortion).Add(i.PenaltyApplied)
}

func (i Installment) Paid() decimal.Decimal {
	return i.PaidCapital.Add(i.PaidInterest).Add(i.PaidPenalty)
}

func (i Installment) Outstanding() decimal.Decimal { return i.Total().Sub(i.Paid()) }

func (i Installment) OutstandingPenalty() decimal.Decimal {
	return i.PenaltyApplied.Sub(i.PaidPenalty)
}
