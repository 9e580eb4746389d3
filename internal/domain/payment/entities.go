package payment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("payment amount must be greater than 0")
	ErrInvalidMethod = errors.New("payment method must be cash, transfer or card")
)

// Component is the part of an installment a payment slice settled.
type Component string

const (
	ComponentPenalty  Component = "penalty"
	ComponentInterest Component = "interest"
	ComponentCapital  Component = "capital"
)

type Method string

const (
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
	MethodCard     Method = "card"
)

func (m Method) Valid() bool {
	return m == MethodCash || m == MethodTransfer || m == MethodCard
}

// Payment is one allocation slice. A submitted payment produces one row per
// (installment, component) it touched, all sharing the same Reference.
type Payment struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID   string          `gorm:"size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	Reference   string          `gorm:"size:20;index" json:"reference"`
	LoanID      uint64          `gorm:"not null;index" json:"-"`
	WeekNumber  int             `gorm:"not null" json:"week_number"`
	Component   Component       `gorm:"size:16;not null" json:"component"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	PaymentDate time.Time       `gorm:"index" json:"payment_date"`
	Method      Method          `gorm:"size:16" json:"method"`
	ReceivedBy  string          `gorm:"size:32" json:"received_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }
