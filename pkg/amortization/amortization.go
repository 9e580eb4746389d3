// Package amortization computes the weekly flat-interest payment schedule used
// by contract previews, loan details, statements and installment persistence.
package amortization

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidTerms = errors.New("invalid loan terms")

const daysPerWeek = 7

var hundred = decimal.NewFromInt(100)

// Terms are the inputs of a schedule. RatePercent is a flat percentage charged
// once over the whole term (5 means 5%), not an annualised rate.
type Terms struct {
	Principal   decimal.Decimal
	RatePercent decimal.Decimal
	TermWeeks   int
	Start       time.Time
}

// Installment is one row of the schedule.
//
// Amount is the display figure and is identical on every row. Capital and
// Interest are the cent-exact split: capitals sum to the principal and
// interests sum to TotalDue-Principal, so a row's split may differ from Amount
// by one cent. Balance is the principal still outstanding after the row.
type Installment struct {
	WeekNumber int             `json:"week_number"`
	DueDate    time.Time       `json:"due_date"`
	Amount     decimal.Decimal `json:"amount"`
	Capital    decimal.Decimal `json:"capital"`
	Interest   decimal.Decimal `json:"interest"`
	Balance    decimal.Decimal `json:"balance"`
}

func (t Terms) Validate() error {
	switch {
	case t.TermWeeks <= 0:
		return fmt.Errorf("%w: term_weeks must be greater than 0", ErrInvalidTerms)
	case !t.Principal.IsPositive():
		return fmt.Errorf("%w: principal must be greater than 0", ErrInvalidTerms)
	case t.RatePercent.IsNegative():
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidTerms)
	}
	return nil
}

// TotalDue is principal * (1 + rate/100), rounded to cents.
func TotalDue(t Terms) (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	return totalDue(t), nil
}

// WeeklyPayment is TotalDue spread evenly over the term, rounded to cents.
func WeeklyPayment(t Terms) (decimal.Decimal, error) {
	if err := t.Validate(); err != nil {
		return decimal.Zero, err
	}
	return weekly(t), nil
}

// Schedule returns exactly TermWeeks rows. It is a pure function of t.
func Schedule(t Terms) ([]Installment, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	amount := weekly(t)
	interestTotal := totalDue(t).Sub(t.Principal.Round(2))
	principal := t.Principal.Round(2)
	n := decimal.NewFromInt(int64(t.TermWeeks))

	out := make([]Installment, 0, t.TermWeeks)
	prevCapital, prevInterest := decimal.Zero, decimal.Zero
	for week := 1; week <= t.TermWeeks; week++ {
		w := decimal.NewFromInt(int64(week))
		// cumulative rounding keeps every row within a cent of the exact share
		// and makes the last row land exactly on the totals
		cumCapital := principal.Mul(w).Div(n).Round(2)
		cumInterest := interestTotal.Mul(w).Div(n).Round(2)
		if week == t.TermWeeks {
			cumCapital, cumInterest = principal, interestTotal
		}

		out = append(out, Installment{
			WeekNumber: week,
			DueDate:    t.Start.AddDate(0, 0, daysPerWeek*week),
			Amount:     amount,
			Capital:    cumCapital.Sub(prevCapital),
			Interest:   cumInterest.Sub(prevInterest),
			Balance:    principal.Sub(cumCapital),
		})
		prevCapital, prevInterest = cumCapital, cumInterest
	}
	return out, nil
}

func totalDue(t Terms) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(t.RatePercent.Div(hundred))
	return t.Principal.Mul(factor).Round(2)
}

func weekly(t Terms) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(t.RatePercent.Div(hundred))
	return t.Principal.Mul(factor).Div(decimal.NewFromInt(int64(t.TermWeeks))).Round(2)
}
