package amortization

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func terms(principal, rate string, weeks int) Terms {
	return Terms{
		Principal:   decimal.RequireFromString(principal),
		RatePercent: decimal.RequireFromString(rate),
		TermWeeks:   weeks,
		Start:       start,
	}
}

func TestSchedule_RowCountMatchesTerm(t *testing.T) {
	for _, weeks := range []int{1, 4, 12, 16, 52} {
		rows, err := Schedule(terms("5000", "5", weeks))
		require.NoError(t, err)
		assert.Len(t, rows, weeks)
		for i, r := range rows {
			assert.Equal(t, i+1, r.WeekNumber)
		}
	}
}

func TestSchedule_FlatWeeklyAmount(t *testing.T) {
	rows, err := Schedule(terms("5000", "5", 12))
	require.NoError(t, err)

	for _, r := range rows {
		assert.Equal(t, "437.50", r.Amount.StringFixed(2), "week %d", r.WeekNumber)
	}

	w, err := WeeklyPayment(terms("5000", "5", 12))
	require.NoError(t, err)
	assert.True(t, w.Equal(decimal.RequireFromString("437.50")), "weekly=%s", w)

	total, err := TotalDue(terms("5000", "5", 12))
	require.NoError(t, err)
	assert.Equal(t, "5250.00", total.StringFixed(2))
}

func TestSchedule_RejectsZeroTerm(t *testing.T) {
	rows, err := Schedule(terms("5000", "5", 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTerms))
	assert.Nil(t, rows)

	_, err = WeeklyPayment(terms("5000", "5", 0))
	assert.ErrorIs(t, err, ErrInvalidTerms)
}

func TestSchedule_RejectsBadPrincipalAndRate(t *testing.T) {
	_, err := Schedule(terms("0", "5", 12))
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = Schedule(terms("-10", "5", 12))
	assert.ErrorIs(t, err, ErrInvalidTerms)

	_, err = Schedule(terms("5000", "-1", 12))
	assert.ErrorIs(t, err, ErrInvalidTerms)
}

func TestSchedule_Idempotent(t *testing.T) {
	in := terms("12345.67", "18.5", 20)
	a, err := Schedule(in)
	require.NoError(t, err)
	b, err := Schedule(in)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("schedules differ (-first +second):\n%s", diff)
	}
}

func TestSchedule_SplitSumsToTotals(t *testing.T) {
	cases := []Terms{
		terms("5000", "5", 12),
		terms("100", "0", 3),
		terms("20", "0", 3),
		terms("10000", "30", 16),
		terms("1.5", "10", 200),
	}
	for _, in := range cases {
		rows, err := Schedule(in)
		require.NoError(t, err)

		capital, interest := decimal.Zero, decimal.Zero
		for _, r := range rows {
			assert.False(t, r.Capital.IsNegative(), "negative capital in week %d", r.WeekNumber)
			assert.False(t, r.Interest.IsNegative(), "negative interest in week %d", r.WeekNumber)
			capital = capital.Add(r.Capital)
			interest = interest.Add(r.Interest)
		}
		total, _ := TotalDue(in)
		assert.True(t, capital.Equal(in.Principal), "capital %s != principal %s", capital, in.Principal)
		assert.True(t, capital.Add(interest).Equal(total), "capital+interest %s != total %s", capital.Add(interest), total)
		assert.True(t, rows[len(rows)-1].Balance.IsZero(), "last balance %s", rows[len(rows)-1].Balance)
	}
}

func TestSchedule_FirstRowSplit(t *testing.T) {
	rows, err := Schedule(terms("5000", "5", 12))
	require.NoError(t, err)

	assert.Equal(t, "416.67", rows[0].Capital.StringFixed(2))
	assert.Equal(t, "20.83", rows[0].Interest.StringFixed(2))
	assert.Equal(t, "4583.33", rows[0].Balance.StringFixed(2))
}

func TestSchedule_WeeklyDueDates(t *testing.T) {
	rows, err := Schedule(terms("1000", "10", 4))
	require.NoError(t, err)
	for i, r := range rows {
		want := start.AddDate(0, 0, 7*(i+1))
		assert.True(t, r.DueDate.Equal(want), "week %d due %s want %s", r.WeekNumber, r.DueDate, want)
	}
}
