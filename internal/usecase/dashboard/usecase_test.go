package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/domain/customer"
	"crediya/internal/domain/loan"
	domainPayment "crediya/internal/domain/payment"
	"crediya/internal/infrastructure/cache"
	"crediya/internal/testutil/sqlitedb"
	"crediya/pkg/id"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()
	repos := postgres.NewRepos(db)
	l := &loan.Loan{LoanID: id.NewID32(), CustomerID: "c", Status: loan.StateActive, TermWeeks: 4, RemainingBalance: decimal.RequireFromString("800")}
	require.NoError(t, repos.Loans.Create(ctx, l))
	require.NoError(t, repos.Loans.Create(ctx, &loan.Loan{LoanID: id.NewID32(), CustomerID: "d", Status: loan.StatePending, TermWeeks: 4}))
	require.NoError(t, repos.Customers.Create(ctx, &customer.Customer{CustomerID: id.NewID32(), FirstName: "A", LastName: "B", CURP: "AAAA000000HDFAAA01"}))
	require.NoError(t, repos.Payments.CreateBatch(ctx, []domainPayment.Payment{
		{PaymentID: id.NewID32(), LoanID: l.ID, WeekNumber: 1, Component: domainPayment.ComponentCapital, Amount: decimal.RequireFromString("200"), PaymentDate: now.AddDate(0, 0, -3)},
		{PaymentID: id.NewID32(), LoanID: l.ID, WeekNumber: 1, Component: domainPayment.ComponentCapital, Amount: decimal.RequireFromString("99"), PaymentDate: now.AddDate(0, -1, 0)},
	}))
}

func TestMetrics_ComputesAggregates(t *testing.T) {
	db := sqlitedb.Open(t)
	seed(t, db)
	uc := NewUsecase(postgres.NewDashboardRepository(db), postgres.NewPaymentRepository(db), nil, time.Minute, nil).
		WithClock(func() time.Time { return now })

	m, err := uc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"active": 1, "pending": 1}, m.LoansByStatus)
	assert.Equal(t, "800.00", m.PortfolioOutstanding.StringFixed(2))
	assert.Equal(t, "200.00", m.CollectedThisMonth.StringFixed(2))
	assert.EqualValues(t, 1, m.Customers)
	assert.Zero(t, m.OverdueInstallments)
	assert.True(t, m.GeneratedAt.Equal(now))
}

func TestMetrics_ReadThroughCache(t *testing.T) {
	db := sqlitedb.Open(t)
	seed(t, db)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	uc := NewUsecase(postgres.NewDashboardRepository(db), postgres.NewPaymentRepository(db), cache.NewStore(rdb, "crediya:"), time.Minute, nil).
		WithClock(func() time.Time { return now })
	ctx := context.Background()

	first, err := uc.Metrics(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("crediya:"+cacheKey))

	// new data is invisible until the entry expires or is refreshed
	require.NoError(t, postgres.NewCustomerRepository(db).Create(ctx, &customer.Customer{CustomerID: id.NewID32(), FirstName: "C", LastName: "D", CURP: "CCCC000000HDFCCC02"}))
	cached, err := uc.Metrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Customers, cached.Customers)
	assert.Equal(t, "800.00", cached.PortfolioOutstanding.StringFixed(2))

	refreshed, err := uc.Refresh(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, refreshed.Customers)

	again, err := uc.Metrics(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, again.Customers)
}

type failingRepo struct{ *postgres.DashboardRepository }

func (failingRepo) CountCustomers(context.Context) (int64, error) { return 0, errors.New("db down") }

func TestMetrics_PropagatesAggregateError(t *testing.T) {
	db := sqlitedb.Open(t)
	repo := failingRepo{postgres.NewDashboardRepository(db)}
	uc := NewUsecase(repo, postgres.NewPaymentRepository(db), nil, time.Minute, nil)

	_, err := uc.Metrics(context.Background())
	assert.EqualError(t, err, "db down")
}
