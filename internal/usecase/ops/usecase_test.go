package ops

import (
	"context"
	"testing"

	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/domain/customer"
	"crediya/internal/domain/loan"
	"crediya/internal/domain/user"
	"crediya/internal/testutil/sqlitedb"
	"crediya/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const seedYAML = `
stores:
  - code: matriz
    name: Sucursal Matriz
  - code: NORTE
    name: Sucursal Norte
users:
  - username: Admin
    password: s3cret
    full_name: Ana Admin
    role: admin
  - username: cajero
    password: s3cret
    store: NORTE
customers:
  - first_name: Juan
    last_name: Perez
    curp: peja800101hdfrrn09
    monthly_income: "12000.50"
    store: NORTE
loans:
  - curp: PEJA800101HDFRRN09
    amount: "5000"
    interest_rate: "5"
    term_weeks: 12
inventory:
  - sku: tv-32
    name: Television 32
    quantity: 4
    unit_cost: "3500"
    store: norte
`

func newUsecase(t *testing.T) (*Usecase, *gorm.DB) {
	t.Helper()
	db := sqlitedb.Open(t)
	return NewUsecase(postgres.NewGormUoW(db), postgres.NewMaintenance(db), nil), db
}

func TestSeed_CreatesRecordsAndIsIdempotent(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()
	f, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	first, err := uc.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Counts{Created: 2}, first.Stores)
	assert.Equal(t, Counts{Created: 2}, first.Users)
	assert.Equal(t, Counts{Created: 1}, first.Customers)
	assert.Equal(t, Counts{Created: 1}, first.Loans)
	assert.Equal(t, Counts{Created: 1}, first.Inventory)

	second, err := uc.Seed(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Counts{Skipped: 2}, second.Stores)
	assert.Equal(t, Counts{Skipped: 2}, second.Users)
	assert.Equal(t, Counts{Skipped: 1}, second.Customers)
	assert.Equal(t, Counts{Skipped: 1}, second.Loans)
	assert.Equal(t, Counts{Skipped: 1}, second.Inventory)

	repos := postgres.NewRepos(db)
	norte, err := repos.Stores.GetByCode(ctx, "NORTE")
	require.NoError(t, err)

	admin, err := repos.Users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.NoError(t, password.Check(admin.PasswordHash, "s3cret"))

	cashier, err := repos.Users.GetByUsername(ctx, "cajero")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStaff, cashier.Role)
	assert.Equal(t, norte.StoreID, cashier.StoreID)

	cust, err := repos.Customers.GetByCURP(ctx, "PEJA800101HDFRRN09")
	require.NoError(t, err)
	assert.Equal(t, "12000.50", cust.MonthlyIncome.StringFixed(2))

	l, err := repos.Loans.GetPendingLoanByCustomerID(ctx, cust.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatePending, l.Status)
	assert.Equal(t, "5250.00", l.RemainingBalance.StringFixed(2))
	assert.Equal(t, norte.StoreID, l.StoreID)

	item, err := repos.Inventory.GetBySKU(ctx, "TV-32")
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
}

func TestSeed_RollsBackOnUnknownStore(t *testing.T) {
	uc, db := newUsecase(t)
	ctx := context.Background()
	f := &SeedFile{
		Stores:    []SeedStore{{Code: "MATRIZ", Name: "Matriz"}},
		Customers: []SeedCustomer{{FirstName: "A", LastName: "B", CURP: "AAAA000000HDFAAA01", Store: "NOPE"}},
	}

	_, err := uc.Seed(ctx, f)
	require.ErrorIs(t, err, ErrUnknownStore)

	_, err = postgres.NewStoreRepository(db).GetByCode(ctx, "MATRIZ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound, "store insert must roll back")
}

func TestSeed_LoanForMissingCustomer(t *testing.T) {
	uc, _ := newUsecase(t)
	f := &SeedFile{Loans: []SeedLoan{{CURP: "ZZZZ000000HDFZZZ09", Amount: "100", InterestRate: "5", TermWeeks: 4}}}

	_, err := uc.Seed(context.Background(), f)
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestParseSeed(t *testing.T) {
	_, err := ParseSeed([]byte("stores:\n  - code: A\n    colour: red\n"))
	assert.Error(t, err, "unknown keys are rejected")

	f, err := ParseSeed(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Stores)
}

func TestReset(t *testing.T) {
	ctx := context.Background()

	t.Run("drops everything and reseeds default stores", func(t *testing.T) {
		uc, db := newUsecase(t)
		f, err := ParseSeed([]byte(seedYAML))
		require.NoError(t, err)
		_, err = uc.Seed(ctx, f)
		require.NoError(t, err)

		deleted, err := uc.Reset(ctx, false)
		require.NoError(t, err)
		assert.EqualValues(t, 1, deleted["loans"])
		assert.EqualValues(t, 2, deleted["users"])
		assert.EqualValues(t, 2, deleted["stores"])

		repos := postgres.NewRepos(db)
		n, err := repos.Users.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		stores, err := repos.Stores.List(ctx)
		require.NoError(t, err)
		require.Len(t, stores, 1)
		assert.Equal(t, "MATRIZ", stores[0].Code)
	})

	t.Run("keep users leaves accounts and existing stores", func(t *testing.T) {
		uc, db := newUsecase(t)
		f, err := ParseSeed([]byte(seedYAML))
		require.NoError(t, err)
		_, err = uc.Seed(ctx, f)
		require.NoError(t, err)

		deleted, err := uc.Reset(ctx, true)
		require.NoError(t, err)
		_, ok := deleted["users"]
		assert.False(t, ok)

		repos := postgres.NewRepos(db)
		n, err := repos.Users.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
		stores, err := repos.Stores.List(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, 2)
		_, err = repos.Customers.GetByCURP(ctx, "PEJA800101HDFRRN09")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestMigrate(t *testing.T) {
	uc, _ := newUsecase(t)
	assert.NoError(t, uc.Migrate(context.Background()))
}
