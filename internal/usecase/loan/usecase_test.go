package loan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/domain/customer"
	domain "crediya/internal/domain/loan"
	"crediya/internal/domain/uow"
	"crediya/internal/testutil/customermock"
	"crediya/internal/testutil/loanmock"
	"crediya/internal/testutil/sqlitedb"
	"crediya/internal/testutil/uowmock"
	"crediya/pkg/amortization"
	"crediya/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validInput(customerID string) CreateLoanInput {
	return CreateLoanInput{
		CustomerID:   customerID,
		Amount:       dec("5000"),
		InterestRate: dec("5"),
		TermWeeks:    12,
		CreatedBy:    "user-1",
	}
}

func TestCreate_Success_NoPendingLoan(t *testing.T) {
	var created *domain.Loan
	repos := uow.Repos{
		Customers: &customermock.Repo{
			GetForUpdateFn: func(_ context.Context, cid string) (*customer.Customer, error) {
				return &customer.Customer{CustomerID: cid, StoreID: "store-7"}, nil
			},
		},
		Loans: &loanmock.Repo{
			GetPendingLoanByCustomerIDFn: func(context.Context, string) (*domain.Loan, error) {
				return nil, gorm.ErrRecordNotFound
			},
			CreateFn: func(_ context.Context, l *domain.Loan) error {
				created = l
				return nil
			},
		},
	}
	tx := uowmock.Passthrough(repos)
	uc := NewUsecase(repos, tx, nil).WithClock(func() time.Time { return fixedNow })

	dto, err := uc.Create(context.Background(), validInput("c1"))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Len(t, dto.LoanID, 32)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "store-7", dto.StoreID)
	assert.Equal(t, "5250.00", dto.RemainingBalance.StringFixed(2))
	assert.Equal(t, "437.50", dto.WeeklyPayment.StringFixed(2))
	assert.Equal(t, "5250.00", dto.TotalDue.StringFixed(2))
	assert.True(t, created.StateUpdatedAt.Equal(fixedNow))
	assert.Equal(t, 1, tx.Calls, "lookup and insert share one transaction")
}

func TestCreate_Rejections(t *testing.T) {
	found := &customermock.Repo{
		GetForUpdateFn: func(_ context.Context, cid string) (*customer.Customer, error) {
			return &customer.Customer{CustomerID: cid}, nil
		},
	}
	tests := []struct {
		name    string
		in      CreateLoanInput
		repos   uow.Repos
		wantErr error
	}{
		{
			name:    "zero term",
			in:      func() CreateLoanInput { in := validInput("c1"); in.TermWeeks = 0; return in }(),
			wantErr: amortization.ErrInvalidTerms,
		},
		{
			name:    "negative amount",
			in:      func() CreateLoanInput { in := validInput("c1"); in.Amount = dec("-1"); return in }(),
			wantErr: amortization.ErrInvalidTerms,
		},
		{
			name: "unknown customer",
			in:   validInput("nope"),
			repos: uow.Repos{Customers: &customermock.Repo{
				GetForUpdateFn: func(context.Context, string) (*customer.Customer, error) {
					return nil, gorm.ErrRecordNotFound
				},
			}},
			wantErr: customer.ErrNotFound,
		},
		{
			name: "pending loan exists",
			in:   validInput("c1"),
			repos: uow.Repos{
				Customers: found,
				Loans: &loanmock.Repo{
					GetPendingLoanByCustomerIDFn: func(context.Context, string) (*domain.Loan, error) {
						return &domain.Loan{LoanID: "existing"}, nil
					},
					CreateFn: func(context.Context, *domain.Loan) error {
						t.Fatalf("Create must not be called")
						return nil
					},
				},
			},
			wantErr: domain.ErrPendingLoanExists,
		},
		{
			name: "repo error bubbles up",
			in:   validInput("c1"),
			repos: uow.Repos{
				Customers: found,
				Loans: &loanmock.Repo{
					GetPendingLoanByCustomerIDFn: func(context.Context, string) (*domain.Loan, error) {
						return nil, context.DeadlineExceeded
					},
				},
			},
			wantErr: context.DeadlineExceeded,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUsecase(tt.repos, uowmock.Passthrough(tt.repos), nil).Create(context.Background(), tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	uc := NewUsecase(uow.Repos{Loans: &loanmock.Repo{
		GetByLoanIDFn: func(context.Context, string) (*domain.Loan, error) { return nil, gorm.ErrRecordNotFound },
	}}, nil, nil)
	_, err := uc.Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	uc := NewUsecase(uow.Repos{Loans: &loanmock.Repo{}}, nil, nil)
	_, err := uc.List(context.Background(), ListInput{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestPreview_DefaultsStartToToday(t *testing.T) {
	uc := NewUsecase(uow.Repos{}, nil, nil).WithClock(func() time.Time { return fixedNow })

	p, err := uc.Preview(context.Background(), PreviewInput{Amount: dec("5000"), InterestRate: dec("5"), TermWeeks: 12})
	require.NoError(t, err)
	assert.Equal(t, "437.50", p.WeeklyPayment.StringFixed(2))
	assert.Equal(t, "250.00", p.TotalInterest.StringFixed(2))
	require.Len(t, p.Schedule, 12)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), p.Schedule[0].DueDate)

	_, err = uc.Preview(context.Background(), PreviewInput{Amount: dec("5000"), InterestRate: dec("5")})
	assert.ErrorIs(t, err, amortization.ErrInvalidTerms)
}

// lifecycle tests run against the gorm repositories on sqlite

type fixture struct {
	db  *gorm.DB
	uc  *Usecase
	cid string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := sqlitedb.Open(t)
	repos := postgres.NewRepos(db)
	cid := id.NewID32()
	require.NoError(t, repos.Customers.Create(context.Background(), &customer.Customer{
		CustomerID: cid, FirstName: "Rosa", LastName: "Díaz", CURP: "DIAR800101MDFZSS05", StoreID: "s1",
	}))
	uc := NewUsecase(repos, postgres.NewGormUoW(db), nil).WithClock(func() time.Time { return fixedNow })
	return &fixture{db: db, uc: uc, cid: cid}
}

func TestLifecycle_ToActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, validInput(f.cid))
	require.NoError(t, err)

	// skipping a step is rejected
	_, err = f.uc.Activate(ctx, created.LoanID)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	// approval is owned by the approval usecase; emulate it here
	require.NoError(t, f.db.Model(&domain.Loan{}).Where("loan_id = ?", created.LoanID).Update("status", domain.StateApproved).Error)

	c, err := f.uc.GenerateContract(ctx, created.LoanID)
	require.NoError(t, err)
	assert.Equal(t, "contract_generated", c.Status)

	d, err := f.uc.Deliver(ctx, created.LoanID)
	require.NoError(t, err)
	assert.Equal(t, "delivered", d.Status)

	details, err := f.uc.Details(ctx, created.LoanID)
	require.NoError(t, err)
	assert.True(t, details.Projected)
	assert.Len(t, details.Schedule, 12)
	assert.Equal(t, "Rosa Díaz", details.Customer.FullName)
	assert.Nil(t, details.Approval, "status was forced without an approval row")

	a, err := f.uc.Activate(ctx, created.LoanID)
	require.NoError(t, err)
	assert.Equal(t, "active", a.Status)
	require.NotNil(t, a.DueDate)
	assert.True(t, a.DueDate.Equal(time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)), "due %s", a.DueDate)

	details, err = f.uc.Details(ctx, created.LoanID)
	require.NoError(t, err)
	assert.False(t, details.Projected)
	require.Len(t, details.Schedule, 12)
	total := decimal.Zero
	for _, row := range details.Schedule {
		assert.Equal(t, "pending", row.Status)
		total = total.Add(row.Total)
	}
	assert.Equal(t, "5250.00", total.StringFixed(2))

	_, err = f.uc.Activate(ctx, created.LoanID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLifecycle_UnknownLoan(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Deliver(context.Background(), "ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_WithFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, validInput(f.cid))
	require.NoError(t, err)

	out, err := f.uc.List(ctx, ListInput{Status: "pending", CustomerID: f.cid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "437.50", out.Items[0].WeeklyPayment.StringFixed(2))

	none, err := f.uc.List(ctx, ListInput{Status: "active"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestAdvance_UsesUoW(t *testing.T) {
	tx := uowmock.Passthrough(uow.Repos{Loans: &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*domain.Loan, error) {
			return &domain.Loan{LoanID: "L", Status: domain.StateApproved, Amount: dec("100"), InterestRate: dec("0"), TermWeeks: 4}, nil
		},
	}})
	uc := NewUsecase(uow.Repos{}, tx, nil)
	dto, err := uc.GenerateContract(context.Background(), "L")
	require.NoError(t, err)
	assert.Equal(t, "contract_generated", dto.Status)
	assert.Equal(t, 1, tx.Calls)
}

func TestCreate_ConcurrentApplicationsLeaveOnePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Create(ctx, validInput(f.cid))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrPendingLoanExists)
	}
	assert.Equal(t, 1, ok)

	var pending int64
	require.NoError(t, f.db.Model(&domain.Loan{}).Where("customer_id = ? AND status = ?", f.cid, domain.StatePending).Count(&pending).Error)
	assert.EqualValues(t, 1, pending)
}
