// Package ops holds the maintenance operations behind crediyactl.
package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crediya/internal/domain/customer"
	"crediya/internal/domain/inventory"
	"crediya/internal/domain/loan"
	"crediya/internal/domain/uow"
	"crediya/internal/domain/user"
	"crediya/internal/usecase/admin"
	"crediya/pkg/amortization"
	"crediya/pkg/id"
	"crediya/pkg/password"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrUnknownStore = errors.New("seed references an unknown store code")

type Maintainer interface {
	Migrate(ctx context.Context) error
	Reset(ctx context.Context, keepUsers bool, reseed func(r uow.Repos) error) (map[string]int64, error)
}

// Counts is created/skipped per record kind.
type Counts struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type SeedResult struct {
	Stores    Counts `json:"stores"`
	Users     Counts `json:"users"`
	Customers Counts `json:"customers"`
	Loans     Counts `json:"loans"`
	Inventory Counts `json:"inventory"`
}

type Usecase struct {
	tx    uow.UnitOfWork
	maint Maintainer
	log   *zap.Logger
}

func NewUsecase(tx uow.UnitOfWork, maint Maintainer, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{tx: tx, maint: maint, log: log}
}

func (u *Usecase) Migrate(ctx context.Context) error {
	if err := u.maint.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	u.log.Info("schema migrated")
	return nil
}

// Seed inserts every record of f that does not exist yet. Records already
// present by natural key are left untouched, so running it twice is a no-op.
// The whole file is applied in one transaction.
func (u *Usecase) Seed(ctx context.Context, f *SeedFile) (*SeedResult, error) {
	res := &SeedResult{}
	err := u.tx.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		if res.Stores, err = seedStores(ctx, r, f.Stores); err != nil {
			return err
		}
		if res.Users, err = seedUsers(ctx, r, f.Users); err != nil {
			return err
		}
		if res.Customers, err = seedCustomers(ctx, r, f.Customers); err != nil {
			return err
		}
		if res.Loans, err = seedLoans(ctx, r, f.Loans); err != nil {
			return err
		}
		res.Inventory, err = seedInventory(ctx, r, f.Inventory)
		return err
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("seed applied",
		zap.Int("stores", res.Stores.Created),
		zap.Int("users", res.Users.Created),
		zap.Int("customers", res.Customers.Created),
		zap.Int("loans", res.Loans.Created),
		zap.Int("inventory", res.Inventory.Created),
	)
	return res, nil
}

// Reset wipes business data (and users/stores unless keepUsers) and recreates
// the reference stores, atomically.
func (u *Usecase) Reset(ctx context.Context, keepUsers bool) (map[string]int64, error) {
	deleted, err := u.maint.Reset(ctx, keepUsers, func(r uow.Repos) error {
		_, err := seedStores(ctx, r, DefaultStores)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	fields := make([]zap.Field, 0, len(deleted)+1)
	fields = append(fields, zap.Bool("keep_users", keepUsers))
	for t, n := range deleted {
		fields = append(fields, zap.Int64(t, n))
	}
	u.log.Warn("database reset", fields...)
	return deleted, nil
}

func seedStores(ctx context.Context, r uow.Repos, in []SeedStore) (Counts, error) {
	var c Counts
	for _, s := range in {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		_, err := r.Stores.GetByCode(ctx, code)
		exists, err := present(err)
		if err != nil {
			return c, fmt.Errorf("store %s: %w", code, err)
		}
		if exists {
			c.Skipped++
			continue
		}
		err = r.Stores.Create(ctx, &user.Store{
			StoreID: id.NewID32(),
			Code:    code,
			Name:    s.Name,
			Address: s.Address,
			Active:  true,
		})
		if err != nil {
			return c, fmt.Errorf("store %s: %w", code, err)
		}
		c.Created++
	}
	return c, nil
}

func seedUsers(ctx context.Context, r uow.Repos, in []SeedUser) (Counts, error) {
	var c Counts
	for _, s := range in {
		username := strings.ToLower(strings.TrimSpace(s.Username))
		_, err := r.Users.GetByUsername(ctx, username)
		exists, err := present(err)
		if err != nil {
			return c, fmt.Errorf("user %s: %w", username, err)
		}
		if exists {
			c.Skipped++
			continue
		}
		role := user.Role(s.Role)
		if role == "" {
			role = user.RoleStaff
		}
		if !role.Valid() {
			return c, fmt.Errorf("user %s: %w", username, admin.ErrInvalidRole)
		}
		storeID, err := storeIDByCode(ctx, r, s.Store)
		if err != nil {
			return c, fmt.Errorf("user %s: %w", username, err)
		}
		hash, err := password.Hash(s.Password)
		if err != nil {
			return c, fmt.Errorf("user %s: %w", username, err)
		}
		err = r.Users.Create(ctx, &user.User{
			UserID:       id.NewID32(),
			Username:     username,
			PasswordHash: hash,
			FullName:     s.FullName,
			Role:         role,
			StoreID:      storeID,
			Active:       true,
		})
		if err != nil {
			return c, fmt.Errorf("user %s: %w", username, err)
		}
		c.Created++
	}
	return c, nil
}

func seedCustomers(ctx context.Context, r uow.Repos, in []SeedCustomer) (Counts, error) {
	var c Counts
	for _, s := range in {
		curp := strings.ToUpper(strings.TrimSpace(s.CURP))
		_, err := r.Customers.GetByCURP(ctx, curp)
		exists, err := present(err)
		if err != nil {
			return c, fmt.Errorf("customer %s: %w", curp, err)
		}
		if exists {
			c.Skipped++
			continue
		}
		storeID, err := storeIDByCode(ctx, r, s.Store)
		if err != nil {
			return c, fmt.Errorf("customer %s: %w", curp, err)
		}
		income, err := optionalDecimal(s.MonthlyIncome)
		if err != nil {
			return c, fmt.Errorf("customer %s: monthly_income: %w", curp, err)
		}
		err = r.Customers.Create(ctx, &customer.Customer{
			CustomerID:    id.NewID32(),
			FirstName:     s.FirstName,
			LastName:      s.LastName,
			CURP:          curp,
			Phone:         s.Phone,
			Email:         s.Email,
			Address:       s.Address,
			Occupation:    s.Occupation,
			Employer:      s.Employer,
			MonthlyIncome: income,
			StoreID:       storeID,
		})
		if err != nil {
			return c, fmt.Errorf("customer %s: %w", curp, err)
		}
		c.Created++
	}
	return c, nil
}

// seedLoans creates pending applications. A customer that already has a
// pending loan is skipped.
func seedLoans(ctx context.Context, r uow.Repos, in []SeedLoan) (Counts, error) {
	var c Counts
	for _, s := range in {
		curp := strings.ToUpper(strings.TrimSpace(s.CURP))
		cust, err := r.Customers.GetByCURP(ctx, curp)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c, fmt.Errorf("loan for %s: %w", curp, customer.ErrNotFound)
			}
			return c, fmt.Errorf("loan for %s: %w", curp, err)
		}
		_, err = r.Loans.GetPendingLoanByCustomerID(ctx, cust.CustomerID)
		exists, err := present(err)
		if err != nil {
			return c, fmt.Errorf("loan for %s: %w", curp, err)
		}
		if exists {
			c.Skipped++
			continue
		}

		amount, err := decimal.NewFromString(s.Amount)
		if err != nil {
			return c, fmt.Errorf("loan for %s: amount: %w", curp, err)
		}
		rate, err := decimal.NewFromString(s.InterestRate)
		if err != nil {
			return c, fmt.Errorf("loan for %s: interest_rate: %w", curp, err)
		}
		total, err := amortization.TotalDue(amortization.Terms{Principal: amount, RatePercent: rate, TermWeeks: s.TermWeeks})
		if err != nil {
			return c, fmt.Errorf("loan for %s: %w", curp, err)
		}
		err = r.Loans.Create(ctx, &loan.Loan{
			LoanID:           id.NewID32(),
			CustomerID:       cust.CustomerID,
			StoreID:          cust.StoreID,
			Amount:           amount.Round(2),
			InterestRate:     rate.Round(2),
			TermWeeks:        s.TermWeeks,
			Status:           loan.StatePending,
			RemainingBalance: total,
			CreatedBy:        "seed",
		})
		if err != nil {
			return c, fmt.Errorf("loan for %s: %w", curp, err)
		}
		c.Created++
	}
	return c, nil
}

func seedInventory(ctx context.Context, r uow.Repos, in []SeedItem) (Counts, error) {
	var c Counts
	for _, s := range in {
		sku := strings.ToUpper(strings.TrimSpace(s.SKU))
		_, err := r.Inventory.GetBySKU(ctx, sku)
		exists, err := present(err)
		if err != nil {
			return c, fmt.Errorf("item %s: %w", sku, err)
		}
		if exists {
			c.Skipped++
			continue
		}
		storeID, err := storeIDByCode(ctx, r, s.Store)
		if err != nil {
			return c, fmt.Errorf("item %s: %w", sku, err)
		}
		cost, err := optionalDecimal(s.UnitCost)
		if err != nil {
			return c, fmt.Errorf("item %s: unit_cost: %w", sku, err)
		}
		err = r.Inventory.Create(ctx, &inventory.Item{
			ItemID:   id.NewID32(),
			StoreID:  storeID,
			SKU:      sku,
			Name:     s.Name,
			Category: s.Category,
			Quantity: s.Quantity,
			UnitCost: cost,
		})
		if err != nil {
			return c, fmt.Errorf("item %s: %w", sku, err)
		}
		c.Created++
	}
	return c, nil
}

func storeIDByCode(ctx context.Context, r uow.Repos, code string) (string, error) {
	if code == "" {
		return "", nil
	}
	s, err := r.Stores.GetByCode(ctx, strings.ToUpper(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUnknownStore, code)
		}
		return "", err
	}
	return s.StoreID, nil
}

// present turns a lookup error into an existence check.
func present(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	}
	return false, err
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
