package postgres

import (
	"context"
	"fmt"

	"crediya/internal/domain/approval"
	"crediya/internal/domain/customer"
	"crediya/internal/domain/inventory"
	"crediya/internal/domain/loan"
	"crediya/internal/domain/payment"
	"crediya/internal/domain/uow"
	"crediya/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&user.Store{},
		&user.User{},
		&customer.Customer{},
		&loan.Loan{},
		&approval.Approval{},
		&loan.Installment{},
		&payment.Payment{},
		&inventory.Item{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// businessTables are listed children first.
var (
	businessTables  = []string{"payments", "installments", "approvals", "loans", "inventory_items", "customers"}
	referenceTables = []string{"users", "stores"}
)

// Maintenance runs bulk operations used by the ops CLI.
type Maintenance struct{ db *gorm.DB }

func NewMaintenance(db *gorm.DB) *Maintenance { return &Maintenance{db: db} }

func (m *Maintenance) Migrate(ctx context.Context) error {
	return AutoMigrate(m.db.WithContext(ctx))
}

// Reset hard-deletes business data (and users/stores unless keepUsers) and
// then calls reseed, all in one transaction. Any error rolls everything back.
func (m *Maintenance) Reset(ctx context.Context, keepUsers bool, reseed func(r uow.Repos) error) (map[string]int64, error) {
	tables := append([]string{}, businessTables...)
	if !keepUsers {
		tables = append(tables, referenceTables...)
	}

	counts := make(map[string]int64, len(tables))
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			res := tx.Exec("DELETE FROM " + t)
			if res.Error != nil {
				return fmt.Errorf("reset %s: %w", t, res.Error)
			}
			counts[t] = res.RowsAffected
		}
		if reseed != nil {
			return reseed(NewRepos(tx))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
