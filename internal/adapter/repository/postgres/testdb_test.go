package postgres

import (
	"testing"
	"time"

	"crediya/internal/domain/loan"
	"crediya/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory sqlite DB with the full schema. A single
// connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(customerID string, status loan.State) *loan.Loan {
	return &loan.Loan{
		LoanID:           id.NewID32(),
		CustomerID:       customerID,
		StoreID:          "store-1",
		Amount:           decimal.NewFromInt(5000),
		InterestRate:     decimal.NewFromInt(5),
		TermWeeks:        12,
		Status:           status,
		RemainingBalance: decimal.NewFromInt(5250),
		StateUpdatedAt:   time.Now().UTC(),
	}
}
