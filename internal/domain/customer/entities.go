package customer

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("customer not found")
	ErrDuplicateCURP = errors.New("a customer with this CURP already exists")
)

type Customer struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	CustomerID    string          `gorm:"size:32;uniqueIndex:ux_customers_customer_id" json:"customer_id"`
	FirstName     string          `gorm:"size:100;not null" json:"first_name"`
	LastName      string          `gorm:"size:100;not null" json:"last_name"`
	CURP          string          `gorm:"column:curp;size:18;uniqueIndex:ux_customers_curp" json:"curp"`
	Phone         string          `gorm:"size:20" json:"phone"`
	Email         string          `gorm:"size:120" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	Occupation    string          `gorm:"size:100" json:"occupation"`
	Employer      string          `gorm:"size:120" json:"employer"`
	MonthlyIncome decimal.Decimal `gorm:"type:numeric(14,2)" json:"monthly_income"`
	StoreID       string          `gorm:"size:32;index" json:"store_id"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Customer) TableName() string { return "customers" }

func (c Customer) FullName() string { return c.FirstName + " " + c.LastName }
