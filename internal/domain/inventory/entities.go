package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("inventory item not found")
	ErrDuplicateSKU = errors.New("sku already exists")
)

type Item struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	ItemID    string          `gorm:"size:32;uniqueIndex:ux_inventory_item_id" json:"item_id"`
	StoreID   string          `gorm:"size:32;index" json:"store_id"`
	SKU       string          `gorm:"column:sku;size:64;uniqueIndex:ux_inventory_sku" json:"sku"`
	Name      string          `gorm:"size:120;not null" json:"name"`
	Category  string          `gorm:"size:64" json:"category"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitCost  decimal.Decimal `gorm:"type:numeric(14,2)" json:"unit_cost"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Item) TableName() string { return "inventory_items" }
