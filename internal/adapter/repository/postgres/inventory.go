package postgres

import (
	"context"

	inventoryDomain "crediya/internal/domain/inventory"

	"gorm.io/gorm"
)

type InventoryRepository struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) *InventoryRepository { return &InventoryRepository{db: db} }

func (r *InventoryRepository) Create(ctx context.Context, it *inventoryDomain.Item) error {
	if err := r.db.WithContext(ctx).Create(it).Error; err != nil {
		if isUniqueViolation(err) {
			return inventoryDomain.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *InventoryRepository) GetByItemID(ctx context.Context, itemID string) (*inventoryDomain.Item, error) {
	var out inventoryDomain.Item
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).First(&out)
	return &out, res.Error
}

func (r *InventoryRepository) GetBySKU(ctx context.Context, sku string) (*inventoryDomain.Item, error) {
	var out inventoryDomain.Item
	res := r.db.WithContext(ctx).Where("sku = ?", sku).First(&out)
	return &out, res.Error
}

func (r *InventoryRepository) List(ctx context.Context, storeID string) ([]inventoryDomain.Item, error) {
	q := r.db.WithContext(ctx)
	if storeID != "" {
		q = q.Where("store_id = ?", storeID)
	}
	var out []inventoryDomain.Item
	err := q.Order("name ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *InventoryRepository) Save(ctx context.Context, it *inventoryDomain.Item) error {
	if err := r.db.WithContext(ctx).Save(it).Error; err != nil {
		if isUniqueViolation(err) {
			return inventoryDomain.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

func (r *InventoryRepository) Delete(ctx context.Context, itemID string) error {
	res := r.db.WithContext(ctx).Where("item_id = ?", itemID).Delete(&inventoryDomain.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
