package inventory

import "context"

type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByItemID(ctx context.Context, itemID string) (*Item, error)
	GetBySKU(ctx context.Context, sku string) (*Item, error)
	List(ctx context.Context, storeID string) ([]Item, error)
	Save(ctx context.Context, it *Item) error
	Delete(ctx context.Context, itemID string) error
}
