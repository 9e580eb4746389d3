package customer

import "context"

type ListFilter struct {
	// Query matches first/last name or CURP (case-insensitive prefix on CURP).
	Query   string
	StoreID string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByCustomerID(ctx context.Context, customerID string) (*Customer, error)
	// GetByCustomerIDForUpdate must run inside a transaction.
	GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*Customer, error)
	GetByCURP(ctx context.Context, curp string) (*Customer, error)
	List(ctx context.Context, f ListFilter) ([]Customer, int64, error)
	Save(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID string) error
}
