package customermock

import (
	"context"

	domain "crediya/internal/domain/customer"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn          func(ctx context.Context, c *domain.Customer) error
	GetByCustomerIDFn func(ctx context.Context, customerID string) (*domain.Customer, error)
	GetForUpdateFn    func(ctx context.Context, customerID string) (*domain.Customer, error)
	GetByCURPFn       func(ctx context.Context, curp string) (*domain.Customer, error)
	ListFn            func(ctx context.Context, f domain.ListFilter) ([]domain.Customer, int64, error)
	SaveFn            func(ctx context.Context, c *domain.Customer) error
	DeleteFn          func(ctx context.Context, customerID string) error
}

func (m *Repo) Create(ctx context.Context, c *domain.Customer) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByCustomerID(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetByCustomerIDFn != nil {
		return m.GetByCustomerIDFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*domain.Customer, error) {
	if m.GetForUpdateFn != nil {
		return m.GetForUpdateFn(ctx, customerID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByCURP(ctx context.Context, curp string) (*domain.Customer, error) {
	if m.GetByCURPFn != nil {
		return m.GetByCURPFn(ctx, curp)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Customer, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Customer) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, customerID string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, customerID)
	}
	return nil
}
