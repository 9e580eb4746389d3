package usermock

import (
	"context"

	domain "crediya/internal/domain/user"
)

var (
	_ domain.Repository      = (*Repo)(nil)
	_ domain.StoreRepository = (*StoreRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn        func(ctx context.Context, u *domain.User) error
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	GetByUserIDFn   func(ctx context.Context, userID string) (*domain.User, error)
	ListFn          func(ctx context.Context) ([]domain.User, error)
	CountFn         func(ctx context.Context) (int64, error)
	SaveFn          func(ctx context.Context, u *domain.User) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *Repo) Count(ctx context.Context) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

func (m *Repo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

// StoreRepo is a function-backed mock that satisfies domain.StoreRepository.
type StoreRepo struct {
	CreateFn       func(ctx context.Context, s *domain.Store) error
	GetByStoreIDFn func(ctx context.Context, storeID string) (*domain.Store, error)
	GetByCodeFn    func(ctx context.Context, code string) (*domain.Store, error)
	ListFn         func(ctx context.Context) ([]domain.Store, error)
	SaveFn         func(ctx context.Context, s *domain.Store) error
}

func (m *StoreRepo) Create(ctx context.Context, s *domain.Store) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *StoreRepo) GetByStoreID(ctx context.Context, storeID string) (*domain.Store, error) {
	if m.GetByStoreIDFn != nil {
		return m.GetByStoreIDFn(ctx, storeID)
	}
	return nil, context.Canceled
}

func (m *StoreRepo) GetByCode(ctx context.Context, code string) (*domain.Store, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	return nil, context.Canceled
}

func (m *StoreRepo) List(ctx context.Context) ([]domain.Store, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *StoreRepo) Save(ctx context.Context, s *domain.Store) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
