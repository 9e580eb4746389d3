package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUserID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, u *User) error
}

type StoreRepository interface {
	Create(ctx context.Context, s *Store) error
	GetByStoreID(ctx context.Context, storeID string) (*Store, error)
	GetByCode(ctx context.Context, code string) (*Store, error)
	List(ctx context.Context) ([]Store, error)
	Save(ctx context.Context, s *Store) error
}
