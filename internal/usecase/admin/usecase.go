// Package admin manages staff accounts and stores.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "crediya/internal/domain/user"
	"crediya/pkg/id"
	"crediya/pkg/password"

	"gorm.io/gorm"
)

var ErrInvalidRole = errors.New("role must be admin or staff")

type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Role     string
	StoreID  string
}

type StoreInput struct {
	Code    string
	Name    string
	Address string
}

type UpdateStoreInput struct {
	Name    *string
	Address *string
	Active  *bool
}

type Usecase struct {
	users  domain.Repository
	stores domain.StoreRepository
}

func NewUsecase(users domain.Repository, stores domain.StoreRepository) *Usecase {
	return &Usecase{users: users, stores: stores}
}

func (u *Usecase) ListUsers(ctx context.Context) ([]domain.User, error) {
	out, err := u.users.List(ctx)
	if out == nil && err == nil {
		out = []domain.User{}
	}
	return out, err
}

// CreateUser hashes the password and stores an active user. A non-empty
// StoreID must reference an existing store.
func (u *Usecase) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	role := domain.Role(in.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if in.StoreID != "" {
		if _, err := u.stores.GetByStoreID(ctx, in.StoreID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrStoreNotFound
			}
			return nil, err
		}
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	usr := &domain.User{
		UserID:       id.NewID32(),
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
		StoreID:      in.StoreID,
		Active:       true,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) SetUserActive(ctx context.Context, userID string, active bool) (*domain.User, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	usr.Active = active
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) ListStores(ctx context.Context) ([]domain.Store, error) {
	out, err := u.stores.List(ctx)
	if out == nil && err == nil {
		out = []domain.Store{}
	}
	return out, err
}

func (u *Usecase) CreateStore(ctx context.Context, in StoreInput) (*domain.Store, error) {
	s := &domain.Store{
		StoreID: id.NewID32(),
		Code:    strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:    strings.TrimSpace(in.Name),
		Address: in.Address,
		Active:  true,
	}
	if err := u.stores.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (u *Usecase) UpdateStore(ctx context.Context, storeID string, in UpdateStoreInput) (*domain.Store, error) {
	s, err := u.stores.GetByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		s.Address = *in.Address
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	if err := u.stores.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
