package postgres

import (
	"context"

	userDomain "crediya/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return userDomain.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("username = ?", username).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	return &out, res.Error
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	err := r.db.WithContext(ctx).Order("username ASC").Find(&out).Error
	return out, err
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDomain.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) Save(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

type StoreRepository struct{ db *gorm.DB }

func NewStoreRepository(db *gorm.DB) *StoreRepository { return &StoreRepository{db: db} }

func (r *StoreRepository) Create(ctx context.Context, s *userDomain.Store) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return userDomain.ErrDuplicateStore
		}
		return err
	}
	return nil
}

func (r *StoreRepository) GetByStoreID(ctx context.Context, storeID string) (*userDomain.Store, error) {
	var out userDomain.Store
	res := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&out)
	return &out, res.Error
}

func (r *StoreRepository) GetByCode(ctx context.Context, code string) (*userDomain.Store, error) {
	var out userDomain.Store
	res := r.db.WithContext(ctx).Where("code = ?", code).First(&out)
	return &out, res.Error
}

func (r *StoreRepository) List(ctx context.Context) ([]userDomain.Store, error) {
	var out []userDomain.Store
	err := r.db.WithContext(ctx).Order("code ASC").Find(&out).Error
	return out, err
}

func (r *StoreRepository) Save(ctx context.Context, s *userDomain.Store) error {
	if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
		if isUniqueViolation(err) {
			return userDomain.ErrDuplicateStore
		}
		return err
	}
	return nil
}
