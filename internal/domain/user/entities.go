package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrStoreNotFound     = errors.New("store not found")
	ErrDuplicateStore    = errors.New("store code already taken")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStaff }

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	UserID       string    `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Username     string    `gorm:"size:64;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	FullName     string    `gorm:"size:120" json:"full_name"`
	Role         Role      `gorm:"size:16;not null" json:"role"`
	StoreID      string    `gorm:"size:32;index" json:"store_id"`
	Active       bool      `gorm:"not null" json:"active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type Store struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	StoreID   string    `gorm:"size:32;uniqueIndex:ux_stores_store_id" json:"store_id"`
	Code      string    `gorm:"size:16;uniqueIndex:ux_stores_code" json:"code"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Store) TableName() string { return "stores" }
