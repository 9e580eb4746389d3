package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "crediya/internal/domain/user"
	"crediya/internal/usecase/admin"
	"crediya/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactiveUser       = errors.New("user is disabled")
	ErrForbidden          = errors.New("only an admin can register users")
)

type TokenIssuer interface {
	Issue(userID, role, storeID string) (string, time.Time, error)
}

type LoginDTO struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

type UserDTO struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	StoreID  string `json:"store_id,omitempty"`
}

type Usecase struct {
	users  domain.Repository
	admin  *admin.Usecase
	tokens TokenIssuer
	log    *zap.Logger
}

func NewUsecase(users domain.Repository, adm *admin.Usecase, tokens TokenIssuer, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, admin: adm, tokens: tokens, log: log}
}

// Register creates a user. The very first user is always an admin and needs
// no caller; afterwards actorRole must be admin.
func (u *Usecase) Register(ctx context.Context, in admin.CreateUserInput, actorRole string) (*UserDTO, error) {
	n, err := u.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		in.Role = string(domain.RoleAdmin)
	} else if actorRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}
	if in.Role == "" {
		in.Role = string(domain.RoleStaff)
	}
	usr, err := u.admin.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.String("user_id", usr.UserID), zap.String("role", string(usr.Role)), zap.Bool("bootstrap", n == 0))
	dto := toUserDTO(usr)
	return &dto, nil
}

func (u *Usecase) Login(ctx context.Context, username, plain string) (*LoginDTO, error) {
	usr, err := u.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := password.Check(usr.PasswordHash, plain); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !usr.Active {
		return nil, ErrInactiveUser
	}
	tok, exp, err := u.tokens.Issue(usr.UserID, string(usr.Role), usr.StoreID)
	if err != nil {
		return nil, err
	}
	return &LoginDTO{AccessToken: tok, TokenType: "Bearer", ExpiresAt: exp, User: toUserDTO(usr)}, nil
}

func toUserDTO(usr *domain.User) UserDTO {
	return UserDTO{
		UserID:   usr.UserID,
		Username: usr.Username,
		FullName: usr.FullName,
		Role:     string(usr.Role),
		StoreID:  usr.StoreID,
	}
}
