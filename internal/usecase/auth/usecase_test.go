package auth

import (
	"context"
	"testing"
	"time"

	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/infrastructure/token"
	"crediya/internal/testutil/sqlitedb"
	"crediya/internal/usecase/admin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) (*Usecase, *token.Issuer) {
	t.Helper()
	db := sqlitedb.Open(t)
	users := postgres.NewUserRepository(db)
	adm := admin.NewUsecase(users, postgres.NewStoreRepository(db))
	iss := token.NewIssuer("test-secret", time.Hour)
	return NewUsecase(users, adm, iss, nil), iss
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()

	first, err := uc.Register(ctx, admin.CreateUserInput{Username: "boss", Password: "pw", Role: "staff"}, "")
	require.NoError(t, err)
	assert.Equal(t, "admin", first.Role)

	_, err = uc.Register(ctx, admin.CreateUserInput{Username: "intruder", Password: "pw"}, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.Register(ctx, admin.CreateUserInput{Username: "intruder", Password: "pw"}, "staff")
	assert.ErrorIs(t, err, ErrForbidden)

	second, err := uc.Register(ctx, admin.CreateUserInput{Username: "cajero", Password: "pw"}, "admin")
	require.NoError(t, err)
	assert.Equal(t, "staff", second.Role)
}

func TestLogin(t *testing.T) {
	uc, iss := newAuth(t)
	ctx := context.Background()

	u, err := uc.Register(ctx, admin.CreateUserInput{Username: "Boss", Password: "pw"}, "")
	require.NoError(t, err)

	out, err := uc.Login(ctx, "BOSS", "pw")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	claims, err := iss.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.UserID, claims.Subject)
	assert.Equal(t, "admin", claims.Role)

	_, err = uc.Login(ctx, "boss", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = uc.Login(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.admin.SetUserActive(ctx, u.UserID, false)
	require.NoError(t, err)
	_, err = uc.Login(ctx, "boss", "pw")
	assert.ErrorIs(t, err, ErrInactiveUser)
}
