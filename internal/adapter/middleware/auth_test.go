package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crediya/internal/domain/user"
	"crediya/internal/infrastructure/token"
	"crediya/internal/testutil/usermock"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func newAuthEcho(issuer *token.Issuer) *echo.Echo {
	e := echo.New()
	whoami := func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return c.JSON(http.StatusOK, map[string]string{"user_id": ""})
		}
		return c.JSON(http.StatusOK, map[string]string{"user_id": p.UserID, "role": p.Role})
	}
	e.POST("/register", whoami, OptionalAuth(issuer))
	api := e.Group("", RequireAuth(issuer))
	api.GET("/loans", whoami)
	adm := api.Group("/admin", RequireRole("admin"))
	adm.GET("/users", whoami)
	return e
}

func call(e *echo.Echo, method, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	e := newAuthEcho(issuer)
	staff, _, err := issuer.Issue("u-staff", "staff", "s1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other, _, _ := token.NewIssuer("other-secret", time.Hour).Issue("u-x", "admin", "")

	cases := []struct {
		name  string
		authz string
		want  int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + other, http.StatusUnauthorized},
		{"valid", "Bearer " + staff, http.StatusOK},
		{"scheme is case-insensitive", "bearer " + staff, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := call(e, http.MethodGet, "/loans", tc.authz)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	e := newAuthEcho(issuer)
	staff, _, _ := issuer.Issue("u-staff", "staff", "")
	admin, _, _ := issuer.Issue("u-admin", "admin", "")

	if rec := call(e, http.MethodGet, "/admin/users", "Bearer "+staff); rec.Code != http.StatusForbidden {
		t.Fatalf("staff => want 403, got %d", rec.Code)
	}
	if rec := call(e, http.MethodGet, "/admin/users", "Bearer "+admin); rec.Code != http.StatusOK {
		t.Fatalf("admin => want 200, got %d", rec.Code)
	}
	if rec := call(e, http.MethodGet, "/admin/users", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous => want 401, got %d", rec.Code)
	}
}

func TestOptionalAuth(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	e := newAuthEcho(issuer)
	admin, _, _ := issuer.Issue("u-admin", "admin", "")

	rec := call(e, http.MethodPost, "/register", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"user_id\":\"\"}\n" {
		t.Fatalf("anonymous => got %d %s", rec.Code, rec.Body.String())
	}
	rec = call(e, http.MethodPost, "/register", "Bearer "+admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin => got %d", rec.Code)
	}
	if rec = call(e, http.MethodPost, "/register", "Bearer garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token => want 401, got %d", rec.Code)
	}
}

func TestRequireActive(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	users := &usermock.Repo{
		GetByUserIDFn: func(_ context.Context, id string) (*user.User, error) {
			switch id {
			case "u-on":
				return &user.User{UserID: id, Active: true}, nil
			case "u-off":
				return &user.User{UserID: id, Active: false}, nil
			case "u-broken":
				return nil, errors.New("connection reset")
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/register", ok, OptionalAuth(issuer), RequireActive(users))
	e.GET("/loans", ok, RequireAuth(issuer), RequireActive(users))

	cases := []struct {
		user string
		want int
	}{
		{"u-on", http.StatusOK},
		{"u-off", http.StatusForbidden},
		{"u-gone", http.StatusUnauthorized},
		{"u-broken", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.user, func(t *testing.T) {
			tok, _, err := issuer.Issue(tc.user, "staff", "")
			if err != nil {
				t.Fatalf("issue: %v", err)
			}
			if rec := call(e, http.MethodGet, "/loans", "Bearer "+tok); rec.Code != tc.want {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	if rec := call(e, http.MethodPost, "/register", ""); rec.Code != http.StatusOK {
		t.Fatalf("anonymous => want 200, got %d", rec.Code)
	}
}
