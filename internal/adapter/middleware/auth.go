package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"crediya/internal/domain/user"
	"crediya/internal/infrastructure/token"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const principalKey = "crediya.principal"

// Principal is the authenticated caller, taken from the access token.
type Principal struct {
	UserID  string
	Role    string
	StoreID string
}

type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

type UserLookup interface {
	GetByUserID(ctx context.Context, userID string) (*user.User, error)
}

// PrincipalFrom returns the caller stored by RequireAuth or OptionalAuth.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(p TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request())
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := p.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": token.ErrInvalidToken.Error()})
			}
			c.Set(principalKey, principalOf(claims))
			return next(c)
		}
	}
}

// OptionalAuth identifies the caller when a token is sent but lets anonymous
// requests through. A token that is present but invalid is still rejected.
func OptionalAuth(p TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c.Request())
			if !ok {
				return next(c)
			}
			claims, err := p.Parse(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": token.ErrInvalidToken.Error()})
			}
			c.Set(principalKey, principalOf(claims))
			return next(c)
		}
	}
}

// RequireActive rejects callers whose account was disabled or removed after
// the token was issued. Anonymous requests pass through. It must run after
// RequireAuth or OptionalAuth.
func RequireActive(users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return next(c)
			}
			u, err := users.GetByUserID(c.Request().Context(), p.UserID)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": token.ErrInvalidToken.Error()})
			case err != nil:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			case !u.Active:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "user is disabled"})
			}
			return next(c)
		}
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
		}
	}
}

func bearer(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	scheme, raw, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

func principalOf(c *token.Claims) Principal {
	return Principal{UserID: c.Subject, Role: c.Role, StoreID: c.StoreID}
}
