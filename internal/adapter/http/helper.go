package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"crediya/internal/adapter/middleware"
	"crediya/internal/domain/approval"
	"crediya/internal/domain/customer"
	"crediya/internal/domain/inventory"
	"crediya/internal/domain/loan"
	"crediya/internal/domain/payment"
	"crediya/internal/domain/user"
	ucAdmin "crediya/internal/usecase/admin"
	ucAuth "crediya/internal/usecase/auth"
	ucInventory "crediya/internal/usecase/inventory"
	ucLoan "crediya/internal/usecase/loan"
	"crediya/pkg/amortization"
	"crediya/pkg/id"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 20
	maxLimit     = 100
)

var statusByErr = []struct {
	err    error
	status int
}{
	{loan.ErrNotFound, http.StatusNotFound},
	{customer.ErrNotFound, http.StatusNotFound},
	{user.ErrNotFound, http.StatusNotFound},
	{user.ErrStoreNotFound, http.StatusNotFound},
	{inventory.ErrNotFound, http.StatusNotFound},
	{approval.ErrNotFound, http.StatusNotFound},

	{loan.ErrAlreadyApproved, http.StatusConflict},
	{loan.ErrInvalidTransition, http.StatusConflict},
	{loan.ErrPendingLoanExists, http.StatusConflict},
	{loan.ErrNotPayable, http.StatusConflict},
	{customer.ErrDuplicateCURP, http.StatusConflict},
	{user.ErrDuplicateUsername, http.StatusConflict},
	{user.ErrDuplicateStore, http.StatusConflict},
	{inventory.ErrDuplicateSKU, http.StatusConflict},

	{amortization.ErrInvalidTerms, http.StatusUnprocessableEntity},
	{loan.ErrOverpayment, http.StatusUnprocessableEntity},
	{payment.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{payment.ErrInvalidMethod, http.StatusUnprocessableEntity},
	{ucAdmin.ErrInvalidRole, http.StatusUnprocessableEntity},
	{ucInventory.ErrNegativeQuantity, http.StatusUnprocessableEntity},
	{ucLoan.ErrInvalidFilter, http.StatusBadRequest},

	{ucAuth.ErrInvalidCredentials, http.StatusUnauthorized},
	{ucAuth.ErrInactiveUser, http.StatusForbidden},
	{ucAuth.ErrForbidden, http.StatusForbidden},
}

// respondError maps domain errors to status codes. Unknown errors are logged
// and hidden behind a generic 500.
func respondError(c echo.Context, err error) error {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, ErrorResponse{Error: err.Error()})
		}
	}
	zap.L().Error("unhandled error",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// decode binds and validates req. When it reports false the error response
// has already been written and the returned error must be passed up.
func decode(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

// pathID reads a 32-hex path parameter.
func pathID(c echo.Context, name string) (string, bool, error) {
	v := c.Param(name)
	if v == "" {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + name + " path param"})
	}
	if !id.IsID32(v) {
		return "", false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " path param"})
	}
	return v, true, nil
}

// page reads limit/offset query params, clamping limit to [1, maxLimit].
func page(c echo.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err = strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// parseDate parses an optional YYYY-MM-DD value validated upstream.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func caller(c echo.Context) middleware.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
