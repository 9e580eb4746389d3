package http

import (
	"net/http"
	"time"

	"crediya/internal/usecase/admin"
	"crediya/internal/usecase/collection"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	uc    *admin.Usecase
	sweep *collection.Usecase
}

func NewAdminHandler(uc *admin.Usecase, sweep *collection.Usecase) *AdminHandler {
	return &AdminHandler{uc: uc, sweep: sweep}
}

type setActiveReq struct {
	Active *bool `json:"active" validate:"required"`
}

type storeReq struct {
	Code    string `json:"code"    validate:"required,alphanum,max=16"`
	Name    string `json:"name"    validate:"required,max=120"`
	Address string `json:"address" validate:"max=500"`
}

type updateStoreReq struct {
	Name    *string `json:"name"    validate:"omitempty,min=1,max=120"`
	Address *string `json:"address" validate:"omitempty,max=500"`
	Active  *bool   `json:"active"`
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req userReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	if req.Role == "" {
		req.Role = "staff"
	}
	out, err := h.uc.CreateUser(c.Request().Context(), admin.CreateUserInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) SetUserActive(c echo.Context) error {
	userID, ok, err := pathID(c, "user_id")
	if !ok {
		return err
	}
	var req setActiveReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.SetUserActive(c.Request().Context(), userID, *req.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) ListStores(c echo.Context) error {
	out, err := h.uc.ListStores(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) CreateStore(c echo.Context) error {
	var req storeReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.CreateStore(c.Request().Context(), admin.StoreInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminHandler) UpdateStore(c echo.Context) error {
	storeID, ok, err := pathID(c, "store_id")
	if !ok {
		return err
	}
	var req updateStoreReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.UpdateStore(c.Request().Context(), storeID, admin.UpdateStoreInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// SweepOverdue runs the overdue sweep now instead of waiting for the ticker.
func (h *AdminHandler) SweepOverdue(c echo.Context) error {
	res, err := h.sweep.SweepOverdue(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
