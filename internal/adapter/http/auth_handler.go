package http

import (
	"net/http"

	"crediya/internal/usecase/admin"
	"crediya/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userReq struct {
	Username string `json:"username"  validate:"required,min=3,max=64"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=120"`
	Role     string `json:"role"      validate:"omitempty,oneof=admin staff"`
	StoreID  string `json:"store_id"  validate:"omitempty,hex32"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Register is open while no users exist; after that only admins may call it.
func (h *AuthHandler) Register(c echo.Context) error {
	var req userReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Register(c.Request().Context(), admin.CreateUserInput(req), caller(c).Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
