package http

import (
	"net/http"

	"crediya/internal/usecase/customer"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct{ uc *customer.Usecase }

func NewCustomerHandler(uc *customer.Usecase) *CustomerHandler { return &CustomerHandler{uc: uc} }

type createCustomerReq struct {
	FirstName     string          `json:"first_name"     validate:"required,max=100"`
	LastName      string          `json:"last_name"      validate:"required,max=100"`
	CURP          string          `json:"curp"           validate:"required,curp"`
	Phone         string          `json:"phone"          validate:"max=20"`
	Email         string          `json:"email"          validate:"omitempty,email,max=120"`
	Address       string          `json:"address"        validate:"max=500"`
	Occupation    string          `json:"occupation"     validate:"max=100"`
	Employer      string          `json:"employer"       validate:"max=120"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" validate:"gte=0,dec2"`
	StoreID       string          `json:"store_id"       validate:"omitempty,hex32"`
}

type updateCustomerReq struct {
	FirstName     *string          `json:"first_name"     validate:"omitempty,min=1,max=100"`
	LastName      *string          `json:"last_name"      validate:"omitempty,min=1,max=100"`
	CURP          *string          `json:"curp"           validate:"omitempty,curp"`
	Phone         *string          `json:"phone"          validate:"omitempty,max=20"`
	Email         *string          `json:"email"          validate:"omitempty,email,max=120"`
	Address       *string          `json:"address"        validate:"omitempty,max=500"`
	Occupation    *string          `json:"occupation"     validate:"omitempty,max=100"`
	Employer      *string          `json:"employer"       validate:"omitempty,max=120"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income" validate:"omitempty,gte=0,dec2"`
	StoreID       *string          `json:"store_id"       validate:"omitempty,hex32"`
}

func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), customer.CreateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CustomerHandler) List(c echo.Context) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.Request().Context(), customer.ListInput{
		Query:   c.QueryParam("q"),
		StoreID: c.QueryParam("store_id"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	customerID, ok, err := pathID(c, "customer_id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), customerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Update(c echo.Context) error {
	customerID, ok, err := pathID(c, "customer_id")
	if !ok {
		return err
	}
	var req updateCustomerReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), customerID, customer.UpdateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CustomerHandler) Delete(c echo.Context) error {
	customerID, ok, err := pathID(c, "customer_id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), customerID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
