package http

import (
	"net/http"

	"crediya/internal/usecase/inventory"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct{ uc *inventory.Usecase }

func NewInventoryHandler(uc *inventory.Usecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type createItemReq struct {
	StoreID  string          `json:"store_id"  validate:"omitempty,hex32"`
	SKU      string          `json:"sku"       validate:"required,max=64"`
	Name     string          `json:"name"      validate:"required,max=120"`
	Category string          `json:"category"  validate:"max=64"`
	Quantity int             `json:"quantity"  validate:"gte=0"`
	UnitCost decimal.Decimal `json:"unit_cost" validate:"gte=0,dec2"`
}

type updateItemReq struct {
	StoreID  *string          `json:"store_id"  validate:"omitempty,hex32"`
	Name     *string          `json:"name"      validate:"omitempty,min=1,max=120"`
	Category *string          `json:"category"  validate:"omitempty,max=64"`
	Quantity *int             `json:"quantity"  validate:"omitempty,gte=0"`
	UnitCost *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0,dec2"`
}

func (h *InventoryHandler) Create(c echo.Context) error {
	var req createItemReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Create(c.Request().Context(), inventory.CreateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *InventoryHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("store_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) Get(c echo.Context) error {
	itemID, ok, err := pathID(c, "item_id")
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) Update(c echo.Context) error {
	itemID, ok, err := pathID(c, "item_id")
	if !ok {
		return err
	}
	var req updateItemReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	out, err := h.uc.Update(c.Request().Context(), itemID, inventory.UpdateInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	itemID, ok, err := pathID(c, "item_id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), itemID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
