package http

import (
	"context"
	"net/http"

	"crediya/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type createLoanReq struct {
	CustomerID   string          `json:"customer_id"   validate:"required,hex32"`
	Amount       decimal.Decimal `json:"amount"        validate:"required,gt=0,dec2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	TermWeeks    int             `json:"term_weeks"    validate:"required,gte=1,lte=520"`
}

type previewReq struct {
	Amount       decimal.Decimal `json:"amount"        validate:"required,gt=0,dec2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	TermWeeks    int             `json:"term_weeks"    validate:"required,gte=1,lte=520"`
	StartDate    string          `json:"start_date"    validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		CustomerID:   req.CustomerID,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		TermWeeks:    req.TermWeeks,
		CreatedBy:    caller(c).UserID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	limit, offset := page(c)
	out, err := h.uc.List(c.Request().Context(), loan.ListInput{
		Status:     c.QueryParam("status"),
		CustomerID: c.QueryParam("customer_id"),
		StoreID:    c.QueryParam("store_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Preview is the contract preview; nothing is stored.
func (h *LoanHandler) Preview(c echo.Context) error {
	var req previewReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Preview(c.Request().Context(), loan.PreviewInput{
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		TermWeeks:    req.TermWeeks,
		StartDate:    parseDate(req.StartDate),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Details(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Details(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GenerateContract(c echo.Context) error {
	return h.transition(c, h.uc.GenerateContract)
}

func (h *LoanHandler) Deliver(c echo.Context) error {
	return h.transition(c, h.uc.Deliver)
}

func (h *LoanHandler) Activate(c echo.Context) error {
	return h.transition(c, h.uc.Activate)
}

type transitionFunc func(ctx context.Context, loanID string) (*loan.LoanDTO, error)

func (h *LoanHandler) transition(c echo.Context, fn transitionFunc) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := fn(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
