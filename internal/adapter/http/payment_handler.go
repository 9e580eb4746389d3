package http

import (
	"net/http"

	"crediya/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type makePaymentReq struct {
	LoanID      string          `json:"loan_id"      validate:"required,hex32"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0,dec2"`
	Method      string          `json:"method"       validate:"required,oneof=cash transfer card"`
	PaymentDate string          `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *PaymentHandler) MakePayment(c echo.Context) error {
	var req makePaymentReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.MakePayment(c.Request().Context(), payment.MakePaymentInput{
		LoanID:      req.LoanID,
		Amount:      req.Amount,
		Method:      req.Method,
		PaymentDate: parseDate(req.PaymentDate),
		ReceivedBy:  caller(c).UserID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *PaymentHandler) Statement(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Statement(c.Request().Context(), loanID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
