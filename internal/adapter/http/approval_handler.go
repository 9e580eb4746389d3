package http

import (
	"net/http"

	"crediya/internal/usecase/approval"

	"github.com/labstack/echo/v4"
)

type ApprovalHandler struct{ uc *approval.Usecase }

func NewApprovalHandler(uc *approval.Usecase) *ApprovalHandler { return &ApprovalHandler{uc: uc} }

type approveLoanReq struct {
	Notes string `json:"notes" validate:"max=500"`
	// YYYY-MM-DD; empty means today
	ApprovalDate string `json:"approval_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *ApprovalHandler) ApproveLoan(c echo.Context) error {
	loanID, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	var req approveLoanReq
	if ok, err := decode(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Approve(c.Request().Context(), approval.ApproveInput{
		LoanID:       loanID,
		ApprovedBy:   caller(c).UserID,
		Notes:        req.Notes,
		ApprovalDate: parseDate(req.ApprovalDate),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
