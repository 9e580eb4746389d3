package approval

import (
	"time"
)

type ApproveInput struct {
	LoanID     string
	ApprovedBy string // user_id of the approving staff member
	Notes      string
	// ApprovalDate is truncated to the day; zero means today.
	ApprovalDate time.Time
}

type ApprovalDTO struct {
	ApprovalID   string    `json:"approval_id"`
	LoanID       string    `json:"loan_id"`
	ApprovedBy   string    `json:"approved_by"`
	Notes        string    `json:"notes,omitempty"`
	ApprovalDate time.Time `json:"approval_date"`
	Status       string    `json:"status"`
}
