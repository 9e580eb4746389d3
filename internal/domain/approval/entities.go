package approval

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("approval not found")
	// ErrDuplicate is returned by Create when the loan already has an approval.
	ErrDuplicate = errors.New("loan already has an approval")
)

// Approval records who signed off a pending loan. approvals.loan_id is unique.
type Approval struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	ApprovalID   string         `gorm:"size:32;not null;uniqueIndex:ux_approvals_approval_id" json:"approval_id"`
	LoanID       uint64         `gorm:"not null;uniqueIndex:ux_approvals_loan" json:"-"`
	ApprovedBy   string         `gorm:"size:32;not null" json:"approved_by"`
	ApprovalDate time.Time      `gorm:"type:date;not null" json:"approval_date"`
	Notes        string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Approval) TableName() string { return "approvals" }
