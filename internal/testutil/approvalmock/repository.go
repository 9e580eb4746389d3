package approvalmock

import (
	"context"

	domain "crediya/internal/domain/approval"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo keeps created approvals in memory unless a Fn field overrides the call.
type Repo struct {
	CreateFn      func(ctx context.Context, a *domain.Approval) error
	GetByLoanIDFn func(ctx context.Context, loanID uint64) (*domain.Approval, error)

	Created []*domain.Approval
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		if err := m.CreateFn(ctx, a); err != nil {
			return err
		}
	}
	m.Created = append(m.Created, a)
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID uint64) (*domain.Approval, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	for _, a := range m.Created {
		if a.LoanID == loanID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
