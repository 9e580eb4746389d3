package customer

import (
	"context"
	"errors"
	"strings"

	domain "crediya/internal/domain/customer"
	"crediya/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInput struct {
	FirstName     string
	LastName      string
	CURP          string
	Phone         string
	Email         string
	Address       string
	Occupation    string
	Employer      string
	MonthlyIncome decimal.Decimal
	StoreID       string
}

// UpdateInput holds optional changes; nil fields are left as they are.
type UpdateInput struct {
	FirstName     *string
	LastName      *string
	CURP          *string
	Phone         *string
	Email         *string
	Address       *string
	Occupation    *string
	Employer      *string
	MonthlyIncome *decimal.Decimal
	StoreID       *string
}

type ListInput struct {
	Query   string
	StoreID string
	Limit   int
	Offset  int
}

type ListDTO struct {
	Items  []domain.Customer `json:"items"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	c := &domain.Customer{
		CustomerID:    id.NewID32(),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		CURP:          strings.ToUpper(strings.TrimSpace(in.CURP)),
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		Occupation:    in.Occupation,
		Employer:      in.Employer,
		MonthlyIncome: in.MonthlyIncome.Round(2),
		StoreID:       in.StoreID,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) Get(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return c, nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*ListDTO, error) {
	items, total, err := u.repo.List(ctx, domain.ListFilter{Query: in.Query, StoreID: in.StoreID, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Customer{}
	}
	return &ListDTO{Items: items, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}

func (u *Usecase) Update(ctx context.Context, customerID string, in UpdateInput) (*domain.Customer, error) {
	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&c.FirstName, in.FirstName)
	set(&c.LastName, in.LastName)
	set(&c.Phone, in.Phone)
	set(&c.Email, in.Email)
	set(&c.Address, in.Address)
	set(&c.Occupation, in.Occupation)
	set(&c.Employer, in.Employer)
	set(&c.StoreID, in.StoreID)
	if in.CURP != nil {
		c.CURP = strings.ToUpper(strings.TrimSpace(*in.CURP))
	}
	if in.MonthlyIncome != nil {
		c.MonthlyIncome = in.MonthlyIncome.Round(2)
	}
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) Delete(ctx context.Context, customerID string) error {
	return mapNotFound(u.repo.Delete(ctx, customerID))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
