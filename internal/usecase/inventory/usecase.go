package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "crediya/internal/domain/inventory"
	"crediya/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNegativeQuantity = errors.New("quantity must not be negative")

type CreateInput struct {
	StoreID  string
	SKU      string
	Name     string
	Category string
	Quantity int
	UnitCost decimal.Decimal
}

type UpdateInput struct {
	StoreID  *string
	Name     *string
	Category *string
	Quantity *int
	UnitCost *decimal.Decimal
}

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.Item, error) {
	if in.Quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	it := &domain.Item{
		ItemID:   id.NewID32(),
		StoreID:  in.StoreID,
		SKU:      strings.ToUpper(strings.TrimSpace(in.SKU)),
		Name:     strings.TrimSpace(in.Name),
		Category: in.Category,
		Quantity: in.Quantity,
		UnitCost: in.UnitCost.Round(2),
	}
	if err := u.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (u *Usecase) Get(ctx context.Context, itemID string) (*domain.Item, error) {
	it, err := u.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return it, nil
}

func (u *Usecase) List(ctx context.Context, storeID string) ([]domain.Item, error) {
	items, err := u.repo.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

func (u *Usecase) Update(ctx context.Context, itemID string, in UpdateInput) (*domain.Item, error) {
	it, err := u.repo.GetByItemID(ctx, itemID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if in.StoreID != nil {
		it.StoreID = *in.StoreID
	}
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeQuantity, *in.Quantity)
		}
		it.Quantity = *in.Quantity
	}
	if in.UnitCost != nil {
		it.UnitCost = in.UnitCost.Round(2)
	}
	if err := u.repo.Save(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (u *Usecase) Delete(ctx context.Context, itemID string) error {
	return mapNotFound(u.repo.Delete(ctx, itemID))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
