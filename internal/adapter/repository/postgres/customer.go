package postgres

import (
	"context"
	"strings"

	customerDomain "crediya/internal/domain/customer"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) *CustomerRepository { return &CustomerRepository{db: db} }

func (r *CustomerRepository) Create(ctx context.Context, c *customerDomain.Customer) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return customerDomain.ErrDuplicateCURP
		}
		return err
	}
	return nil
}

func (r *CustomerRepository) GetByCustomerID(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) GetByCustomerIDForUpdate(ctx context.Context, customerID string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) GetByCURP(ctx context.Context, curp string) (*customerDomain.Customer, error) {
	var out customerDomain.Customer
	res := r.db.WithContext(ctx).Where("curp = ?", strings.ToUpper(curp)).First(&out)
	return &out, res.Error
}

func (r *CustomerRepository) List(ctx context.Context, f customerDomain.ListFilter) ([]customerDomain.Customer, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(f.Query); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR curp LIKE ?",
				like, like, strings.ToUpper(q)+"%")
		}
		if f.StoreID != "" {
			db = db.Where("store_id = ?", f.StoreID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&customerDomain.Customer{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []customerDomain.Customer
	err := r.db.WithContext(ctx).
		Scopes(filter).
		Order("last_name ASC, first_name ASC, id ASC").
		Limit(pageSize(f.Limit)).
		Offset(f.Offset).
		Find(&out).Error
	return out, total, err
}

func (r *CustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		if isUniqueViolation(err) {
			return customerDomain.ErrDuplicateCURP
		}
		return err
	}
	return nil
}

// Delete soft-deletes the customer.
func (r *CustomerRepository) Delete(ctx context.Context, customerID string) error {
	res := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&customerDomain.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
