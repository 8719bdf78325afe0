package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID with their credit ledger
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate finds a customer holding a FOR UPDATE row lock, so
// concurrent debt mutations cannot lose an update
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return r.findOne(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		"id = ?", id,
	)
}

// FindByDocument finds a customer by document number
func (r *GormCustomerRepository) FindByDocument(ctx context.Context, documentNumber string) (*partner.Customer, error) {
	return r.findOne(r.db.WithContext(ctx), "document_number = ?", documentNumber)
}

func (r *GormCustomerRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*partner.Customer, error) {
	var customer partner.Customer
	if err := db.
		Preload("Transactions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&customer, append([]interface{}{query}, args...)...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll returns customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var items []partner.Customer
	db := r.db.WithContext(ctx).Model(&partner.Customer{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name ILIKE ? OR document_number LIKE ?", pattern, pattern)
	}
	if err := applyFilter(db, filter).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindDebtors returns active customers with outstanding debt
func (r *GormCustomerRepository) FindDebtors(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var items []partner.Customer
	db := r.db.WithContext(ctx).Model(&partner.Customer{}).
		Where("active = ? AND current_debt > 0", true)
	if err := applyFilter(db, filter).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists the customer and any new ledger entries
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(customer).Error
}

// Count returns the number of customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyCountFilter(r.db.WithContext(ctx).Model(&partner.Customer{}), filter)
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
