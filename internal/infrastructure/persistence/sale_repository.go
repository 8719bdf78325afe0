package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by ID with items and payments
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForUpdate finds a sale by ID under a FOR UPDATE row lock
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByNumber finds a sale by its sale number
func (r *GormSaleRepository) FindByNumber(ctx context.Context, number string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payments").
		First(&sale, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll returns sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var items []sales.Sale
	db := applyFilter(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists the sale with its items and payments
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(sale).Error
}

// Count returns the number of sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyCountFilter(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saleNumberCounter backs the sequential sale numbering. The single
// row is bumped under its row lock, so concurrent checkouts serialize
// on it and committed numbers stay gapless.
type saleNumberCounter struct {
	ID    int   `gorm:"primaryKey"`
	Value int64 `gorm:"not null"`
}

// TableName returns the table name for sale number counters
func (saleNumberCounter) TableName() string {
	return "sale_number_counters"
}

// NextNumber draws the next sequential sale number from the counter
// row. The UPDATE locks the row until the surrounding transaction
// ends, so two checkouts can never draw the same number.
func (r *GormSaleRepository) NextNumber(ctx context.Context) (string, error) {
	var value int64
	res := r.db.WithContext(ctx).
		Raw("UPDATE sale_number_counters SET value = value + 1 WHERE id = 1 RETURNING value").
		Scan(&value)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		// The schema migration seeds the counter row; this covers
		// fresh in-memory databases
		if err := r.db.WithContext(ctx).Create(&saleNumberCounter{ID: 1, Value: 1}).Error; err != nil {
			return "", err
		}
		value = 1
	}
	return fmt.Sprintf("V-%08d", value), nil
}
