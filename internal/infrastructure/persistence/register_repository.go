package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRegisterRepository implements register.CashRegisterRepository using GORM
type GormRegisterRepository struct {
	db *gorm.DB
}

// NewGormRegisterRepository creates a new GormRegisterRepository
func NewGormRegisterRepository(db *gorm.DB) *GormRegisterRepository {
	return &GormRegisterRepository{db: db}
}

// FindByID finds a register session by ID with its movements
func (r *GormRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*register.CashRegister, error) {
	return r.findOne(r.db.WithContext(ctx), "id = ?", id)
}

// FindByIDForUpdate finds a register session holding a FOR UPDATE row
// lock, serializing concurrent balance mutations on the same drawer
func (r *GormRegisterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*register.CashRegister, error) {
	return r.findOne(
		r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}),
		"id = ?", id,
	)
}

// FindOpenByUser returns the user's currently open session
func (r *GormRegisterRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*register.CashRegister, error) {
	reg, err := r.findOne(r.db.WithContext(ctx), "user_id = ? AND status = ?", userID, register.RegisterStatusOpen)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrNoOpenRegister
	}
	return reg, err
}

func (r *GormRegisterRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*register.CashRegister, error) {
	var reg register.CashRegister
	if err := db.
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&reg, append([]interface{}{query}, args...)...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// FindAll returns register sessions matching the filter
func (r *GormRegisterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]register.CashRegister, error) {
	var items []register.CashRegister
	db := applyFilter(r.db.WithContext(ctx).Model(&register.CashRegister{}), filter)
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists the register and its movements
func (r *GormRegisterRepository) Save(ctx context.Context, reg *register.CashRegister) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(reg).Error
}

// Count returns the number of sessions matching the filter
func (r *GormRegisterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyCountFilter(r.db.WithContext(ctx).Model(&register.CashRegister{}), filter)
	if err := db.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
