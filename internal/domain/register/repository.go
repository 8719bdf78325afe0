package register

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// CashRegisterRepository defines persistence operations for register sessions
type CashRegisterRepository interface {
	// FindByID finds a register by ID, movements included
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindByIDForUpdate finds a register by ID holding a row lock for
	// the duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindOpenByUser returns the user's currently open session, or
	// shared.ErrNoOpenRegister when none is open
	FindOpenByUser(ctx context.Context, userID uuid.UUID) (*CashRegister, error)

	// FindAll returns register sessions matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]CashRegister, error)

	// Save persists the register and its movements
	Save(ctx context.Context, r *CashRegister) error

	// Count returns the number of sessions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
