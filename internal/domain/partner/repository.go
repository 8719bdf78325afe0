package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate finds a customer by ID holding a row lock for
	// the duration of the surrounding transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByDocument finds a customer by document number
	FindByDocument(ctx context.Context, documentNumber string) (*Customer, error)

	// FindAll returns customers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// FindDebtors returns active customers with outstanding debt
	FindDebtors(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save persists the customer and new ledger entries
	Save(ctx context.Context, c *Customer) error

	// Count returns the number of customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
