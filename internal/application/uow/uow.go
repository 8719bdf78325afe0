// Package uow defines the unit-of-work boundary used by application
// services that must mutate several aggregates atomically, such as a
// checkout touching the sale, the register, the customer and stock.
package uow

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
)

// Repositories bundles the repositories participating in a unit of work.
// Inside Execute they are bound to the same transaction, so row locks
// taken through FindByIDForUpdate hold until the work commits.
type Repositories struct {
	Sales     sales.SaleRepository
	Registers register.CashRegisterRepository
	Customers partner.CustomerRepository
	Products  catalog.ProductRepository
}

// UnitOfWork runs a function against a transactional set of
// repositories. The transaction commits when fn returns nil and rolls
// back on any error, leaving every aggregate untouched.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error

	// Repos returns non-transactional repositories for single reads
	Repos() Repositories
}
