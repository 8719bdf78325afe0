package persistence

import (
	"context"

	"github.com/pos/backend/internal/application/uow"
	"gorm.io/gorm"
)

// GormUnitOfWork implements uow.UnitOfWork on top of a GORM transaction.
// All repositories handed to the work function share one transaction, so
// FOR UPDATE row locks taken through them hold until commit or rollback.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Execute runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back on any error.
func (u *GormUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, newRepositories(tx))
	})
}

// Repos returns repositories bound to the base connection, outside any
// transaction. Use for single reads only.
func (u *GormUnitOfWork) Repos() uow.Repositories {
	return newRepositories(u.db)
}

func newRepositories(db *gorm.DB) uow.Repositories {
	return uow.Repositories{
		Sales:     NewGormSaleRepository(db),
		Registers: NewGormRegisterRepository(db),
		Customers: NewGormCustomerRepository(db),
		Products:  NewGormProductRepository(db),
	}
}
