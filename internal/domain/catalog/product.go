package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockMovementType represents the direction of a stock movement
type StockMovementType string

const (
	StockMovementIn     StockMovementType = "IN"     // Purchase receiving, manual adjustment up
	StockMovementOut    StockMovementType = "OUT"    // Sale deduction
	StockMovementReturn StockMovementType = "RETURN" // Stock restored by a cancelled sale
)

// IsValid returns true if the movement type is valid
func (t StockMovementType) IsValid() bool {
	switch t {
	case StockMovementIn, StockMovementOut, StockMovementReturn:
		return true
	}
	return false
}

// StockMovement is an immutable record of one stock change.
// Movements are never modified or deleted - corrections create new movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type       StockMovementType `gorm:"type:varchar(20);not null"`
	Quantity   decimal.Decimal   `gorm:"type:decimal(18,3);not null"` // Always positive, direction given by Type
	StockAfter decimal.Decimal   `gorm:"type:decimal(18,3);not null"`
	Reason     string            `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Product is the aggregate root for catalog products. For the ledger core it
// is authoritative for price-at-sale-time and for the stock level; stock only
// changes through AddStock/RemoveStock/ReturnStock, each of which appends a
// movement record.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Stock         decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	AllowFraction bool            `gorm:"not null;default:false"` // Sold by weight/volume
	Active        bool            `gorm:"not null;default:true"`

	Movements []StockMovement `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name string, price valueobject.Money, allowFraction bool) (*Product, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		Price:             price.Amount(),
		Stock:             decimal.Zero,
		AllowFraction:     allowFraction,
		Active:            true,
		Movements:         make([]StockMovement, 0),
	}, nil
}

// GetPriceMoney returns the current unit price as Money
func (p *Product) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(p.Price)
}

// GetStockQuantity returns the current stock level as Quantity
func (p *Product) GetStockQuantity() valueobject.Quantity {
	return valueobject.MustNewQuantity(p.Stock)
}

// UpdatePrice updates the unit price
func (p *Product) UpdatePrice(price valueobject.Money) {
	p.Price = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddStock increases the stock level and appends an IN movement
func (p *Product) AddStock(quantity valueobject.Quantity, reason string) error {
	return p.increaseStock(quantity, StockMovementIn, reason)
}

// ReturnStock restores stock from a cancelled sale and appends a RETURN movement
func (p *Product) ReturnStock(quantity valueobject.Quantity, reason string) error {
	return p.increaseStock(quantity, StockMovementReturn, reason)
}

func (p *Product) increaseStock(quantity valueobject.Quantity, movementType StockMovementType, reason string) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Stock movement reason is required")
	}

	p.Stock = p.Stock.Add(quantity.Amount())
	p.appendMovement(movementType, quantity, reason)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// RemoveStock decreases the stock level and appends an OUT movement.
// Returns ErrInsufficientStock when the stock cannot cover the quantity;
// stock never goes negative.
func (p *Product) RemoveStock(quantity valueobject.Quantity, reason string) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Stock movement reason is required")
	}
	if p.Stock.LessThan(quantity.Amount()) {
		return shared.ErrInsufficientStock
	}

	p.Stock = p.Stock.Sub(quantity.Amount())
	p.appendMovement(StockMovementOut, quantity, reason)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

func (p *Product) appendMovement(movementType StockMovementType, quantity valueobject.Quantity, reason string) {
	p.Movements = append(p.Movements, StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		Type:       movementType,
		Quantity:   quantity.Amount(),
		StockAfter: p.Stock,
		Reason:     reason,
	})
}

// CanFulfill returns true if current stock can cover the requested quantity
func (p *Product) CanFulfill(quantity valueobject.Quantity) bool {
	return p.Stock.GreaterThanOrEqual(quantity.Amount())
}

// Deactivate removes the product from sale
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate returns the product to sale
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
