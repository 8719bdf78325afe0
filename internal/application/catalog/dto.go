package catalog

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a new product
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required,min=1,max=50"`
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Price         decimal.Decimal `json:"price" binding:"required,dgt0"`
	AllowFraction bool            `json:"allow_fraction"`
}

// UpdatePriceRequest changes a product's price
type UpdatePriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// StockAdjustmentRequest adds or removes stock with a reason
type StockAdjustmentRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required,dgt0"`
	Reason   string          `json:"reason" binding:"required,min=1,max=255"`
}

// StockMovementResponse represents one stock ledger entry
type StockMovementResponse struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	StockAfter decimal.Decimal `json:"stock_after"`
	Reason     string          `json:"reason,omitempty"`
}

// ProductResponse represents a product
type ProductResponse struct {
	ID            uuid.UUID               `json:"id"`
	SKU           string                  `json:"sku"`
	Name          string                  `json:"name"`
	Price         decimal.Decimal         `json:"price"`
	Stock         decimal.Decimal         `json:"stock"`
	AllowFraction bool                    `json:"allow_fraction"`
	Active        bool                    `json:"active"`
	Movements     []StockMovementResponse `json:"movements,omitempty"`
}

// ToProductResponse converts a Product aggregate to its response view
func ToProductResponse(p *catalog.Product) ProductResponse {
	movements := make([]StockMovementResponse, len(p.Movements))
	for i, m := range p.Movements {
		movements[i] = StockMovementResponse{
			ID:         m.ID,
			Type:       string(m.Type),
			Quantity:   m.Quantity,
			StockAfter: m.StockAfter,
			Reason:     m.Reason,
		}
	}

	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         p.Price,
		Stock:         p.Stock,
		AllowFraction: p.AllowFraction,
		Active:        p.Active,
		Movements:     movements,
	}
}
