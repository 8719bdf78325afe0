package sales

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales context
const (
	EventSaleCompleted = "sale.completed"
	EventSaleCancelled = "sale.cancelled"
)

// SaleCompletedEvent is emitted when a sale transitions to COMPLETED
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	Number     string          `json:"number"`
	RegisterID uuid.UUID       `json:"register_id"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
	IsCredit   bool            `json:"is_credit"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleCompleted, "Sale", sale.ID),
		Number:          sale.Number,
		RegisterID:      sale.RegisterID,
		CustomerID:      sale.CustomerID,
		IsCredit:        sale.IsCredit,
		Total:           sale.Total,
	}
}

// SaleCancelledEvent is emitted when a sale is cancelled.
// WasCompleted tells subscribers whether stock had already been deducted.
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	Number       string `json:"number"`
	WasCompleted bool   `json:"was_completed"`
	Reason       string `json:"reason"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale, wasCompleted bool) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleCancelled, "Sale", sale.ID),
		Number:          sale.Number,
		WasCompleted:    wasCompleted,
		Reason:          sale.CancelReason,
	}
}
