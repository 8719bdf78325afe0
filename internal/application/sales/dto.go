package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ==================== Checkout DTOs ====================

// CheckoutItemInput is one basket line. UnitPrice overrides the catalog
// price when set; otherwise the product's current price is snapshotted.
type CheckoutItemInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	DiscountPct *decimal.Decimal `json:"discount_pct"`
}

// CheckoutPaymentInput is one payment tendered at checkout
type CheckoutPaymentInput struct {
	Method    string          `json:"method" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
}

// CheckoutRequest represents a full checkout: basket, payments and
// optional customer / credit flag
type CheckoutRequest struct {
	UserID     uuid.UUID              `json:"-"`
	CustomerID *uuid.UUID             `json:"customer_id"`
	IsCredit   bool                   `json:"is_credit"`
	Items      []CheckoutItemInput    `json:"items" binding:"required,min=1"`
	Payments   []CheckoutPaymentInput `json:"payments"`
	Discount   *decimal.Decimal       `json:"discount"`
}

// CancelSaleRequest carries the cancellation reason
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
}

// ==================== Responses ====================

// SaleItemResponse represents a sale line in responses
type SaleItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Total       decimal.Decimal `json:"total"`
}

// SalePaymentResponse represents a payment in responses
type SalePaymentResponse struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// SaleResponse represents a full sale view
type SaleResponse struct {
	ID             uuid.UUID             `json:"id"`
	Number         string                `json:"number"`
	RegisterID     uuid.UUID             `json:"register_id"`
	CustomerID     *uuid.UUID            `json:"customer_id,omitempty"`
	IsCredit       bool                  `json:"is_credit"`
	Status         string                `json:"status"`
	Items          []SaleItemResponse    `json:"items"`
	Payments       []SalePaymentResponse `json:"payments"`
	Subtotal       decimal.Decimal       `json:"subtotal"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	TaxAmount      decimal.Decimal       `json:"tax_amount"`
	Total          decimal.Decimal       `json:"total"`
	AmountPaid     decimal.Decimal       `json:"amount_paid"`
	ChangeAmount   decimal.Decimal       `json:"change_amount"`
	PaymentMethod  string                `json:"payment_method,omitempty"`
	CompletedAt    *time.Time            `json:"completed_at,omitempty"`
	CancelledAt    *time.Time            `json:"cancelled_at,omitempty"`
	CancelReason   string                `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

// SaleListItemResponse is the compact list view of a sale
type SaleListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Number        string          `json:"number"`
	Status        string          `json:"status"`
	IsCredit      bool            `json:"is_credit"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToSaleResponse converts a Sale aggregate to its response view
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			DiscountPct: item.DiscountPct,
			Total:       item.Total,
		}
	}

	payments := make([]SalePaymentResponse, len(sale.Payments))
	for i, p := range sale.Payments {
		payments[i] = SalePaymentResponse{
			Method:    string(p.Method),
			Amount:    p.Amount,
			Reference: p.Reference,
		}
	}

	return SaleResponse{
		ID:             sale.ID,
		Number:         sale.Number,
		RegisterID:     sale.RegisterID,
		CustomerID:     sale.CustomerID,
		IsCredit:       sale.IsCredit,
		Status:         sale.Status.String(),
		Items:          items,
		Payments:       payments,
		Subtotal:       sale.Subtotal,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		Total:          sale.Total,
		AmountPaid:     sale.AmountPaid,
		ChangeAmount:   sale.ChangeAmount,
		PaymentMethod:  string(sale.PaymentMethod),
		CompletedAt:    sale.CompletedAt,
		CancelledAt:    sale.CancelledAt,
		CancelReason:   sale.CancelReason,
		CreatedAt:      sale.CreatedAt,
	}
}

// ToSaleListItemResponse converts a Sale to its compact list view
func ToSaleListItemResponse(sale *sales.Sale) SaleListItemResponse {
	return SaleListItemResponse{
		ID:            sale.ID,
		Number:        sale.Number,
		Status:        sale.Status.String(),
		IsCredit:      sale.IsCredit,
		Total:         sale.Total,
		PaymentMethod: string(sale.PaymentMethod),
		CreatedAt:     sale.CreatedAt,
	}
}
