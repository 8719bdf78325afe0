package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest registers a new customer
type CreateCustomerRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=255"`
	DocumentNumber string           `json:"document_number" binding:"max=20"`
	Phone          string           `json:"phone" binding:"max=20"`
	Email          string           `json:"email" binding:"omitempty,email"`
	CreditLimit    *decimal.Decimal `json:"credit_limit"`
}

// UpdateCreditLimitRequest replaces a customer's credit limit
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// CollectPaymentRequest records a debt payment taken at a register
type CollectPaymentRequest struct {
	RegisterID uuid.UUID       `json:"register_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Method     string          `json:"method" binding:"required,oneof=CASH CARD TRANSFER"`
	Notes      string          `json:"notes" binding:"max=255"`
}

// AdjustDebtRequest lowers a customer's debt without a payment
type AdjustDebtRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Notes  string          `json:"notes" binding:"required,min=1,max=255"`
}

// CreditTransactionResponse represents one credit ledger entry
type CreditTransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	DebtAfter   decimal.Decimal `json:"debt_after"`
	Method      string          `json:"method,omitempty"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerResponse represents a customer and their credit position
type CustomerResponse struct {
	ID              uuid.UUID                   `json:"id"`
	Name            string                      `json:"name"`
	DocumentNumber  string                      `json:"document_number,omitempty"`
	Phone           string                      `json:"phone,omitempty"`
	Email           string                      `json:"email,omitempty"`
	Active          bool                        `json:"active"`
	CreditLimit     decimal.Decimal             `json:"credit_limit"`
	CurrentDebt     decimal.Decimal             `json:"current_debt"`
	AvailableCredit decimal.Decimal             `json:"available_credit"`
	Transactions    []CreditTransactionResponse `json:"transactions,omitempty"`
}

// ToCustomerResponse converts a Customer aggregate to its response view
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	transactions := make([]CreditTransactionResponse, len(c.Transactions))
	for i, tx := range c.Transactions {
		transactions[i] = CreditTransactionResponse{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Amount:      tx.Amount,
			DebtAfter:   tx.DebtAfter,
			Method:      string(tx.Method),
			ReferenceID: tx.ReferenceID,
			Notes:       tx.Notes,
			CreatedAt:   tx.CreatedAt,
		}
	}

	return CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		DocumentNumber:  c.DocumentNumber,
		Phone:           c.Phone,
		Email:           c.Email,
		Active:          c.Active,
		CreditLimit:     c.CreditLimit,
		CurrentDebt:     c.CurrentDebt,
		AvailableCredit: c.GetAvailableCredit().Amount(),
		Transactions:    transactions,
	}
}
