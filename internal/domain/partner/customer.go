package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrCreditDisabled is returned when a credit operation is attempted on
// a customer whose credit limit is zero
var ErrCreditDisabled = shared.NewDomainError("CREDIT_DISABLED", "Customer has no credit line")

// CreditLimitExceededError is returned when a debt increase would push
// the customer past their credit limit. It carries the amounts so
// callers can tell the cashier how much credit remains.
type CreditLimitExceededError struct {
	Requested valueobject.Money
	Available valueobject.Money
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("credit limit exceeded: requested %s, available %s",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

// CreditTransactionType classifies a credit ledger entry
type CreditTransactionType string

const (
	CreditTransactionDebt       CreditTransactionType = "DEBT"
	CreditTransactionPayment    CreditTransactionType = "PAYMENT"
	CreditTransactionAdjustment CreditTransactionType = "ADJUSTMENT"
)

// CreditPaymentMethod classifies how a debt payment was received
type CreditPaymentMethod string

const (
	CreditPaymentCash     CreditPaymentMethod = "CASH"
	CreditPaymentCard     CreditPaymentMethod = "CARD"
	CreditPaymentTransfer CreditPaymentMethod = "TRANSFER"
)

// IsValid reports whether the payment method is one of the known values
func (m CreditPaymentMethod) IsValid() bool {
	switch m {
	case CreditPaymentCash, CreditPaymentCard, CreditPaymentTransfer:
		return true
	}
	return false
}

// CreditTransaction is an immutable entry in a customer's credit ledger.
// Amount carries the sign of the debt change (positive for new debt,
// negative for payments); DebtAfter is the debt once applied.
type CreditTransaction struct {
	shared.BaseEntity
	CustomerID  uuid.UUID             `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type        CreditTransactionType `gorm:"not null;size:20" json:"type"`
	Amount      decimal.Decimal       `gorm:"type:decimal(18,2);not null" json:"amount"`
	DebtAfter   decimal.Decimal       `gorm:"type:decimal(18,2);not null" json:"debt_after"`
	Method      CreditPaymentMethod   `gorm:"size:20" json:"method,omitempty"`
	ReferenceID *uuid.UUID            `gorm:"type:uuid" json:"reference_id,omitempty"`
	Notes       string                `gorm:"size:255" json:"notes"`
}

// TableName returns the table name for GORM
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// GetAmountSigned returns the debt delta as a signed amount
func (t *CreditTransaction) GetAmountSigned() valueobject.SignedAmount {
	return valueobject.NewSignedAmount(t.Amount, valueobject.PEN)
}

// Customer is the aggregate root for a store customer and their credit
// line. Debt only moves through AddDebt, RegisterPayment and
// ReduceDebt, all of which append to the ledger; a zero credit limit
// means the customer cannot buy on credit at all.
type Customer struct {
	shared.BaseAggregateRoot
	Name           string              `gorm:"not null;size:255" json:"name"`
	DocumentNumber string              `gorm:"size:20;uniqueIndex" json:"document_number"`
	Phone          string              `gorm:"size:20" json:"phone"`
	Email          string              `gorm:"size:255" json:"email"`
	Active         bool                `gorm:"not null;default:true" json:"active"`
	CreditLimit    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0" json:"credit_limit"`
	CurrentDebt    decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0" json:"current_debt"`
	Transactions   []CreditTransaction `gorm:"foreignKey:CustomerID" json:"transactions,omitempty"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer with no debt
func NewCustomer(name, documentNumber string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name is required")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		DocumentNumber:    strings.TrimSpace(documentNumber),
		Active:            true,
		CreditLimit:       decimal.Zero,
		CurrentDebt:       decimal.Zero,
	}, nil
}

// SetCreditLimit replaces the customer's credit limit. Lowering the
// limit below the current debt is allowed; available credit simply
// drops to zero until the debt is paid down.
func (c *Customer) SetCreditLimit(limit valueobject.Money) {
	c.CreditLimit = limit.Amount()
	c.UpdatedAt = time.Now()
}

// HasCreditEnabled reports whether the customer can buy on credit
func (c *Customer) HasCreditEnabled() bool {
	return c.CreditLimit.IsPositive()
}

// GetAvailableCredit returns limit minus debt, floored at zero
func (c *Customer) GetAvailableCredit() valueobject.Money {
	available := c.CreditLimit.Sub(c.CurrentDebt)
	if available.IsNegative() {
		return valueobject.ZeroPEN()
	}
	return valueobject.NewMoneyPEN(available)
}

// GetCurrentDebtMoney returns the current debt as Money
func (c *Customer) GetCurrentDebtMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(c.CurrentDebt)
}

// GetCreditLimitMoney returns the credit limit as Money
func (c *Customer) GetCreditLimitMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(c.CreditLimit)
}

// AddDebt increases the customer's debt for a credit sale. Fails with
// ErrCreditDisabled when the limit is zero and with
// CreditLimitExceededError when the new debt would exceed the limit.
func (c *Customer) AddDebt(amount valueobject.Money, saleID *uuid.UUID) error {
	if !c.Active {
		return shared.NewDomainError("CUSTOMER_INACTIVE", "Customer is inactive")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Debt amount must be positive")
	}
	if !c.HasCreditEnabled() {
		return ErrCreditDisabled
	}

	newDebt := c.CurrentDebt.Add(amount.Amount())
	if newDebt.GreaterThan(c.CreditLimit) {
		return &CreditLimitExceededError{
			Requested: amount,
			Available: c.GetAvailableCredit(),
		}
	}

	c.CurrentDebt = newDebt
	c.appendTransaction(CreditTransactionDebt, amount.Amount(), "", saleID, "Credit sale")
	return nil
}

// RegisterPayment reduces the customer's debt and records how the
// payment was received. Payments above the outstanding debt are
// rejected rather than turned into store credit.
func (c *Customer) RegisterPayment(amount valueobject.Money, method CreditPaymentMethod, registerID *uuid.UUID, notes string) error {
	if err := c.checkDebtReduction(amount); err != nil {
		return err
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}

	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = "Debt payment"
	}

	c.CurrentDebt = c.CurrentDebt.Sub(amount.Amount())
	c.appendTransaction(CreditTransactionPayment, amount.Amount().Neg(), method, registerID, notes)
	return nil
}

// ReduceDebt lowers the customer's debt without a payment, recording a
// manual adjustment. Used for write-offs and corrections.
func (c *Customer) ReduceDebt(amount valueobject.Money, notes string) error {
	if err := c.checkDebtReduction(amount); err != nil {
		return err
	}
	if strings.TrimSpace(notes) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Adjustment notes are required")
	}

	c.CurrentDebt = c.CurrentDebt.Sub(amount.Amount())
	c.appendTransaction(CreditTransactionAdjustment, amount.Amount().Neg(), "", nil, strings.TrimSpace(notes))
	return nil
}

func (c *Customer) checkDebtReduction(amount valueobject.Money) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(c.CurrentDebt) {
		return shared.NewDomainError("PAYMENT_EXCEEDS_DEBT", "Payment exceeds outstanding debt")
	}
	return nil
}

func (c *Customer) appendTransaction(txType CreditTransactionType, amount decimal.Decimal, method CreditPaymentMethod, referenceID *uuid.UUID, notes string) {
	c.Transactions = append(c.Transactions, CreditTransaction{
		BaseEntity:  shared.NewBaseEntity(),
		CustomerID:  c.ID,
		Type:        txType,
		Amount:      amount,
		DebtAfter:   c.CurrentDebt,
		Method:      method,
		ReferenceID: referenceID,
		Notes:       notes,
	})
	c.UpdatedAt = time.Now()
}

// HasDebt reports whether the customer owes anything
func (c *Customer) HasDebt() bool {
	return c.CurrentDebt.IsPositive()
}

// Activate marks the customer as active
func (c *Customer) Activate() {
	c.Active = true
	c.UpdatedAt = time.Now()
}

// Deactivate marks the customer as inactive. Deactivation does not
// forgive debt; payments are still accepted.
func (c *Customer) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}

// UpdateContact updates the customer's contact information
func (c *Customer) UpdateContact(phone, email string) {
	c.Phone = strings.TrimSpace(phone)
	c.Email = strings.TrimSpace(email)
	c.UpdatedAt = time.Now()
}
