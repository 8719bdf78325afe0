package register

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RegisterStatus represents the lifecycle state of a cash register session
type RegisterStatus string

const (
	RegisterStatusOpen   RegisterStatus = "OPEN"
	RegisterStatusClosed RegisterStatus = "CLOSED"
)

// IsValid checks whether the status is valid
func (s RegisterStatus) IsValid() bool {
	return s == RegisterStatusOpen || s == RegisterStatusClosed
}

// String returns the string representation
func (s RegisterStatus) String() string {
	return string(s)
}

// MovementType classifies a cash movement inside a register session
type MovementType string

const (
	MovementTypeInitialCash   MovementType = "INITIAL_CASH"
	MovementTypeSale          MovementType = "SALE"
	MovementTypeDeposit       MovementType = "DEPOSIT"
	MovementTypeWithdrawal    MovementType = "WITHDRAWAL"
	MovementTypeExpense       MovementType = "EXPENSE"
	MovementTypeCreditPayment MovementType = "CREDIT_PAYMENT"
)

// IsValid checks whether the movement type is valid
func (m MovementType) IsValid() bool {
	switch m {
	case MovementTypeInitialCash, MovementTypeSale, MovementTypeDeposit,
		MovementTypeWithdrawal, MovementTypeExpense, MovementTypeCreditPayment:
		return true
	}
	return false
}

// IsInflow reports whether the type increases the cash balance
func (m MovementType) IsInflow() bool {
	switch m {
	case MovementTypeInitialCash, MovementTypeSale, MovementTypeDeposit, MovementTypeCreditPayment:
		return true
	}
	return false
}

// CashMovement is an immutable record of cash entering or leaving the
// register. Amount carries the sign of the movement; BalanceAfter is the
// running balance once the movement was applied. Records are never
// updated or deleted after creation.
type CashMovement struct {
	shared.BaseEntity
	RegisterID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"register_id"`
	Type         MovementType    `gorm:"not null;size:20" json:"type"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	Reason       string          `gorm:"size:255" json:"reason"`
	ReferenceID  *uuid.UUID      `gorm:"type:uuid" json:"reference_id,omitempty"`
}

// TableName returns the table name for GORM
func (CashMovement) TableName() string {
	return "cash_movements"
}

// GetAmountSigned returns the movement delta as a signed amount
func (m *CashMovement) GetAmountSigned() valueobject.SignedAmount {
	return valueobject.NewSignedAmount(m.Amount, valueobject.PEN)
}

// GetAmountMoney returns the absolute value of the movement
func (m *CashMovement) GetAmountMoney() valueobject.Money {
	return valueobject.NewSignedAmount(m.Amount, valueobject.PEN).Abs()
}

// CashRegister is the aggregate root for a cash drawer session. It is
// opened with an initial float, accumulates an append-only movement
// history, and is closed exactly once against a physical count.
type CashRegister struct {
	shared.BaseAggregateRoot
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Status         RegisterStatus  `gorm:"not null;size:20;index" json:"status"`
	OpeningAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"opening_amount"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"current_balance"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"expected_amount"`
	CountedAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"counted_amount"`
	Difference     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"difference"`
	OpenedAt       time.Time       `gorm:"not null" json:"opened_at"`
	ClosedAt       *time.Time      `json:"closed_at,omitempty"`
	ClosingNotes   string          `gorm:"size:500" json:"closing_notes"`
	Movements      []CashMovement  `gorm:"foreignKey:RegisterID" json:"movements,omitempty"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// OpenRegister opens a new register session for a user with an initial
// cash float. The opening amount is recorded as the first movement.
func OpenRegister(userID uuid.UUID, openingAmount valueobject.Money) (*CashRegister, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}

	r := &CashRegister{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Status:            RegisterStatusOpen,
		OpeningAmount:     openingAmount.Amount(),
		CurrentBalance:    decimal.Zero,
		OpenedAt:          time.Now(),
	}
	r.applyMovement(MovementTypeInitialCash, valueobject.SignedFromMoney(openingAmount), "Opening float", nil)
	r.AddDomainEvent(NewRegisterOpenedEvent(r))
	return r, nil
}

func (r *CashRegister) requireOpen(action string) error {
	if r.Status != RegisterStatusOpen {
		return shared.NewDomainError("REGISTER_CLOSED", "Cannot "+action+" on a closed register")
	}
	return nil
}

// applyMovement appends an immutable movement and advances the balance.
// Callers validate sign and sufficiency before reaching here.
func (r *CashRegister) applyMovement(movType MovementType, delta valueobject.SignedAmount, reason string, referenceID *uuid.UUID) {
	r.CurrentBalance = r.CurrentBalance.Add(delta.Amount())
	movement := CashMovement{
		BaseEntity:   shared.NewBaseEntity(),
		RegisterID:   r.ID,
		Type:         movType,
		Amount:       delta.Amount(),
		BalanceAfter: r.CurrentBalance,
		Reason:       reason,
		ReferenceID:  referenceID,
	}
	r.Movements = append(r.Movements, movement)
	r.UpdatedAt = time.Now()
}

// RegisterSale records the cash portion of a completed sale
func (r *CashRegister) RegisterSale(saleID uuid.UUID, amount valueobject.Money) error {
	if err := r.requireOpen("register a sale"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Sale amount must be positive")
	}
	r.applyMovement(MovementTypeSale, valueobject.SignedFromMoney(amount), "Cash sale", &saleID)
	return nil
}

// Deposit adds cash to the drawer outside of a sale
func (r *CashRegister) Deposit(amount valueobject.Money, reason string) error {
	if err := r.requireOpen("deposit"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Deposit amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Deposit reason is required")
	}
	r.applyMovement(MovementTypeDeposit, valueobject.SignedFromMoney(amount), reason, nil)
	return nil
}

// RegisterCreditPayment records cash collected against a customer's debt
func (r *CashRegister) RegisterCreditPayment(customerID uuid.UUID, amount valueobject.Money) error {
	if err := r.requireOpen("collect a credit payment"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	r.applyMovement(MovementTypeCreditPayment, valueobject.SignedFromMoney(amount), "Credit payment", &customerID)
	return nil
}

// Withdraw removes cash from the drawer. The balance can never go negative.
func (r *CashRegister) Withdraw(amount valueobject.Money, reason string) error {
	return r.recordOutflow(MovementTypeWithdrawal, amount, reason)
}

// RecordExpense pays a small expense directly from the drawer
func (r *CashRegister) RecordExpense(amount valueobject.Money, reason string) error {
	return r.recordOutflow(MovementTypeExpense, amount, reason)
}

func (r *CashRegister) recordOutflow(movType MovementType, amount valueobject.Money, reason string) error {
	if err := r.requireOpen("take cash out"); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A reason is required for cash outflows")
	}
	if r.CurrentBalance.LessThan(amount.Amount()) {
		return shared.ErrInsufficientCash
	}
	r.applyMovement(movType, valueobject.NegatedFromMoney(amount), reason, nil)
	return nil
}

// Close closes the session against the physically counted amount.
// Difference = counted - expected: negative means missing cash,
// positive means surplus. The difference is recorded, never clamped.
func (r *CashRegister) Close(countedAmount valueobject.Money, notes string) error {
	if err := r.requireOpen("close"); err != nil {
		return err
	}

	now := time.Now()
	r.ExpectedAmount = r.CurrentBalance
	r.CountedAmount = countedAmount.Amount()
	r.Difference = r.CountedAmount.Sub(r.ExpectedAmount)
	r.ClosingNotes = notes
	r.Status = RegisterStatusClosed
	r.ClosedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewRegisterClosedEvent(r))
	return nil
}

// sumByType adds the absolute value of movements matching the given type
func (r *CashRegister) sumByType(movType MovementType) decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.Movements {
		if m.Type == movType {
			total = total.Add(m.Amount.Abs())
		}
	}
	return total
}

// GetTotalSales returns total cash received through sales
func (r *CashRegister) GetTotalSales() valueobject.Money {
	return valueobject.NewMoneyPEN(r.sumByType(MovementTypeSale))
}

// GetTotalDeposits returns total deposited outside of sales
func (r *CashRegister) GetTotalDeposits() valueobject.Money {
	return valueobject.NewMoneyPEN(r.sumByType(MovementTypeDeposit))
}

// GetTotalWithdrawals returns total withdrawn
func (r *CashRegister) GetTotalWithdrawals() valueobject.Money {
	return valueobject.NewMoneyPEN(r.sumByType(MovementTypeWithdrawal))
}

// GetTotalExpenses returns total paid out as expenses
func (r *CashRegister) GetTotalExpenses() valueobject.Money {
	return valueobject.NewMoneyPEN(r.sumByType(MovementTypeExpense))
}

// GetTotalCreditPayments returns total collected against customer debt
func (r *CashRegister) GetTotalCreditPayments() valueobject.Money {
	return valueobject.NewMoneyPEN(r.sumByType(MovementTypeCreditPayment))
}

// GetCurrentBalanceMoney returns the running balance as Money
func (r *CashRegister) GetCurrentBalanceMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(r.CurrentBalance)
}

// GetDifferenceSigned returns the closing difference (counted - expected)
func (r *CashRegister) GetDifferenceSigned() valueobject.SignedAmount {
	return valueobject.NewSignedAmount(r.Difference, valueobject.PEN)
}

// IsOpen checks if the register session is open
func (r *CashRegister) IsOpen() bool {
	return r.Status == RegisterStatusOpen
}

// IsClosed checks if the register session is closed
func (r *CashRegister) IsClosed() bool {
	return r.Status == RegisterStatusClosed
}

// MovementCount returns the number of recorded movements
func (r *CashRegister) MovementCount() int {
	return len(r.Movements)
}
