package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "PENDING"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// A completed sale can still be cancelled (the stock is restored by the
// cancellation use case); CANCELLED is the only terminal state.
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusPending:
		return target == SaleStatusCompleted || target == SaleStatusCancelled
	case SaleStatusCompleted:
		return target == SaleStatusCancelled
	case SaleStatusCancelled:
		return false
	}
	return false
}

// PaymentMethod represents how a sale (or part of it) was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodWallet   PaymentMethod = "WALLET"
	// PaymentMethodMixed is derived when a sale has payments of more than one method
	PaymentMethodMixed PaymentMethod = "MIXED"
)

// IsValid checks if the method is valid for an individual payment.
// MIXED is derived, never assigned to a single payment.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodWallet:
		return true
	}
	return false
}

// SaleItem represents a line item in a sale. Product name and unit price are
// snapshotted at sale time, not referenced live.
type SaleItem struct {
	shared.BaseEntity
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountPct   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	AllowFraction bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

func (i *SaleItem) recalculate() {
	gross := i.Quantity.Mul(i.UnitPrice).Round(2)
	discount := gross.Mul(i.DiscountPct).Div(decimal.NewFromInt(100)).Round(2)
	i.Total = gross.Sub(discount)
}

// GetQuantity returns the line quantity as Quantity
func (i *SaleItem) GetQuantity() valueobject.Quantity {
	return valueobject.MustNewQuantity(i.Quantity)
}

// GetTotalMoney returns the line total as Money
func (i *SaleItem) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(i.Total)
}

// SalePayment represents one payment applied to a sale.
// Payments are immutable once appended.
type SalePayment struct {
	shared.BaseEntity
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method    PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reference string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SalePayment) TableName() string {
	return "sale_payments"
}

// GetAmountMoney returns the payment amount as Money
func (p *SalePayment) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(p.Amount)
}

// Sale is the aggregate root for one checkout transaction. It is created
// PENDING, mutated only while PENDING, and immutable once COMPLETED or
// CANCELLED except for the cancellation note.
type Sale struct {
	shared.BaseAggregateRoot
	Number         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	RegisterID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	IsCredit       bool            `gorm:"not null;default:false"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;references:ID"`
	Payments       []SalePayment   `gorm:"foreignKey:SaleID;references:ID"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20)"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CompletedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new pending sale. Credit sales require a customer.
func NewSale(number string, registerID uuid.UUID, customerID *uuid.UUID, isCredit bool) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	if registerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REGISTER", "Cash register ID cannot be empty")
	}
	if isCredit && customerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		RegisterID:        registerID,
		CustomerID:        customerID,
		IsCredit:          isCredit,
		Items:             make([]SaleItem, 0),
		Payments:          make([]SalePayment, 0),
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		AmountPaid:        decimal.Zero,
		ChangeAmount:      decimal.Zero,
		Status:            SaleStatusPending,
	}

	return sale, nil
}

func (s *Sale) requirePending(action string) error {
	if s.Status != SaleStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s a %s sale", action, s.Status))
	}
	return nil
}

// AddItem adds a line item to the sale. If the product is already a line the
// quantities are merged; there is never more than one line per product.
// Non-integral quantities are rejected for products that do not allow
// fractional units.
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity valueobject.Quantity, unitPrice valueobject.Money, discountPct valueobject.Percentage, allowFraction bool) error {
	if err := s.requirePending("add items to"); err != nil {
		return err
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !allowFraction && !quantity.IsInteger() {
		return shared.NewDomainError("FRACTION_NOT_ALLOWED", "Product does not allow fractional quantities")
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			s.Items[idx].Quantity = s.Items[idx].Quantity.Add(quantity.Amount())
			s.Items[idx].recalculate()
			s.Items[idx].UpdatedAt = time.Now()
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	item := SaleItem{
		BaseEntity:    shared.NewBaseEntity(),
		SaleID:        s.ID,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity.Amount(),
		UnitPrice:     unitPrice.Amount(),
		DiscountPct:   discountPct.Amount(),
		AllowFraction: allowFraction,
	}
	item.recalculate()

	s.Items = append(s.Items, item)
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// RemoveItem removes the line for the given product
func (s *Sale) RemoveItem(productID uuid.UUID) error {
	if err := s.requirePending("remove items from"); err != nil {
		return err
	}

	for idx, item := range s.Items {
		if item.ProductID == productID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// UpdateItemQuantity changes the quantity of an existing line.
// A zero quantity removes the line.
func (s *Sale) UpdateItemQuantity(productID uuid.UUID, quantity valueobject.Quantity) error {
	if err := s.requirePending("update items in"); err != nil {
		return err
	}
	if quantity.IsZero() {
		return s.RemoveItem(productID)
	}

	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			if !s.Items[idx].AllowFraction && !quantity.IsInteger() {
				return shared.NewDomainError("FRACTION_NOT_ALLOWED", "Product does not allow fractional quantities")
			}
			s.Items[idx].Quantity = quantity.Amount()
			s.Items[idx].recalculate()
			s.Items[idx].UpdatedAt = time.Now()
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// ApplyDiscount applies a sale-level discount
func (s *Sale) ApplyDiscount(discount valueobject.Money) error {
	if err := s.requirePending("apply a discount to"); err != nil {
		return err
	}
	if discount.Amount().GreaterThan(s.Subtotal) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed subtotal")
	}

	s.DiscountAmount = discount.Amount()
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// SetTax sets the tax amount added on top of the discounted subtotal
func (s *Sale) SetTax(tax valueobject.Money) error {
	if err := s.requirePending("set tax on"); err != nil {
		return err
	}

	s.TaxAmount = tax.Amount()
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// AddPayment appends a payment and recomputes the paid amount, change and
// effective payment method.
func (s *Sale) AddPayment(method PaymentMethod, amount valueobject.Money, reference string) error {
	if err := s.requirePending("add payments to"); err != nil {
		return err
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Invalid payment method")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	s.Payments = append(s.Payments, SalePayment{
		BaseEntity: shared.NewBaseEntity(),
		SaleID:     s.ID,
		Method:     method,
		Amount:     amount.Amount(),
		Reference:  reference,
	})
	s.recalculateTotals()
	s.UpdatedAt = time.Now()

	return nil
}

// Complete transitions the sale to COMPLETED. Requires at least one item;
// non-credit sales additionally require the payments to cover the total.
// Credit sales defer payment to the customer ledger.
func (s *Sale) Complete() error {
	if !s.Status.CanTransitionTo(SaleStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete a %s sale", s.Status))
	}
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot complete a sale without items")
	}
	if !s.IsCredit && s.AmountPaid.LessThan(s.Total) {
		return shared.NewDomainError("INSUFFICIENT_PAYMENT",
			fmt.Sprintf("Amount paid %s does not cover total %s", s.AmountPaid.StringFixed(2), s.Total.StringFixed(2)))
	}

	now := time.Now()
	s.Status = SaleStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCompletedEvent(s))

	return nil
}

// Cancel cancels the sale. Allowed from any non-cancelled state; cancelling
// twice is refused.
func (s *Sale) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
	}

	wasCompleted := s.Status == SaleStatusCompleted
	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCancelledEvent(s, wasCompleted))

	return nil
}

// SetCancelReason updates the cancellation note. This is the only mutation
// allowed after a sale leaves PENDING.
func (s *Sale) SetCancelReason(reason string) error {
	if s.Status != SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only cancelled sales carry a cancellation note")
	}
	s.CancelReason = reason
	s.UpdatedAt = time.Now()
	return nil
}

// recalculateTotals recomputes all derived amounts:
// Subtotal = sum of line totals, Total = Subtotal - Discount + Tax,
// AmountPaid = sum of payments, Change = max(0, AmountPaid - Total).
func (s *Sale) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Total)
	}
	s.Subtotal = subtotal

	// Discount may have been applied before items changed
	if s.DiscountAmount.GreaterThan(s.Subtotal) {
		s.DiscountAmount = s.Subtotal
	}
	s.Total = s.Subtotal.Sub(s.DiscountAmount).Add(s.TaxAmount)

	paid := decimal.Zero
	for _, payment := range s.Payments {
		paid = paid.Add(payment.Amount)
	}
	s.AmountPaid = paid

	change := paid.Sub(s.Total)
	if change.IsNegative() {
		change = decimal.Zero
	}
	s.ChangeAmount = change

	s.PaymentMethod = s.effectivePaymentMethod()
}

func (s *Sale) effectivePaymentMethod() PaymentMethod {
	if len(s.Payments) == 0 {
		return ""
	}
	first := s.Payments[0].Method
	for _, payment := range s.Payments[1:] {
		if payment.Method != first {
			return PaymentMethodMixed
		}
	}
	return first
}

// CashPaid returns the sum of cash-method payments
func (s *Sale) CashPaid() valueobject.Money {
	total := decimal.Zero
	for _, payment := range s.Payments {
		if payment.Method == PaymentMethodCash {
			total = total.Add(payment.Amount)
		}
	}
	return valueobject.NewMoneyPEN(total)
}

// GetSubtotalMoney returns the subtotal as Money
func (s *Sale) GetSubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(s.Subtotal)
}

// GetTotalMoney returns the total as Money
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(s.Total)
}

// GetAmountPaidMoney returns the paid amount as Money
func (s *Sale) GetAmountPaidMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(s.AmountPaid)
}

// GetChangeMoney returns the change as Money
func (s *Sale) GetChangeMoney() valueobject.Money {
	return valueobject.NewMoneyPEN(s.ChangeAmount)
}

// GetItemByProduct returns the line for a product, or nil
func (s *Sale) GetItemByProduct(productID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			return &s.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the sale
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

// IsPending returns true if the sale is pending
func (s *Sale) IsPending() bool {
	return s.Status == SaleStatusPending
}

// IsCompleted returns true if the sale is completed
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}
