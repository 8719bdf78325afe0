package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SignedAmount is the internal counterpart of Money used by ledger entry
// types that must record a negative delta (e.g. a withdrawal movement).
// It carries a sign; everything else in the public surface stays on the
// non-negative Money type. Amounts are rounded to 2 decimal places.
type SignedAmount struct {
	amount   decimal.Decimal
	currency Currency
}

// NewSignedAmount creates a SignedAmount of either sign
func NewSignedAmount(amount decimal.Decimal, currency Currency) SignedAmount {
	if currency == "" {
		currency = DefaultCurrency
	}
	return SignedAmount{amount: amount.Round(2), currency: currency}
}

// SignedFromMoney converts a Money value into a positive SignedAmount
func SignedFromMoney(m Money) SignedAmount {
	return SignedAmount{amount: m.Amount(), currency: m.Currency()}
}

// NegatedFromMoney converts a Money value into a negative SignedAmount
func NegatedFromMoney(m Money) SignedAmount {
	return SignedAmount{amount: m.Amount().Neg(), currency: m.Currency()}
}

// ZeroSigned returns a zero SignedAmount in the given currency
func ZeroSigned(currency Currency) SignedAmount {
	return SignedAmount{amount: decimal.Zero, currency: currency}
}

// Amount returns the signed decimal amount
func (s SignedAmount) Amount() decimal.Decimal {
	return s.amount
}

// Currency returns the currency code
func (s SignedAmount) Currency() Currency {
	if s.currency == "" {
		return DefaultCurrency
	}
	return s.currency
}

// IsNegative returns true if the amount is negative
func (s SignedAmount) IsNegative() bool {
	return s.amount.IsNegative()
}

// IsPositive returns true if the amount is positive
func (s SignedAmount) IsPositive() bool {
	return s.amount.IsPositive()
}

// IsZero returns true if the amount is zero
func (s SignedAmount) IsZero() bool {
	return s.amount.IsZero()
}

// Add returns the sum of both signed amounts
// Returns error if currencies don't match
func (s SignedAmount) Add(other SignedAmount) (SignedAmount, error) {
	if s.Currency() != other.Currency() {
		return SignedAmount{}, fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, s.Currency(), other.Currency())
	}
	return SignedAmount{amount: s.amount.Add(other.amount), currency: s.Currency()}, nil
}

// Negate returns the amount with the sign reversed
func (s SignedAmount) Negate() SignedAmount {
	return SignedAmount{amount: s.amount.Neg(), currency: s.Currency()}
}

// Abs returns the absolute value as a Money value object
func (s SignedAmount) Abs() Money {
	return Money{amount: s.amount.Abs(), currency: s.Currency()}
}

// String returns a string representation of the SignedAmount
func (s SignedAmount) String() string {
	return fmt.Sprintf("%s %s", s.amount.StringFixed(2), s.Currency())
}
