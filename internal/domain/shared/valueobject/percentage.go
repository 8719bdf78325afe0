package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrPercentageOutOfRange is returned for percentages outside [0,100]
var ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")

// Percentage is a value object bounded to [0,100], used to compute
// percentage discounts on Money values.
type Percentage struct {
	value decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// NewPercentage creates a new Percentage within [0,100]
func NewPercentage(value decimal.Decimal) (Percentage, error) {
	if value.IsNegative() || value.GreaterThan(oneHundred) {
		return Percentage{}, fmt.Errorf("%w: %s", ErrPercentageOutOfRange, value.String())
	}
	return Percentage{value: value}, nil
}

// NewPercentageFromFloat creates a Percentage from a float64 value
func NewPercentageFromFloat(value float64) (Percentage, error) {
	return NewPercentage(decimal.NewFromFloat(value))
}

// MustNewPercentage creates a Percentage and panics on error
func MustNewPercentage(value decimal.Decimal) Percentage {
	p, err := NewPercentage(value)
	if err != nil {
		panic(err)
	}
	return p
}

// ZeroPercentage returns a 0% percentage
func ZeroPercentage() Percentage {
	return Percentage{value: decimal.Zero}
}

// Amount returns the decimal value
func (p Percentage) Amount() decimal.Decimal {
	return p.value
}

// IsZero returns true if the percentage is zero
func (p Percentage) IsZero() bool {
	return p.value.IsZero()
}

// Of computes the percentage of the given Money value: amount * pct / 100,
// rounded to 2 decimal places
func (p Percentage) Of(m Money) Money {
	amount := m.Amount().Mul(p.value).Div(oneHundred).Round(2)
	return Money{amount: amount, currency: m.Currency()}
}

// Equals returns true if both percentages are equal
func (p Percentage) Equals(other Percentage) bool {
	return p.value.Equal(other.value)
}

// String returns a string representation of the Percentage
func (p Percentage) String() string {
	return p.value.String() + "%"
}
