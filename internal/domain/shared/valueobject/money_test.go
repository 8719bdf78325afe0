package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), PEN)
		require.NoError(t, err)
		assert.Equal(t, PEN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("rounds to 2 decimal places at construction", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(10.555), PEN)
		require.NoError(t, err)
		assert.Equal(t, "10.56", m.StringFixed(2))
	})

	t.Run("returns error for negative amount", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(-1), PEN)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", PEN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", PEN)
		assert.Error(t, err)
	})

	t.Run("negative string", func(t *testing.T) {
		_, err := NewMoneyFromString("-5.00", PEN)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestMoney_Add(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyPENFromFloat(10.50)
		b := NewMoneyPENFromFloat(4.50)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "15.00", sum.StringFixed(2))
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		a := NewMoneyPENFromFloat(10)
		b, _ := NewMoneyFromFloat(10, USD)
		_, err := a.Add(b)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})
}

func TestMoney_Subtract(t *testing.T) {
	t.Run("subtracts same currency", func(t *testing.T) {
		a := NewMoneyPENFromFloat(10)
		b := NewMoneyPENFromFloat(4)
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "6.00", diff.StringFixed(2))
	})

	t.Run("rejects negative result", func(t *testing.T) {
		a := NewMoneyPENFromFloat(4)
		b := NewMoneyPENFromFloat(10)
		_, err := a.Subtract(b)
		assert.ErrorIs(t, err, ErrNegativeResult)
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		a := NewMoneyPENFromFloat(10)
		b, _ := NewMoneyFromFloat(4, EUR)
		_, err := a.Subtract(b)
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})
}

// Round-trip: a.Add(b).Subtract(b) == a for valid values
func TestMoney_AddSubtractRoundTrip(t *testing.T) {
	values := []struct {
		a, b float64
	}{
		{0, 0},
		{0.01, 0.01},
		{100.50, 99.99},
		{12345.67, 0.33},
	}

	for _, tt := range values {
		a := NewMoneyPENFromFloat(tt.a)
		b := NewMoneyPENFromFloat(tt.b)
		sum, err := a.Add(b)
		require.NoError(t, err)
		back, err := sum.Subtract(b)
		require.NoError(t, err)
		assert.True(t, back.Equals(a), "round-trip failed for %v + %v", tt.a, tt.b)
	}
}

func TestMoney_SubtractFloored(t *testing.T) {
	t.Run("floors deficit at zero", func(t *testing.T) {
		a := NewMoneyPENFromFloat(20)
		b := NewMoneyPENFromFloat(30)
		result, err := a.SubtractFloored(b)
		require.NoError(t, err)
		assert.True(t, result.IsZero())
	})

	t.Run("returns difference when positive", func(t *testing.T) {
		a := NewMoneyPENFromFloat(30)
		b := NewMoneyPENFromFloat(20)
		result, err := a.SubtractFloored(b)
		require.NoError(t, err)
		assert.Equal(t, "10.00", result.StringFixed(2))
	})
}

func TestMoney_Multiply(t *testing.T) {
	t.Run("multiplies and rounds", func(t *testing.T) {
		m := NewMoneyPENFromFloat(3.33)
		result, err := m.Multiply(decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.Equal(t, "9.99", result.StringFixed(2))
	})

	t.Run("rejects negative factor", func(t *testing.T) {
		m := NewMoneyPENFromFloat(10)
		_, err := m.Multiply(decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyPENFromFloat(10)
	b := NewMoneyPENFromFloat(20)
	foreign, _ := NewMoneyFromFloat(10, USD)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	_, err = a.LessThan(foreign)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = a.GreaterThan(foreign)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoney_MustAddPanicsOnMismatch(t *testing.T) {
	a := NewMoneyPENFromFloat(10)
	b, _ := NewMoneyFromFloat(10, USD)
	assert.Panics(t, func() { a.MustAdd(b) })
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshal and unmarshal", func(t *testing.T) {
		m := NewMoneyPENFromFloat(99.99)
		data, err := json.Marshal(m)
		require.NoError(t, err)

		var decoded Money
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, m.Equals(decoded))
	})

	t.Run("unmarshal rejects negative amount", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"-5","currency":"PEN"}`), &m)
		assert.ErrorIs(t, err, ErrNegativeAmount)
	})
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value with default currency", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("42.50"))
		assert.Equal(t, DefaultCurrency, m.Currency())
		assert.Equal(t, "42.50", m.StringFixed(2))
	})

	t.Run("rejects negative stored value", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan("-1.00"))
	})

	t.Run("nil scans to zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})
}
