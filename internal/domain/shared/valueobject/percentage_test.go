package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPercentage(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"mid range", 50, false},
		{"full", 100, false},
		{"negative", -0.01, true},
		{"above 100", 100.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPercentageFromFloat(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPercentageOutOfRange)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPercentage_Of(t *testing.T) {
	t.Run("computes discount amount", func(t *testing.T) {
		pct, err := NewPercentageFromFloat(10)
		require.NoError(t, err)
		m := NewMoneyPENFromFloat(200)
		assert.Equal(t, "20.00", pct.Of(m).StringFixed(2))
	})

	t.Run("rounds to 2 decimal places", func(t *testing.T) {
		pct, err := NewPercentage(decimal.NewFromFloat(33.33))
		require.NoError(t, err)
		m := NewMoneyPENFromFloat(10)
		assert.Equal(t, "3.33", pct.Of(m).StringFixed(2))
	})

	t.Run("zero percentage yields zero", func(t *testing.T) {
		m := NewMoneyPENFromFloat(99.99)
		assert.True(t, ZeroPercentage().Of(m).IsZero())
	})

	t.Run("preserves currency", func(t *testing.T) {
		pct := MustNewPercentage(decimal.NewFromInt(50))
		m, _ := NewMoneyFromFloat(80, USD)
		assert.Equal(t, USD, pct.Of(m).Currency())
	})
}
