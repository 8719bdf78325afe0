package partner

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCustomer(t *testing.T, creditLimit float64) *Customer {
	c, err := NewCustomer("Maria Quispe", "45678912")
	require.NoError(t, err)
	c.SetCreditLimit(valueobject.NewMoneyPENFromFloat(creditLimit))
	return c
}

func pen(v float64) valueobject.Money {
	return valueobject.NewMoneyPENFromFloat(v)
}

func TestNewCustomer(t *testing.T) {
	t.Run("creates active customer without debt", func(t *testing.T) {
		c, err := NewCustomer("Maria Quispe", "45678912")
		require.NoError(t, err)

		assert.True(t, c.Active)
		assert.True(t, c.CurrentDebt.IsZero())
		assert.False(t, c.HasCreditEnabled())
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewCustomer("   ", "45678912")
		assert.Error(t, err)
	})
}

func TestCustomer_AddDebt(t *testing.T) {
	t.Run("increases debt and appends ledger entry", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		saleID := uuid.New()

		require.NoError(t, c.AddDebt(pen(40), &saleID))

		assert.Equal(t, "40.00", c.CurrentDebt.StringFixed(2))
		assert.Equal(t, "60.00", c.GetAvailableCredit().StringFixed(2))
		require.Len(t, c.Transactions, 1)
		assert.Equal(t, CreditTransactionDebt, c.Transactions[0].Type)
		assert.Equal(t, "40.00", c.Transactions[0].DebtAfter.StringFixed(2))
		require.NotNil(t, c.Transactions[0].ReferenceID)
		assert.Equal(t, saleID, *c.Transactions[0].ReferenceID)
	})

	t.Run("zero limit means credit is disabled", func(t *testing.T) {
		c := createTestCustomer(t, 0)
		err := c.AddDebt(pen(0.01), nil)
		assert.ErrorIs(t, err, ErrCreditDisabled)
	})

	t.Run("rejects debt past the limit and reports available credit", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(80), nil))

		err := c.AddDebt(pen(30), nil)
		require.Error(t, err)

		var limitErr *CreditLimitExceededError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, "30.00", limitErr.Requested.StringFixed(2))
		assert.Equal(t, "20.00", limitErr.Available.StringFixed(2))

		// Debt untouched by the failed attempt
		assert.Equal(t, "80.00", c.CurrentDebt.StringFixed(2))
		assert.Len(t, c.Transactions, 1)
	})

	t.Run("allows debt exactly at the limit", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(80), nil))
		require.NoError(t, c.AddDebt(pen(20), nil))

		assert.Equal(t, "100.00", c.CurrentDebt.StringFixed(2))
		assert.True(t, c.GetAvailableCredit().IsZero())
	})

	t.Run("rejects debt for inactive customers", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		c.Deactivate()
		assert.Error(t, c.AddDebt(pen(10), nil))
	})
}

func TestCustomer_RegisterPayment(t *testing.T) {
	t.Run("reduces debt and appends negative ledger entry", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(60), nil))
		registerID := uuid.New()

		require.NoError(t, c.RegisterPayment(pen(25), CreditPaymentCash, &registerID, "Weekly collection"))

		assert.Equal(t, "35.00", c.CurrentDebt.StringFixed(2))
		require.Len(t, c.Transactions, 2)
		payment := c.Transactions[1]
		assert.Equal(t, CreditTransactionPayment, payment.Type)
		assert.Equal(t, "-25.00", payment.Amount.StringFixed(2))
		assert.Equal(t, "35.00", payment.DebtAfter.StringFixed(2))
		assert.Equal(t, CreditPaymentCash, payment.Method)
		assert.Equal(t, "Weekly collection", payment.Notes)
	})

	t.Run("blank notes fall back to a default", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(30), nil))

		require.NoError(t, c.RegisterPayment(pen(10), CreditPaymentTransfer, nil, "  "))
		last := c.Transactions[len(c.Transactions)-1]
		assert.Equal(t, CreditPaymentTransfer, last.Method)
		assert.Equal(t, "Debt payment", last.Notes)
	})

	t.Run("rejects an unknown payment method", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(30), nil))

		assert.Error(t, c.RegisterPayment(pen(10), "BARTER", nil, ""))
		assert.Equal(t, "30.00", c.CurrentDebt.StringFixed(2))
	})

	t.Run("rejects payments above the outstanding debt", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(30), nil))

		assert.Error(t, c.RegisterPayment(pen(30.01), CreditPaymentCash, nil, ""))
		assert.Equal(t, "30.00", c.CurrentDebt.StringFixed(2))
	})

	t.Run("full payment clears the debt", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(30), nil))
		require.NoError(t, c.RegisterPayment(pen(30), CreditPaymentCash, nil, ""))

		assert.False(t, c.HasDebt())
		assert.Equal(t, "100.00", c.GetAvailableCredit().StringFixed(2))
	})

	t.Run("inactive customers can still pay", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(30), nil))
		c.Deactivate()

		require.NoError(t, c.RegisterPayment(pen(10), CreditPaymentCash, nil, ""))
		assert.Equal(t, "20.00", c.CurrentDebt.StringFixed(2))
	})
}

func TestCustomer_ReduceDebt(t *testing.T) {
	t.Run("lowers debt with an adjustment entry", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(50), nil))

		require.NoError(t, c.ReduceDebt(pen(15), "Billing correction"))

		assert.Equal(t, "35.00", c.CurrentDebt.StringFixed(2))
		last := c.Transactions[len(c.Transactions)-1]
		assert.Equal(t, CreditTransactionAdjustment, last.Type)
		assert.Equal(t, "-15.00", last.Amount.StringFixed(2))
		assert.Nil(t, last.ReferenceID)
	})

	t.Run("requires notes", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(50), nil))

		assert.Error(t, c.ReduceDebt(pen(15), "  "))
		assert.Equal(t, "50.00", c.CurrentDebt.StringFixed(2))
	})

	t.Run("cannot reduce below zero", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(10), nil))

		assert.Error(t, c.ReduceDebt(pen(20), "Write-off"))
	})
}

func TestCustomer_GetAvailableCredit(t *testing.T) {
	t.Run("floors at zero when the limit drops below debt", func(t *testing.T) {
		c := createTestCustomer(t, 100)
		require.NoError(t, c.AddDebt(pen(80), nil))

		c.SetCreditLimit(pen(50))
		assert.True(t, c.GetAvailableCredit().IsZero())

		// Payments bring the customer back under the new limit
		require.NoError(t, c.RegisterPayment(pen(40), CreditPaymentCash, nil, ""))
		assert.Equal(t, "10.00", c.GetAvailableCredit().StringFixed(2))
	})
}
