package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeUnitOfWork runs the work function directly against the supplied
// repositories, standing in for the transactional wrapper
type fakeUnitOfWork struct {
	repos uow.Repositories
}

func (f *fakeUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	return fn(ctx, f.repos)
}

func (f *fakeUnitOfWork) Repos() uow.Repositories {
	return f.repos
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByDocument(ctx context.Context, documentNumber string) (*partner.Customer, error) {
	args := m.Called(ctx, documentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindDebtors(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockRegisterRepository is a mock implementation of register.CashRegisterRepository
type MockRegisterRepository struct {
	mock.Mock
}

func (m *MockRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*register.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*register.CashRegister, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*register.CashRegister, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]register.CashRegister, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]register.CashRegister), args.Error(1)
}

func (m *MockRegisterRepository) Save(ctx context.Context, r *register.CashRegister) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRegisterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newService(customers *MockCustomerRepository, registers *MockRegisterRepository) *CustomerService {
	unit := &fakeUnitOfWork{repos: uow.Repositories{
		Customers: customers,
		Registers: registers,
	}}
	return NewCustomerService(unit, zap.NewNop())
}

func newTestCustomer(t *testing.T, limit, debt float64) *partner.Customer {
	c, err := partner.NewCustomer("Maria Quispe", "45678912")
	require.NoError(t, err)
	c.SetCreditLimit(valueobject.NewMoneyPENFromFloat(limit))
	if debt > 0 {
		require.NoError(t, c.AddDebt(valueobject.NewMoneyPENFromFloat(debt), nil))
	}
	return c
}

func TestCustomerService_Create(t *testing.T) {
	t.Run("creates a customer with a credit line", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		customers.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)
		limit := decimal.NewFromInt(150)

		resp, err := newService(customers, nil).Create(context.Background(), CreateCustomerRequest{
			Name:           "Maria Quispe",
			DocumentNumber: "45678912",
			CreditLimit:    &limit,
		})

		require.NoError(t, err)
		assert.Equal(t, "150.00", resp.CreditLimit.StringFixed(2))
		assert.True(t, resp.CurrentDebt.IsZero())
	})

	t.Run("rejects a negative credit limit", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		limit := decimal.NewFromInt(-10)

		_, err := newService(customers, nil).Create(context.Background(), CreateCustomerRequest{
			Name:        "Maria Quispe",
			CreditLimit: &limit,
		})

		assert.Error(t, err)
		customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_CollectPayment(t *testing.T) {
	t.Run("reduces debt and adds cash to the register", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		registers := new(MockRegisterRepository)
		customer := newTestCustomer(t, 100, 60)
		reg, err := register.OpenRegister(uuid.New(), valueobject.NewMoneyPENFromFloat(100))
		require.NoError(t, err)

		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		registers.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)
		customers.On("Save", mock.Anything, customer).Return(nil)
		registers.On("Save", mock.Anything, reg).Return(nil)

		resp, err := newService(customers, registers).CollectPayment(context.Background(), customer.ID, CollectPaymentRequest{
			RegisterID: reg.ID,
			Amount:     decimal.NewFromInt(25),
			Method:     "CASH",
		})

		require.NoError(t, err)
		assert.Equal(t, "35.00", resp.CurrentDebt.StringFixed(2))
		assert.Equal(t, "125.00", reg.CurrentBalance.StringFixed(2))
		assert.Equal(t, "25.00", reg.GetTotalCreditPayments().StringFixed(2))
		last := resp.Transactions[len(resp.Transactions)-1]
		assert.Equal(t, "CASH", last.Method)
	})

	t.Run("card payment reduces debt without touching the drawer", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		registers := new(MockRegisterRepository)
		customer := newTestCustomer(t, 100, 60)
		registerID := uuid.New()

		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		customers.On("Save", mock.Anything, customer).Return(nil)

		resp, err := newService(customers, registers).CollectPayment(context.Background(), customer.ID, CollectPaymentRequest{
			RegisterID: registerID,
			Amount:     decimal.NewFromInt(25),
			Method:     "CARD",
			Notes:      "POS terminal",
		})

		require.NoError(t, err)
		assert.Equal(t, "35.00", resp.CurrentDebt.StringFixed(2))
		last := resp.Transactions[len(resp.Transactions)-1]
		assert.Equal(t, "CARD", last.Method)
		assert.Equal(t, "POS terminal", last.Notes)
		registers.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		registers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("payment above the debt fails and saves nothing", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		registers := new(MockRegisterRepository)
		customer := newTestCustomer(t, 100, 20)
		reg, err := register.OpenRegister(uuid.New(), valueobject.NewMoneyPENFromFloat(100))
		require.NoError(t, err)

		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		registers.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)

		_, err = newService(customers, registers).CollectPayment(context.Background(), customer.ID, CollectPaymentRequest{
			RegisterID: reg.ID,
			Amount:     decimal.NewFromInt(25),
			Method:     "CASH",
		})

		require.Error(t, err)
		customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		registers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("closed register rejects the collection", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		registers := new(MockRegisterRepository)
		customer := newTestCustomer(t, 100, 20)
		reg, err := register.OpenRegister(uuid.New(), valueobject.NewMoneyPENFromFloat(100))
		require.NoError(t, err)
		require.NoError(t, reg.Close(valueobject.NewMoneyPENFromFloat(100), ""))

		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		registers.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)

		_, err = newService(customers, registers).CollectPayment(context.Background(), customer.ID, CollectPaymentRequest{
			RegisterID: reg.ID,
			Amount:     decimal.NewFromInt(10),
			Method:     "CASH",
		})

		assert.Error(t, err)
	})
}

func TestCustomerService_UpdateCreditLimit(t *testing.T) {
	customers := new(MockCustomerRepository)
	customer := newTestCustomer(t, 100, 80)
	customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
	customers.On("Save", mock.Anything, customer).Return(nil)

	resp, err := newService(customers, nil).UpdateCreditLimit(context.Background(), customer.ID, UpdateCreditLimitRequest{
		CreditLimit: decimal.NewFromInt(50),
	})

	require.NoError(t, err)
	assert.Equal(t, "50.00", resp.CreditLimit.StringFixed(2))
	// Debt above the new limit floors available credit at zero
	assert.True(t, resp.AvailableCredit.IsZero())
}

func TestCustomerService_AdjustDebt(t *testing.T) {
	t.Run("writes off part of the debt", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		customer := newTestCustomer(t, 100, 80)
		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)
		customers.On("Save", mock.Anything, customer).Return(nil)

		resp, err := newService(customers, nil).AdjustDebt(context.Background(), customer.ID, AdjustDebtRequest{
			Amount: decimal.NewFromInt(30),
			Notes:  "Damaged goods write-off",
		})

		require.NoError(t, err)
		assert.Equal(t, "50.00", resp.CurrentDebt.StringFixed(2))
		last := resp.Transactions[len(resp.Transactions)-1]
		assert.Equal(t, string(partner.CreditTransactionAdjustment), last.Type)
	})

	t.Run("rejects adjustment above the debt", func(t *testing.T) {
		customers := new(MockCustomerRepository)
		customer := newTestCustomer(t, 100, 20)
		customers.On("FindByIDForUpdate", mock.Anything, customer.ID).Return(customer, nil)

		_, err := newService(customers, nil).AdjustDebt(context.Background(), customer.ID, AdjustDebtRequest{
			Amount: decimal.NewFromInt(30),
			Notes:  "Too much",
		})

		assert.Error(t, err)
		customers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
