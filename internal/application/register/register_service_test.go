package register

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
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

// recordingPublisher captures published domain events
type recordingPublisher struct {
	published []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.published = append(p.published, events...)
	return nil
}

func newService(repo *MockRegisterRepository) *RegisterService {
	return newServiceWithEvents(repo, new(recordingPublisher))
}

func newServiceWithEvents(repo *MockRegisterRepository, publisher *recordingPublisher) *RegisterService {
	unit := &fakeUnitOfWork{repos: uow.Repositories{Registers: repo}}
	return NewRegisterService(unit, publisher, zap.NewNop())
}

func openTestRegister(t *testing.T, userID uuid.UUID, opening float64) *register.CashRegister {
	r, err := register.OpenRegister(userID, valueobject.NewMoneyPENFromFloat(opening))
	require.NoError(t, err)
	return r
}

func TestRegisterService_Open(t *testing.T) {
	t.Run("opens a session when none is open", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		userID := uuid.New()
		repo.On("FindOpenByUser", mock.Anything, userID).Return(nil, shared.ErrNoOpenRegister)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*register.CashRegister")).Return(nil)

		resp, err := newService(repo).Open(context.Background(), OpenRegisterRequest{
			UserID:        userID,
			OpeningAmount: decimal.NewFromInt(100),
		})

		require.NoError(t, err)
		assert.Equal(t, "OPEN", resp.Status)
		assert.Equal(t, "100.00", resp.CurrentBalance.StringFixed(2))
		require.Len(t, resp.Movements, 1)
		assert.Equal(t, "INITIAL_CASH", resp.Movements[0].Type)
	})

	t.Run("rejects a second open session for the same user", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		userID := uuid.New()
		repo.On("FindOpenByUser", mock.Anything, userID).Return(openTestRegister(t, userID, 50), nil)

		_, err := newService(repo).Open(context.Background(), OpenRegisterRequest{
			UserID:        userID,
			OpeningAmount: decimal.NewFromInt(100),
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a negative opening amount", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		_, err := newService(repo).Open(context.Background(), OpenRegisterRequest{
			UserID:        uuid.New(),
			OpeningAmount: decimal.NewFromInt(-1),
		})
		assert.Error(t, err)
	})
}

func TestRegisterService_Movements(t *testing.T) {
	t.Run("deposit grows the balance", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		reg := openTestRegister(t, uuid.New(), 100)
		repo.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)
		repo.On("Save", mock.Anything, reg).Return(nil)

		resp, err := newService(repo).Deposit(context.Background(), reg.ID, CashMovementRequest{
			Amount: decimal.NewFromInt(25),
			Reason: "change fund",
		})

		require.NoError(t, err)
		assert.Equal(t, "125.00", resp.CurrentBalance.StringFixed(2))
	})

	t.Run("withdrawal past the balance fails and saves nothing", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		reg := openTestRegister(t, uuid.New(), 100)
		repo.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)

		_, err := newService(repo).Withdraw(context.Background(), reg.ID, CashMovementRequest{
			Amount: decimal.NewFromFloat(100.01),
			Reason: "bank drop",
		})

		assert.ErrorIs(t, err, shared.ErrInsufficientCash)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("expense reduces the balance", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		reg := openTestRegister(t, uuid.New(), 100)
		repo.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)
		repo.On("Save", mock.Anything, reg).Return(nil)

		resp, err := newService(repo).RecordExpense(context.Background(), reg.ID, CashMovementRequest{
			Amount: decimal.NewFromFloat(12.50),
			Reason: "cleaning supplies",
		})

		require.NoError(t, err)
		assert.Equal(t, "87.50", resp.CurrentBalance.StringFixed(2))
	})
}

func TestRegisterService_Close(t *testing.T) {
	t.Run("reconciles and reports the signed difference", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		reg := openTestRegister(t, uuid.New(), 100)
		require.NoError(t, reg.RegisterSale(uuid.New(), valueobject.NewMoneyPENFromFloat(50)))
		require.NoError(t, reg.Withdraw(valueobject.NewMoneyPENFromFloat(30), "bank drop"))

		repo.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)
		repo.On("Save", mock.Anything, reg).Return(nil)

		publisher := new(recordingPublisher)
		resp, err := newServiceWithEvents(repo, publisher).Close(context.Background(), reg.ID, CloseRegisterRequest{
			CountedAmount: decimal.NewFromInt(115),
			Notes:         "evening shift",
		})

		require.NoError(t, err)
		assert.Equal(t, "CLOSED", resp.Status)
		assert.Equal(t, "120.00", resp.ExpectedAmount.StringFixed(2))
		assert.Equal(t, "-5.00", resp.Difference.StringFixed(2))
		require.NotEmpty(t, publisher.published)
		assert.Equal(t, register.EventRegisterClosed, publisher.published[len(publisher.published)-1].EventType())
	})

	t.Run("closing twice fails", func(t *testing.T) {
		repo := new(MockRegisterRepository)
		reg := openTestRegister(t, uuid.New(), 100)
		require.NoError(t, reg.Close(valueobject.NewMoneyPENFromFloat(100), ""))
		repo.On("FindByIDForUpdate", mock.Anything, reg.ID).Return(reg, nil)

		_, err := newService(repo).Close(context.Background(), reg.ID, CloseRegisterRequest{
			CountedAmount: decimal.NewFromInt(100),
		})
		assert.Error(t, err)
	})
}

func TestRegisterService_GetSummary(t *testing.T) {
	repo := new(MockRegisterRepository)
	reg := openTestRegister(t, uuid.New(), 100)
	require.NoError(t, reg.RegisterSale(uuid.New(), valueobject.NewMoneyPENFromFloat(40)))
	require.NoError(t, reg.RecordExpense(valueobject.NewMoneyPENFromFloat(5), "supplies"))
	repo.On("FindByID", mock.Anything, reg.ID).Return(reg, nil)

	resp, err := newService(repo).GetSummary(context.Background(), reg.ID)

	require.NoError(t, err)
	assert.Equal(t, "40.00", resp.TotalSales.StringFixed(2))
	assert.Equal(t, "5.00", resp.TotalExpenses.StringFixed(2))
	assert.Equal(t, 3, resp.MovementCount)
}
