package register

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/uow"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// RegisterService handles cash register session operations
type RegisterService struct {
	uow    uow.UnitOfWork
	events shared.EventPublisher
	logger *zap.Logger
}

// NewRegisterService creates a new RegisterService
func NewRegisterService(unitOfWork uow.UnitOfWork, publisher shared.EventPublisher, logger *zap.Logger) *RegisterService {
	return &RegisterService{
		uow:    unitOfWork,
		events: publisher,
		logger: logger,
	}
}

// publishEvents hands the register's pending domain events to the
// publisher once the unit of work has committed
func (s *RegisterService) publishEvents(ctx context.Context, reg *register.CashRegister) {
	pending := reg.GetDomainEvents()
	if len(pending) == 0 {
		return
	}
	if err := s.events.Publish(ctx, pending...); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
	reg.ClearDomainEvents()
}

// Open opens a register session for a user. A user can only have one
// open session at a time.
func (s *RegisterService) Open(ctx context.Context, req OpenRegisterRequest) (*RegisterResponse, error) {
	opening, err := valueobject.NewMoney(req.OpeningAmount, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response RegisterResponse
	var reg *register.CashRegister
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		existing, err := repos.Registers.FindOpenByUser(ctx, req.UserID)
		if err != nil && !errors.Is(err, shared.ErrNoOpenRegister) {
			return err
		}
		if existing != nil {
			return shared.NewDomainError("REGISTER_ALREADY_OPEN", "User already has an open register")
		}

		reg, err = register.OpenRegister(req.UserID, opening)
		if err != nil {
			return err
		}
		if err := repos.Registers.Save(ctx, reg); err != nil {
			return err
		}

		s.logger.Info("register opened",
			zap.String("register_id", reg.ID.String()),
			zap.String("opening_amount", opening.StringFixed(2)),
		)
		response = ToRegisterResponse(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, reg)
	return &response, nil
}

// Deposit adds cash to an open register
func (s *RegisterService) Deposit(ctx context.Context, registerID uuid.UUID, req CashMovementRequest) (*RegisterResponse, error) {
	return s.applyMovement(ctx, registerID, req, func(reg *register.CashRegister, amount valueobject.Money) error {
		return reg.Deposit(amount, req.Reason)
	})
}

// Withdraw takes cash out of an open register
func (s *RegisterService) Withdraw(ctx context.Context, registerID uuid.UUID, req CashMovementRequest) (*RegisterResponse, error) {
	return s.applyMovement(ctx, registerID, req, func(reg *register.CashRegister, amount valueobject.Money) error {
		return reg.Withdraw(amount, req.Reason)
	})
}

// RecordExpense pays an expense from an open register
func (s *RegisterService) RecordExpense(ctx context.Context, registerID uuid.UUID, req CashMovementRequest) (*RegisterResponse, error) {
	return s.applyMovement(ctx, registerID, req, func(reg *register.CashRegister, amount valueobject.Money) error {
		return reg.RecordExpense(amount, req.Reason)
	})
}

func (s *RegisterService) applyMovement(ctx context.Context, registerID uuid.UUID, req CashMovementRequest, apply func(*register.CashRegister, valueobject.Money) error) (*RegisterResponse, error) {
	amount, err := valueobject.NewMoney(req.Amount, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response RegisterResponse
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		reg, err := repos.Registers.FindByIDForUpdate(ctx, registerID)
		if err != nil {
			return err
		}
		if err := apply(reg, amount); err != nil {
			return err
		}
		if err := repos.Registers.Save(ctx, reg); err != nil {
			return err
		}
		response = ToRegisterResponse(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Close closes a register session against the counted amount and
// returns the reconciliation result
func (s *RegisterService) Close(ctx context.Context, registerID uuid.UUID, req CloseRegisterRequest) (*RegisterResponse, error) {
	counted, err := valueobject.NewMoney(req.CountedAmount, valueobject.PEN)
	if err != nil {
		return nil, err
	}

	var response RegisterResponse
	var reg *register.CashRegister
	err = s.uow.Execute(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		reg, err = repos.Registers.FindByIDForUpdate(ctx, registerID)
		if err != nil {
			return err
		}
		if err := reg.Close(counted, req.Notes); err != nil {
			return err
		}
		if err := repos.Registers.Save(ctx, reg); err != nil {
			return err
		}

		s.logger.Info("register closed",
			zap.String("register_id", reg.ID.String()),
			zap.String("expected", reg.ExpectedAmount.StringFixed(2)),
			zap.String("counted", reg.CountedAmount.StringFixed(2)),
			zap.String("difference", reg.Difference.StringFixed(2)),
		)
		response = ToRegisterResponse(reg)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, reg)
	return &response, nil
}

// GetCurrent returns the user's open register session
func (s *RegisterService) GetCurrent(ctx context.Context, userID uuid.UUID) (*RegisterResponse, error) {
	reg, err := s.uow.Repos().Registers.FindOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToRegisterResponse(reg)
	return &response, nil
}

// GetByID retrieves a register session by ID
func (s *RegisterService) GetByID(ctx context.Context, registerID uuid.UUID) (*RegisterResponse, error) {
	reg, err := s.uow.Repos().Registers.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	response := ToRegisterResponse(reg)
	return &response, nil
}

// GetSummary returns the movement totals for a session
func (s *RegisterService) GetSummary(ctx context.Context, registerID uuid.UUID) (*RegisterSummaryResponse, error) {
	reg, err := s.uow.Repos().Registers.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	response := ToRegisterSummaryResponse(reg)
	return &response, nil
}

// List retrieves register sessions with pagination
func (s *RegisterService) List(ctx context.Context, filter shared.Filter) ([]RegisterResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	repos := s.uow.Repos()
	items, err := repos.Registers.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := repos.Registers.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RegisterResponse, len(items))
	for i := range items {
		responses[i] = ToRegisterResponse(&items[i])
	}
	return responses, total, nil
}
