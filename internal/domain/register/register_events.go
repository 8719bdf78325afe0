package register

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the register context
const (
	EventRegisterOpened = "register.opened"
	EventRegisterClosed = "register.closed"
)

// RegisterOpenedEvent is emitted when a register session is opened
type RegisterOpenedEvent struct {
	shared.BaseDomainEvent
	UserID        uuid.UUID       `json:"user_id"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// NewRegisterOpenedEvent creates a new RegisterOpenedEvent
func NewRegisterOpenedEvent(r *CashRegister) *RegisterOpenedEvent {
	return &RegisterOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRegisterOpened, "CashRegister", r.ID),
		UserID:          r.UserID,
		OpeningAmount:   r.OpeningAmount,
	}
}

// RegisterClosedEvent is emitted when a register session is closed.
// Difference is counted minus expected and may be negative.
type RegisterClosedEvent struct {
	shared.BaseDomainEvent
	UserID         uuid.UUID       `json:"user_id"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	CountedAmount  decimal.Decimal `json:"counted_amount"`
	Difference     decimal.Decimal `json:"difference"`
}

// NewRegisterClosedEvent creates a new RegisterClosedEvent
func NewRegisterClosedEvent(r *CashRegister) *RegisterClosedEvent {
	return &RegisterClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRegisterClosed, "CashRegister", r.ID),
		UserID:          r.UserID,
		ExpectedAmount:  r.ExpectedAmount,
		CountedAmount:   r.CountedAmount,
		Difference:      r.Difference,
	}
}
