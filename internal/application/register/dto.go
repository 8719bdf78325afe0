package register

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/shopspring/decimal"
)

// OpenRegisterRequest opens a register session with an initial float
type OpenRegisterRequest struct {
	UserID        uuid.UUID       `json:"-"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// CashMovementRequest records a deposit, withdrawal or expense
type CashMovementRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Reason string          `json:"reason" binding:"required,min=1,max=255"`
}

// CloseRegisterRequest closes the session against a physical count
type CloseRegisterRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount"`
	Notes         string          `json:"notes"`
}

// CashMovementResponse represents one ledger entry
type CashMovementResponse struct {
	ID           uuid.UUID       `json:"id"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Reason       string          `json:"reason,omitempty"`
	ReferenceID  *uuid.UUID      `json:"reference_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// RegisterResponse represents a register session
type RegisterResponse struct {
	ID             uuid.UUID              `json:"id"`
	UserID         uuid.UUID              `json:"user_id"`
	Status         string                 `json:"status"`
	OpeningAmount  decimal.Decimal        `json:"opening_amount"`
	CurrentBalance decimal.Decimal        `json:"current_balance"`
	ExpectedAmount decimal.Decimal        `json:"expected_amount"`
	CountedAmount  decimal.Decimal        `json:"counted_amount"`
	Difference     decimal.Decimal        `json:"difference"`
	OpenedAt       time.Time              `json:"opened_at"`
	ClosedAt       *time.Time             `json:"closed_at,omitempty"`
	ClosingNotes   string                 `json:"closing_notes,omitempty"`
	Movements      []CashMovementResponse `json:"movements,omitempty"`
}

// RegisterSummaryResponse aggregates a session's movement totals
type RegisterSummaryResponse struct {
	ID                  uuid.UUID       `json:"id"`
	Status              string          `json:"status"`
	OpeningAmount       decimal.Decimal `json:"opening_amount"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalWithdrawals    decimal.Decimal `json:"total_withdrawals"`
	TotalExpenses       decimal.Decimal `json:"total_expenses"`
	TotalCreditPayments decimal.Decimal `json:"total_credit_payments"`
	MovementCount       int             `json:"movement_count"`
}

// ToRegisterResponse converts a CashRegister aggregate to its response view
func ToRegisterResponse(r *register.CashRegister) RegisterResponse {
	movements := make([]CashMovementResponse, len(r.Movements))
	for i, m := range r.Movements {
		movements[i] = CashMovementResponse{
			ID:           m.ID,
			Type:         string(m.Type),
			Amount:       m.Amount,
			BalanceAfter: m.BalanceAfter,
			Reason:       m.Reason,
			ReferenceID:  m.ReferenceID,
			CreatedAt:    m.CreatedAt,
		}
	}

	return RegisterResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		Status:         r.Status.String(),
		OpeningAmount:  r.OpeningAmount,
		CurrentBalance: r.CurrentBalance,
		ExpectedAmount: r.ExpectedAmount,
		CountedAmount:  r.CountedAmount,
		Difference:     r.Difference,
		OpenedAt:       r.OpenedAt,
		ClosedAt:       r.ClosedAt,
		ClosingNotes:   r.ClosingNotes,
		Movements:      movements,
	}
}

// ToRegisterSummaryResponse builds the totals view of a session
func ToRegisterSummaryResponse(r *register.CashRegister) RegisterSummaryResponse {
	return RegisterSummaryResponse{
		ID:                  r.ID,
		Status:              r.Status.String(),
		OpeningAmount:       r.OpeningAmount,
		CurrentBalance:      r.CurrentBalance,
		TotalSales:          r.GetTotalSales().Amount(),
		TotalDeposits:       r.GetTotalDeposits().Amount(),
		TotalWithdrawals:    r.GetTotalWithdrawals().Amount(),
		TotalExpenses:       r.GetTotalExpenses().Amount(),
		TotalCreditPayments: r.GetTotalCreditPayments().Amount(),
		MovementCount:       r.MovementCount(),
	}
}
