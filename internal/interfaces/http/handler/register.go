package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appregister "github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

type movementCall func(ctx context.Context, registerID uuid.UUID, req appregister.CashMovementRequest) (*appregister.RegisterResponse, error)

// RegisterHandler handles cash register endpoints
type RegisterHandler struct {
	BaseHandler
	service *appregister.RegisterService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(service *appregister.RegisterService) *RegisterHandler {
	return &RegisterHandler{service: service}
}

// Open handles POST /api/v1/registers/open
func (h *RegisterHandler) Open(c *gin.Context) {
	var req appregister.OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid user")
		return
	}
	req.UserID = userID

	resp, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetCurrent handles GET /api/v1/registers/current
func (h *RegisterHandler) GetCurrent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.BadRequest(c, "Missing or invalid user")
		return
	}

	resp, err := h.service.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deposit handles POST /api/v1/registers/:id/deposits
func (h *RegisterHandler) Deposit(c *gin.Context) {
	h.movement(c, h.service.Deposit)
}

// Withdraw handles POST /api/v1/registers/:id/withdrawals
func (h *RegisterHandler) Withdraw(c *gin.Context) {
	h.movement(c, h.service.Withdraw)
}

// RecordExpense handles POST /api/v1/registers/:id/expenses
func (h *RegisterHandler) RecordExpense(c *gin.Context) {
	h.movement(c, h.service.RecordExpense)
}

func (h *RegisterHandler) movement(c *gin.Context, call movementCall) {
	registerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	var req appregister.CashMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := call(c.Request.Context(), registerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Close handles POST /api/v1/registers/:id/close
func (h *RegisterHandler) Close(c *gin.Context) {
	registerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	var req appregister.CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Close(c.Request.Context(), registerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /api/v1/registers/:id
func (h *RegisterHandler) GetByID(c *gin.Context) {
	registerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetSummary handles GET /api/v1/registers/:id/summary
func (h *RegisterHandler) GetSummary(c *gin.Context) {
	registerID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), registerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /api/v1/registers
func (h *RegisterHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := toFilter(req)
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}
