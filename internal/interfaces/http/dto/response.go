package dto

import "net/http"

// Response represents a standard API response envelope
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// Common error codes not owned by the domain layer
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeInternal   = "INTERNAL_ERROR"
)

// statusByCode maps domain error codes to HTTP status codes
var statusByCode = map[string]int{
	"NOT_FOUND":              http.StatusNotFound,
	"ALREADY_EXISTS":         http.StatusConflict,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_SKU":            http.StatusBadRequest,
	"INVALID_USER":           http.StatusBadRequest,
	"INVALID_DISCOUNT":       http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
	"INVALID_REASON":         http.StatusBadRequest,
	"INVALID_REGISTER":       http.StatusBadRequest,
	"INVALID_SALE_NUMBER":    http.StatusBadRequest,
	"REASON_REQUIRED":        http.StatusBadRequest,
	"CUSTOMER_REQUIRED":      http.StatusBadRequest,
	"ITEM_NOT_FOUND":         http.StatusNotFound,
	"REGISTER_ALREADY_OPEN":  http.StatusConflict,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"REGISTER_CLOSED":        http.StatusUnprocessableEntity,
	"CUSTOMER_INACTIVE":      http.StatusUnprocessableEntity,
	"PAYMENT_EXCEEDS_DEBT":   http.StatusUnprocessableEntity,
	"CREDIT_DISABLED":        http.StatusUnprocessableEntity,
	"CREDIT_LIMIT_EXCEEDED":  http.StatusUnprocessableEntity,
	"FRACTION_NOT_ALLOWED":   http.StatusUnprocessableEntity,
	"NO_ITEMS":               http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_CASH":      http.StatusUnprocessableEntity,
	"NO_OPEN_REGISTER":       http.StatusUnprocessableEntity,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ListRequest represents common list/pagination request parameters
type ListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
}
