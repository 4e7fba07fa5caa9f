package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain error codes
// (NOT_FOUND, INVALID_QUANTITY, TICKET_BUSY, ...) are passed through as-is.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// Domain error codes with a dedicated status
const (
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeTicketBusy          = "TICKET_BUSY"
	ErrCodeTicketSubmitted     = "TICKET_ALREADY_SUBMITTED"
	ErrCodeSalesCycleFailed    = "SALES_CYCLE_FAILED"
)

// invalidPrefix marks input validation codes raised by domain constructors
const invalidPrefix = "INVALID_"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeTicketBusy:          http.StatusConflict,
	ErrCodeTicketSubmitted:     http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeSalesCycleFailed:    http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are 400, anything else unknown is 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, invalidPrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
