package dto

import "net/http"

// Error codes as produced by the domain and application layers.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests (bad JSON, bad uuid)
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeAlreadyPaid is used when paying an invoice that is settled
	ErrCodeAlreadyPaid = "ALREADY_PAID"
	// ErrCodeInsufficientFunds is used when a debit would overdraw an account
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	// ErrCodeInvalidInput is used for semantically invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidAmount is used for zero or negative monetary amounts
	ErrCodeInvalidAmount = "INVALID_AMOUNT"
	// ErrCodeInvalidPaymentMethod is used for unknown payment methods
	ErrCodeInvalidPaymentMethod = "INVALID_PAYMENT_METHOD"
	// ErrCodeInvalidState is used when an operation is invalid for the current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeInvalidCurrency is used when currencies do not match
	ErrCodeInvalidCurrency = "INVALID_CURRENCY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeAlreadyPaid:         http.StatusConflict,

	// Overdrawing an account is literally a payment problem.
	ErrCodeInsufficientFunds: http.StatusPaymentRequired,

	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeInvalidAmount:        http.StatusBadRequest,
	ErrCodeInvalidPaymentMethod: http.StatusBadRequest,
	ErrCodeInvalidCurrency:      http.StatusBadRequest,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
