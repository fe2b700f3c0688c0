package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Code          string `json:"code"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidUpdate     = "INVALID_UPDATE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRouteNotFound     = "NOT_FOUND"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	cause   error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the broader domain error this one refines, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_FAILED error with the given message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidationFailed, message)
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be a positive integer.")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock available.")

	// ErrInvalidUpdate rejects a direct update that would make stock negative.
	// errors.Is(ErrInvalidUpdate, ErrInvalidQuantity) holds.
	ErrInvalidUpdate = &DomainError{
		Code:    ErrCodeInvalidUpdate,
		Message: "stock_quantity cannot be negative.",
		cause:   ErrInvalidQuantity,
	}

	// ErrStockLimitExceeded rejects an addition that would push stock past
	// MaxStockQuantity. It is an INVALID_QUANTITY error.
	ErrStockLimitExceeded = &DomainError{
		Code:    ErrCodeInvalidQuantity,
		Message: "Quantity would push stock above the maximum of 2147483647.",
		cause:   ErrInvalidQuantity,
	}
)
