package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeEmptyOrder           = "EMPTY_ORDER"
	ErrCodeDiscountNotFound     = "DISCOUNT_CODE_NOT_FOUND"
	ErrCodeDiscountExists       = "DISCOUNT_CODE_EXISTS"
	ErrCodeDiscountInapplicable = "DISCOUNT_CODE_INAPPLICABLE"
	ErrCodeDiscountExhausted    = "DISCOUNT_CODE_EXHAUSTED"
	ErrCodeInvalidDiscountInput = "INVALID_DISCOUNT_INPUT"
	ErrCodeStoreUnavailable     = "STORE_UNAVAILABLE"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	// Reason carries the validation reason when a discount code was rejected.
	Reason ValidationReason
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInapplicableDiscountError reports a discount code that exists but failed
// one of the validity rules.
func NewInapplicableDiscountError(reason ValidationReason) *DomainError {
	return &DomainError{
		Code:    ErrCodeDiscountInapplicable,
		Message: "discount code cannot be applied: " + string(reason),
		Reason:  reason,
	}
}

// NewInvalidDiscountInputError reports a malformed discount code definition.
func NewInvalidDiscountInputError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidDiscountInput, message)
}

// Common domain errors
var (
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrEmptyOrder           = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrDiscountCodeNotFound = NewDomainError(ErrCodeDiscountNotFound, "Discount code not found")
	ErrDiscountCodeExists   = NewDomainError(ErrCodeDiscountExists, "Discount code already exists")
	ErrDiscountExhausted    = NewDomainError(ErrCodeDiscountExhausted, "Discount code has reached its usage limit")

	// ErrStoreUnavailable wraps every persistence failure of the discount code
	// store. It is never reported as not found.
	ErrStoreUnavailable = NewDomainError(ErrCodeStoreUnavailable, "Discount code store unavailable")
)
