package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInvalidInvariant    = NewDomainError("INVALID_INVARIANT", "Front and back stock no longer add up to total")
	ErrInventoryClosed     = NewDomainError("INVENTORY_CLOSED", "Reconciliation session is already closed")
	ErrDuplicateName       = NewDomainError("DUPLICATE_NAME", "Name is already in use")
	ErrCircularReference   = NewDomainError("CIRCULAR_REFERENCE", "Reference would create a cycle")
)
