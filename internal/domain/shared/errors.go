package shared

// ErrorKind classifies domain errors for transport mapping and retry decisions
type ErrorKind string

const (
	// ErrorKindValidation marks caller-correctable input errors, returned
	// before any mutation occurs
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindState marks operations attempted against stale or terminal
	// entity state
	ErrorKindState ErrorKind = "STATE"
	// ErrorKindIntegrity marks invariant breaches that should never occur if
	// write-time checks hold; fatal to the operation, logged for reconciliation
	ErrorKindIntegrity ErrorKind = "INTEGRITY"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: ErrorKindValidation}
}

// NewStateError creates a new state-kind domain error
func NewStateError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: ErrorKindState}
}

// NewIntegrityError creates a new integrity-kind domain error
func NewIntegrityError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message, Kind: ErrorKindIntegrity}
}

// Common domain errors
var (
	ErrNotFound            = NewStateError("NOT_FOUND", "Resource not found")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewStateError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict = NewStateError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
