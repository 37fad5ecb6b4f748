package dto

import (
	"errors"
	"net/http"

	"github.com/openbooks/ledger/internal/domain/shared"
)

// Transport-level error codes. Domain error codes pass through unchanged.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// statusByCode overrides the kind-derived status for specific domain codes
var statusByCode = map[string]int{
	"NOT_FOUND":            http.StatusNotFound,
	"DUPLICATE_CODE":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
}

// HTTPStatus maps a domain error to its HTTP status. Validation errors map
// to 400, state errors to 409, integrity errors to 500; a few codes carry
// their own status.
func HTTPStatus(err *shared.DomainError) int {
	if status, ok := statusByCode[err.Code]; ok {
		return status
	}
	switch err.Kind {
	case shared.ErrorKindValidation:
		return http.StatusBadRequest
	case shared.ErrorKindState:
		return http.StatusConflict
	case shared.ErrorKindIntegrity:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts any error to an error code, message and HTTP status
func FromError(err error) (code, message string, status int) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message, HTTPStatus(domainErr)
	}
	return ErrCodeInternal, "An internal error occurred", http.StatusInternalServerError
}
