package colimit

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes colimit errors.
type ErrorCode string

const (
	// ErrCodeIllDefinedQuotient indicates a function that is not constant on
	// the classes of a projection, so no factorization exists.
	ErrCodeIllDefinedQuotient ErrorCode = "ILL_DEFINED_QUOTIENT"

	// ErrCodeNonSurjectiveProjection indicates a projection that misses part
	// of its declared codomain.
	ErrCodeNonSurjectiveProjection ErrorCode = "NON_SURJECTIVE_PROJECTION"

	// ErrCodeInvalidDiagram indicates an edge whose function does not match
	// its endpoints, or an edge to a missing object.
	ErrCodeInvalidDiagram ErrorCode = "INVALID_DIAGRAM"

	// ErrCodeNotACocone indicates legs passed to Universal that do not
	// commute with the diagram.
	ErrCodeNotACocone ErrorCode = "NOT_A_COCONE"

	// ErrCodeDomainMismatch indicates a projection and a function with
	// different domains.
	ErrCodeDomainMismatch ErrorCode = "DOMAIN_MISMATCH"
)

// QuotientError is returned by quotient and colimit operations.
type QuotientError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *QuotientError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *QuotientError {
	return &QuotientError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err wraps a QuotientError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var qe *QuotientError
	if errors.As(err, &qe) {
		return qe.Code == code
	}
	return false
}

// IsIllDefined reports whether err is an ill-defined quotient.
func IsIllDefined(err error) bool { return HasCode(err, ErrCodeIllDefinedQuotient) }
