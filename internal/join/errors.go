package join

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes join errors.
type ErrorCode string

const (
	// ErrCodeCodomainMismatch indicates diagram functions with different
	// codomains.
	ErrCodeCodomainMismatch ErrorCode = "CODOMAIN_MISMATCH"

	// ErrCodeEmptyDiagram indicates a join over zero functions.
	ErrCodeEmptyDiagram ErrorCode = "EMPTY_DIAGRAM"

	// ErrCodeNotACone indicates legs passed to Universal that do not commute
	// with the diagram.
	ErrCodeNotACone ErrorCode = "NOT_A_CONE"
)

// Error is returned by Limit, Join and Cone.Universal.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err wraps a join Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var je *Error
	if errors.As(err, &je) {
		return je.Code == code
	}
	return false
}
