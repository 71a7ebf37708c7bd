package finset

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes finite set algebra errors.
type ErrorCode string

const (
	// ErrCodeLengthMismatch indicates a value sequence whose length differs
	// from the declared domain size.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"

	// ErrCodeValueOutOfRange indicates a value outside the declared codomain.
	ErrCodeValueOutOfRange ErrorCode = "VALUE_OUT_OF_RANGE"

	// ErrCodeCodomainMismatch indicates two functions that cannot be composed
	// or compared because their sets disagree.
	ErrCodeCodomainMismatch ErrorCode = "CODOMAIN_MISMATCH"

	// ErrCodeNotIndexed indicates a preimage query against a function that
	// carries no preimage index.
	ErrCodeNotIndexed ErrorCode = "NOT_INDEXED"

	// ErrCodeNotRangeDomain indicates a vector operation on a function whose
	// domain is an explicit set rather than {1..n}.
	ErrCodeNotRangeDomain ErrorCode = "NOT_RANGE_DOMAIN"
)

// Error is returned by constructors and operations in this package.
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

// HasCode reports whether err (or anything it wraps) is a finset Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// IsLengthMismatch returns true if the error is a length mismatch error.
func IsLengthMismatch(err error) bool {
	return HasCode(err, ErrCodeLengthMismatch)
}

// IsNotIndexed returns true if the error is a missing preimage index error.
func IsNotIndexed(err error) bool {
	return HasCode(err, ErrCodeNotIndexed)
}
