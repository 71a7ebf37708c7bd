package acset

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes structure errors.
type ErrorCode string

const (
	// ErrCodePartOutOfRange indicates a part id outside 1..n.
	ErrCodePartOutOfRange ErrorCode = "PART_OUT_OF_RANGE"

	// ErrCodeLengthMismatch indicates a column of the wrong length.
	ErrCodeLengthMismatch ErrorCode = "LENGTH_MISMATCH"

	// ErrCodeMissingValue indicates a nil attribute value.
	ErrCodeMissingValue ErrorCode = "MISSING_VALUE"

	// ErrCodeIncomplete indicates a morphism or attribute that is not total.
	ErrCodeIncomplete ErrorCode = "INCOMPLETE"

	// ErrCodeUnknownName indicates a name the schema does not declare.
	ErrCodeUnknownName ErrorCode = "UNKNOWN_NAME"
)

// Error is returned by structure mutators and Validate.
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

// HasCode reports whether err wraps an acset Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
