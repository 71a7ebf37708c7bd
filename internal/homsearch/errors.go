package homsearch

import (
	"errors"
	"fmt"
)

// ErrCodeConfiguration is the code of every ConfigError.
const ErrCodeConfiguration = "CONFIGURATION_ERROR"

// ConfigError reports a malformed search configuration. It is raised before
// any search is performed.
//
// Configuration errors include:
//   - An object-type unknown to the schema in Monic, Iso or Initial
//   - An attribute-type unknown to the schema in TypeComponents
//   - An Initial entry whose part is out of range
//   - Domain and codomain structures over different schemas
//   - A structure with an unset morphism or attribute value
type ConfigError struct {
	// Code is always ErrCodeConfiguration.
	Code string

	// Field names the offending option ("monic", "iso", "initial", ...).
	Field string

	// Message is a human-readable description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error { return e.Err }

func configError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: ErrCodeConfiguration, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError returns true if err is or wraps a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
