package compiler

import (
	"fmt"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/schema"
)

// Validation error codes (E100-E199)
const (
	ErrUnsupportedType = "E100" // unsupported value passed to Validate

	// Schema errors (E101-E109)
	ErrSchemaIsolatedOb = "E101" // object-type with no morphisms or attributes

	// Instance errors (E110-E119)
	ErrInstanceIncomplete = "E110" // morphism or attribute value unset
	ErrInstanceEmpty      = "E111" // instance declares no parts
)

// ValidationError represents a declaration that compiled but is unusable
// or suspicious.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Warning bool   `json:"warning,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled declaration. Returns all problems found
// (does not fail-fast). Warnings do not make a declaration unusable.
func Validate(v any) []ValidationError {
	switch val := v.(type) {
	case *schema.Schema:
		return validateSchema(val)
	case *acset.Structure:
		return validateInstance(val)
	case *Specs:
		return validateSpecs(val)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported type: %T", v),
			Code:    ErrUnsupportedType,
		}}
	}
}

// HasErrors reports whether errs holds anything other than warnings.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.Warning {
			return true
		}
	}
	return false
}

func validateSchema(s *schema.Schema) []ValidationError {
	var errs []ValidationError
	if s.NumObs() < 2 {
		return nil
	}
	for id, name := range s.Obs() {
		ob := schema.ObID(id)
		if len(s.OutHoms(ob)) == 0 && len(s.InHoms(ob)) == 0 && len(s.AttrsOf(ob)) == 0 {
			errs = append(errs, ValidationError{
				Field:   "ob." + name,
				Message: "object-type is not connected to any morphism or attribute",
				Code:    ErrSchemaIsolatedOb,
				Warning: true,
			})
		}
	}
	return errs
}

func validateInstance(st *acset.Structure) []ValidationError {
	var errs []ValidationError
	total := 0
	for ob := range st.Schema().NumObs() {
		total += st.NParts(schema.ObID(ob))
	}
	if total == 0 {
		errs = append(errs, ValidationError{
			Field:   "parts",
			Message: "instance has no parts",
			Code:    ErrInstanceEmpty,
			Warning: true,
		})
	}
	if err := st.Validate(); err != nil {
		for _, e := range unjoin(err) {
			errs = append(errs, ValidationError{
				Field:   "instance",
				Message: e.Error(),
				Code:    ErrInstanceIncomplete,
			})
		}
	}
	return errs
}

func validateSpecs(specs *Specs) []ValidationError {
	var errs []ValidationError
	prefix := func(section, name string, inner []ValidationError) {
		for _, e := range inner {
			e.Field = section + "." + name + "." + e.Field
			errs = append(errs, e)
		}
	}
	for _, name := range Names(specs.Schemas) {
		prefix("schema", name, validateSchema(specs.Schemas[name]))
	}
	for _, name := range Names(specs.Instances) {
		prefix("instance", name, validateInstance(specs.Instances[name]))
	}
	return errs
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
