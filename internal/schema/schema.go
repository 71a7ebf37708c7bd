// Package schema defines the fixed typed graph that shapes a relational
// structure: object-types, morphism-types between them, attribute-types, and
// attribute-morphisms from object-types to attribute-types.
//
// A Schema is immutable once built. Names are resolved to dense integer IDs
// exactly once, in Build, and the per-object dispatch tables (outgoing
// morphisms, attributes) are precomputed so that search and encoding code
// never branches on type names at run time.
package schema

import (
	"errors"
	"fmt"
)

// ObID identifies an object-type within one Schema.
type ObID int

// HomID identifies a morphism-type within one Schema.
type HomID int

// AttrTypeID identifies an attribute-type within one Schema.
type AttrTypeID int

// AttrID identifies an attribute-morphism within one Schema.
type AttrID int

// Hom is a morphism-type Dom -> Codom.
type Hom struct {
	Name  string
	Dom   ObID
	Codom ObID
}

// Attr is an attribute-morphism from an object-type to an attribute-type.
type Attr struct {
	Name  string
	Dom   ObID
	Codom AttrTypeID
}

// Schema is a compiled schema. Use Builder to construct one.
type Schema struct {
	name      string
	obs       []string
	homs      []Hom
	attrTypes []string
	attrs     []Attr

	obIndex       map[string]ObID
	homIndex      map[string]HomID
	attrTypeIndex map[string]AttrTypeID
	attrIndex     map[string]AttrID

	outHoms   [][]HomID
	inHoms    [][]HomID
	obAttrs   [][]AttrID
	typeAttrs [][]AttrID
}

// Name returns the schema name (may be empty).
func (s *Schema) Name() string { return s.name }

// NumObs returns the number of object-types.
func (s *Schema) NumObs() int { return len(s.obs) }

// NumHoms returns the number of morphism-types.
func (s *Schema) NumHoms() int { return len(s.homs) }

// NumAttrTypes returns the number of attribute-types.
func (s *Schema) NumAttrTypes() int { return len(s.attrTypes) }

// NumAttrs returns the number of attribute-morphisms.
func (s *Schema) NumAttrs() int { return len(s.attrs) }

// Ob returns the name of an object-type.
func (s *Schema) Ob(id ObID) string { return s.obs[id] }

// Hom returns a morphism-type.
func (s *Schema) Hom(id HomID) Hom { return s.homs[id] }

// AttrType returns the name of an attribute-type.
func (s *Schema) AttrType(id AttrTypeID) string { return s.attrTypes[id] }

// Attr returns an attribute-morphism.
func (s *Schema) Attr(id AttrID) Attr { return s.attrs[id] }

// Obs returns the object-type names in declaration order.
func (s *Schema) Obs() []string { return append([]string(nil), s.obs...) }

// Homs returns the morphism-types in declaration order.
func (s *Schema) Homs() []Hom { return append([]Hom(nil), s.homs...) }

// AttrTypes returns the attribute-type names in declaration order.
func (s *Schema) AttrTypes() []string { return append([]string(nil), s.attrTypes...) }

// Attrs returns the attribute-morphisms in declaration order.
func (s *Schema) Attrs() []Attr { return append([]Attr(nil), s.attrs...) }

// ObID resolves an object-type name.
func (s *Schema) ObID(name string) (ObID, bool) {
	id, ok := s.obIndex[name]
	return id, ok
}

// HomID resolves a morphism-type name.
func (s *Schema) HomID(name string) (HomID, bool) {
	id, ok := s.homIndex[name]
	return id, ok
}

// AttrTypeID resolves an attribute-type name.
func (s *Schema) AttrTypeID(name string) (AttrTypeID, bool) {
	id, ok := s.attrTypeIndex[name]
	return id, ok
}

// AttrID resolves an attribute-morphism name.
func (s *Schema) AttrID(name string) (AttrID, bool) {
	id, ok := s.attrIndex[name]
	return id, ok
}

// OutHoms returns the morphism-types whose domain is ob, in declaration order.
// The slice is owned by the schema and must not be modified.
func (s *Schema) OutHoms(ob ObID) []HomID { return s.outHoms[ob] }

// InHoms returns the morphism-types whose codomain is ob.
func (s *Schema) InHoms(ob ObID) []HomID { return s.inHoms[ob] }

// AttrsOf returns the attribute-morphisms whose domain is ob.
func (s *Schema) AttrsOf(ob ObID) []AttrID { return s.obAttrs[ob] }

// AttrsOfType returns the attribute-morphisms whose codomain is at.
func (s *Schema) AttrsOfType(at AttrTypeID) []AttrID { return s.typeAttrs[at] }

// Equal reports whether two schemas declare the same types in the same order.
func (s *Schema) Equal(t *Schema) bool {
	if s == t {
		return true
	}
	if s == nil || t == nil {
		return false
	}
	if len(s.obs) != len(t.obs) || len(s.homs) != len(t.homs) ||
		len(s.attrTypes) != len(t.attrTypes) || len(s.attrs) != len(t.attrs) {
		return false
	}
	for i := range s.obs {
		if s.obs[i] != t.obs[i] {
			return false
		}
	}
	for i := range s.homs {
		if s.homs[i] != t.homs[i] {
			return false
		}
	}
	for i := range s.attrTypes {
		if s.attrTypes[i] != t.attrTypes[i] {
			return false
		}
	}
	for i := range s.attrs {
		if s.attrs[i] != t.attrs[i] {
			return false
		}
	}
	return true
}

// ErrorCode categorizes schema construction errors.
type ErrorCode string

const (
	// ErrCodeDuplicateName indicates a name declared twice.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeUnknownOb indicates a reference to an undeclared object-type.
	ErrCodeUnknownOb ErrorCode = "UNKNOWN_OB"

	// ErrCodeUnknownAttrType indicates a reference to an undeclared attribute-type.
	ErrCodeUnknownAttrType ErrorCode = "UNKNOWN_ATTR_TYPE"
)

// Error is returned by Builder.Build.
type Error struct {
	Code    ErrorCode
	Name    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Name)
}

// IsSchemaError returns true if err is a schema Error with the given code.
func IsSchemaError(err error, code ErrorCode) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}
