package acset

import (
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// Encode renders the structure as an IR object:
//
//	{"schema": name, "parts": {ob: n}, "hom": {h: [..]}, "attr": {a: [..]}}
//
// Unset attribute values encode as null, which canonical encoding rejects.
func (st *Structure) Encode() ir.IRObject {
	s := st.schema
	parts := make(ir.IRObject, s.NumObs())
	for ob, name := range s.Obs() {
		parts[name] = ir.IRInt(st.nparts[ob])
	}
	homs := make(ir.IRObject, s.NumHoms())
	for h, hom := range s.Homs() {
		homs[hom.Name] = ir.IntArray(st.homs[h])
	}
	attrs := make(ir.IRObject, s.NumAttrs())
	for a, attr := range s.Attrs() {
		col := make(ir.IRArray, len(st.attrs[a]))
		for i, v := range st.attrs[a] {
			if v == nil {
				v = ir.IRNull{}
			}
			col[i] = v
		}
		attrs[attr.Name] = col
	}
	return ir.IRObject{
		"schema": ir.IRString(s.Name()),
		"parts":  parts,
		"hom":    homs,
		"attr":   attrs,
	}
}

// Hash returns the content hash of the encoded structure.
// The structure must be complete.
func (st *Structure) Hash() (string, error) {
	if err := st.Validate(); err != nil {
		return "", err
	}
	return ir.ContentHash(ir.DomainStructure, st.Encode())
}

// Named wraps a structure with name-based mutators. Compiled inputs
// (CUE files, YAML scenarios) address the schema by name.
type Named struct {
	*Structure
}

// WithNames returns a name-addressed view of st.
func (st *Structure) WithNames() Named { return Named{st} }

// AddParts adds n parts to the object-type called ob.
func (n Named) AddParts(ob string, count int) (int, error) {
	id, ok := n.schema.ObID(ob)
	if !ok {
		return 0, newError(ErrCodeUnknownName, "unknown object-type %q", ob)
	}
	return n.Structure.AddParts(id, count), nil
}

// SetSubparts sets every value of the morphism called hom.
func (n Named) SetSubparts(hom string, values []int) error {
	id, ok := n.schema.HomID(hom)
	if !ok {
		return newError(ErrCodeUnknownName, "unknown morphism %q", hom)
	}
	return n.Structure.SetSubparts(id, values)
}

// SetAttrs sets every value of the attribute called attr.
func (n Named) SetAttrs(attr string, values []ir.IRValue) error {
	id, ok := n.schema.AttrID(attr)
	if !ok {
		return newError(ErrCodeUnknownName, "unknown attribute %q", attr)
	}
	return n.Structure.SetAttrs(id, values)
}

// NParts returns the part count of the object-type called ob, or 0.
func (n Named) NParts(ob string) int {
	id, ok := n.schema.ObID(ob)
	if !ok {
		return 0
	}
	return n.Structure.NParts(id)
}

// Subparts returns a copy of the values of the morphism called hom.
func (n Named) Subparts(hom string) []int {
	id, ok := n.schema.HomID(hom)
	if !ok {
		return nil
	}
	return append([]int(nil), n.homs[id]...)
}

// MustOb resolves an object-type name, panicking if it is unknown.
func MustOb(s *schema.Schema, name string) schema.ObID {
	id, ok := s.ObID(name)
	if !ok {
		panic("acset: unknown object-type " + name)
	}
	return id
}

// MustHom resolves a morphism name, panicking if it is unknown.
func MustHom(s *schema.Schema, name string) schema.HomID {
	id, ok := s.HomID(name)
	if !ok {
		panic("acset: unknown morphism " + name)
	}
	return id
}

// MustAttr resolves an attribute name, panicking if it is unknown.
func MustAttr(s *schema.Schema, name string) schema.AttrID {
	id, ok := s.AttrID(name)
	if !ok {
		panic("acset: unknown attribute " + name)
	}
	return id
}
