package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// CompileInstance parses a CUE value into a structure over one of schemas.
//
//	instance: Triangle: {
//	    schema: "Graph"
//	    parts: { V: 3, E: 3 }
//	    hom:  { src: [1, 2, 3], tgt: [2, 3, 1] }
//	}
//
// Morphisms or attributes left out stay unset; Validate reports them.
func CompileInstance(v cue.Value, schemas map[string]*schema.Schema) (*acset.Structure, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	name, err := stringField(v, label(v), "schema")
	if err != nil {
		return nil, err
	}
	s, ok := schemas[name]
	if !ok {
		return nil, errorf("schema", v.LookupPath(cue.ParsePath("schema")).Pos(), "unknown schema %q", name)
	}

	st := acset.New(s)
	named := st.WithNames()

	if err := eachField(v, "parts", func(ob string, fv cue.Value) error {
		if fv.Kind() != cue.IntKind {
			return errorf("parts."+ob, fv.Pos(), "expected int, got %v", fv.Kind())
		}
		n, err := fv.Int64()
		if err != nil {
			return formatCUEError(err)
		}
		if n < 0 {
			return errorf("parts."+ob, fv.Pos(), "part count must be non-negative, got %d", n)
		}
		if _, err := named.AddParts(ob, int(n)); err != nil {
			return errorf("parts."+ob, fv.Pos(), "%v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachField(v, "hom", func(hom string, fv cue.Value) error {
		values, err := intList(fv, "hom."+hom)
		if err != nil {
			return err
		}
		if err := named.SetSubparts(hom, values); err != nil {
			return errorf("hom."+hom, fv.Pos(), "%v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := eachField(v, "attr", func(attr string, fv cue.Value) error {
		iter, err := fv.List()
		if err != nil {
			return formatCUEError(err)
		}
		var values []ir.IRValue
		for iter.Next() {
			val, err := irValue(iter.Value())
			if err != nil {
				return err
			}
			values = append(values, val)
		}
		if err := named.SetAttrs(attr, values); err != nil {
			return errorf("attr."+attr, fv.Pos(), "%v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return st, nil
}

// eachField calls fn for every field of the optional struct v.field.
func eachField(v cue.Value, field string, fn func(name string, fv cue.Value) error) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	iter, err := fv.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Label(), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

// irValue converts a concrete CUE value to an IR value.
// Floats and null are rejected.
func irValue(v cue.Value) (ir.IRValue, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRString(s), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRInt(n), nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.IRBool(b), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.IRArray{}
		for iter.Next() {
			elem, err := irValue(iter.Value())
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		return arr, nil
	case cue.StructKind:
		obj := ir.IRObject{}
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			elem, err := irValue(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = elem
		}
		return obj, nil
	case cue.FloatKind:
		return nil, errorf("value", v.Pos(), "floats are forbidden, use int instead")
	case cue.NullKind:
		return nil, errorf("value", v.Pos(), "null is forbidden")
	default:
		return nil, errorf("value", v.Pos(), "value must be concrete, got %v", v.IncompleteKind())
	}
}
