package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/finrel/internal/schema"
)

// CompileSchema parses a CUE value into a schema.
//
// The value should be the schema struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`schema: Graph: { ob: ["V", "E"], ... }`)
//	s, err := CompileSchema(v.LookupPath(cue.ParsePath("schema.Graph")))
//
// Morphisms and attributes keep their declaration order, which fixes the
// compiled IDs.
func CompileSchema(v cue.Value) (*schema.Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	b := schema.NewBuilder(label(v))

	obs, err := stringList(v, "ob")
	if err != nil {
		return nil, err
	}
	if len(obs) == 0 {
		return nil, errorf("ob", v.Pos(), "at least one object-type is required")
	}
	b.AddOb(obs...)

	attrTypes, err := stringList(v, "attrtype")
	if err != nil {
		return nil, err
	}
	b.AddAttrType(attrTypes...)

	if err := eachArrow(v, "hom", func(name, dom, codom string) { b.AddHom(name, dom, codom) }); err != nil {
		return nil, err
	}
	if err := eachArrow(v, "attr", func(name, dom, codom string) { b.AddAttr(name, dom, codom) }); err != nil {
		return nil, err
	}

	s, err := b.Build()
	if err != nil {
		return nil, &CompileError{Field: "schema", Message: err.Error(), Pos: v.Pos()}
	}
	return s, nil
}

// eachArrow walks a struct of {dom, codom} declarations in order.
func eachArrow(v cue.Value, field string, add func(name, dom, codom string)) error {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil
	}
	iter, err := fv.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		decl := iter.Value()
		dom, err := stringField(decl, field+"."+name, "dom")
		if err != nil {
			return err
		}
		codom, err := stringField(decl, field+"."+name, "codom")
		if err != nil {
			return err
		}
		add(name, dom, codom)
	}
	return nil
}

// label returns the last selector of v's path.
func label(v cue.Value) string {
	sels := v.Path().Selectors()
	if len(sels) == 0 {
		return ""
	}
	return sels[len(sels)-1].String()
}

func stringField(v cue.Value, ctx, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", errorf(ctx+"."+field, v.Pos(), "%s is required", field)
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// stringList reads an optional list of strings.
func stringList(v cue.Value, field string) ([]string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	iter, err := fv.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// intList reads a list of integers. Floats are rejected with their position.
func intList(v cue.Value, field string) ([]int, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []int
	for iter.Next() {
		elem := iter.Value()
		if k := elem.Kind(); k != cue.IntKind {
			return nil, errorf(field, elem.Pos(), "expected int, got %v", k)
		}
		n, err := elem.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}
