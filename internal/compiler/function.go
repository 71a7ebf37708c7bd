package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/finrel/internal/finset"
)

// CompileFunction parses a named function declaration.
//
//	function: f: { codom: 3, values: [1, 2, 2, 3] }
//
// The domain is 1..len(values). The result carries a preimage index so it
// can drive a hash join.
func CompileFunction(v cue.Value) (*finset.Vector, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	name := label(v)

	cv := v.LookupPath(cue.ParsePath("codom"))
	if !cv.Exists() {
		return nil, errorf(name+".codom", v.Pos(), "codom is required")
	}
	if cv.Kind() != cue.IntKind {
		return nil, errorf(name+".codom", cv.Pos(), "expected int, got %v", cv.Kind())
	}
	codom, err := cv.Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if codom < 0 {
		return nil, errorf(name+".codom", cv.Pos(), "codomain size must be non-negative, got %d", codom)
	}

	vv := v.LookupPath(cue.ParsePath("values"))
	if !vv.Exists() {
		return nil, errorf(name+".values", v.Pos(), "values is required")
	}
	values, err := intList(vv, name+".values")
	if err != nil {
		return nil, err
	}

	f, err := finset.NewIndexed(finset.Range(len(values)), finset.Range(int(codom)), values)
	if err != nil {
		return nil, errorf(name+".values", vv.Pos(), "%v", err)
	}
	return f, nil
}
