package join

import (
	"slices"

	"github.com/roach88/finrel/internal/finset"
)

// Run joins fs with alg and returns the tuples in the algorithm's own order.
func Run(fs []finset.Function, alg Algorithm) ([]Tuple, error) {
	if err := CheckDiagram(fs); err != nil {
		return nil, err
	}
	switch alg {
	case NestedLoop:
		return NestedLoopJoin(fs), nil
	case SortMerge:
		return SortMergeJoin(fs), nil
	default:
		return HashJoin(fs), nil
	}
}

// CheckDiagram reports an empty diagram or functions with differing codomains.
func CheckDiagram(fs []finset.Function) error {
	if len(fs) == 0 {
		return newError(ErrCodeEmptyDiagram, "join needs at least one function")
	}
	codom := fs[0].Codom()
	for i, f := range fs[1:] {
		if !f.Codom().Equal(codom) {
			return newError(ErrCodeCodomainMismatch, "function %d has codomain %s, function 1 has %s", i+2, f.Codom(), codom)
		}
	}
	return nil
}

// Cone is a computed limit: the apex {1..n} indexes the joined tuples in
// lexicographic order and Legs[i] projects each tuple onto the i-th domain.
type Cone struct {
	Apex    finset.Set
	Legs    []*finset.Vector
	diagram []finset.Function
	tuples  []Tuple
}

// Limit computes the limit of fs with alg. The result does not depend on
// alg.
func Limit(fs []finset.Function, alg Algorithm) (*Cone, error) {
	tuples, err := Run(fs, alg)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(tuples, slices.Compare)

	apex := finset.Range(len(tuples))
	legs := make([]*finset.Vector, len(fs))
	for i, f := range fs {
		values := make([]int, len(tuples))
		for j, t := range tuples {
			values[j] = t[i]
		}
		leg, err := finset.NewVector(apex, f.Dom(), values)
		if err != nil {
			return nil, err
		}
		legs[i] = leg
	}
	return &Cone{Apex: apex, Legs: legs, diagram: slices.Clone(fs), tuples: tuples}, nil
}

// Pullback is the limit of the cospan f, g.
func Pullback(f, g finset.Function, alg Algorithm) (*Cone, error) {
	return Limit([]finset.Function{f, g}, alg)
}

// Product is the limit of the sets sets, each mapped to the one-point set.
func Product(sets ...finset.Set) (*Cone, error) {
	point := finset.Range(1)
	fs := make([]finset.Function, len(sets))
	for i, s := range sets {
		fs[i] = finset.Constant(s, point, 1)
	}
	return Limit(fs, NestedLoop)
}

// Tuples returns a copy of the joined tuples in apex order.
func (c *Cone) Tuples() []Tuple {
	out := make([]Tuple, len(c.tuples))
	for i, t := range c.tuples {
		out[i] = slices.Clone(t)
	}
	return out
}

// Len returns the number of tuples.
func (c *Cone) Len() int { return len(c.tuples) }

// Diagram returns the functions the cone is over.
func (c *Cone) Diagram() []finset.Function { return slices.Clone(c.diagram) }

// Universal returns the unique function u: A -> Apex with Legs[i] . u = legs[i]
// for a competing cone legs[i]: A -> X_i over the same diagram.
func (c *Cone) Universal(legs []finset.Function) (*finset.Vector, error) {
	if len(legs) != len(c.diagram) {
		return nil, newError(ErrCodeNotACone, "expected %d legs, got %d", len(c.diagram), len(legs))
	}
	apexDom := legs[0].Dom()
	for i, leg := range legs {
		if !leg.Dom().Equal(apexDom) {
			return nil, newError(ErrCodeNotACone, "leg %d has domain %s, leg 1 has %s", i+1, leg.Dom(), apexDom)
		}
		if !leg.Codom().Equal(c.diagram[i].Dom()) {
			return nil, newError(ErrCodeNotACone, "leg %d lands in %s, not %s", i+1, leg.Codom(), c.diagram[i].Dom())
		}
	}
	if !apexDom.IsRange() {
		return nil, newError(ErrCodeNotACone, "competing apex must be a range, got %s", apexDom)
	}

	values := make([]int, 0, apexDom.Len())
	t := make(Tuple, len(legs))
	for a := range apexDom.All() {
		for i, leg := range legs {
			t[i] = leg.Apply(a)
		}
		j, found := slices.BinarySearchFunc(c.tuples, t, slices.Compare)
		if !found {
			return nil, newError(ErrCodeNotACone, "legs disagree on the diagram at element %d", a)
		}
		values = append(values, j+1)
	}
	return finset.NewVector(apexDom, c.Apex, values)
}
