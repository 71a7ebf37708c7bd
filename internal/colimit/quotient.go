package colimit

import (
	"github.com/roach88/finrel/internal/finset"
)

// PassToQuotient returns the unique q: Q -> Y with q . pi = h, where
// pi: X -> Q is a projection onto a range and h: X -> Y is constant on the
// classes of pi.
//
// It fails with ErrCodeIllDefinedQuotient if h separates two elements pi
// identifies, and with ErrCodeNonSurjectiveProjection if some element of Q
// has no preimage under pi.
func PassToQuotient(pi, h finset.Function) (*finset.Vector, error) {
	if !pi.Dom().Equal(h.Dom()) {
		return nil, newError(ErrCodeDomainMismatch, "projection domain %s differs from %s", pi.Dom(), h.Dom())
	}
	q := pi.Codom()
	if !q.IsRange() {
		return nil, newError(ErrCodeNonSurjectiveProjection, "projection codomain must be a range, got %s", q)
	}
	values := make([]int, q.Len())
	set := make([]bool, q.Len())
	for x := range pi.Dom().All() {
		k, v := pi.Apply(x), h.Apply(x)
		switch {
		case !set[k-1]:
			values[k-1], set[k-1] = v, true
		case values[k-1] != v:
			return nil, newError(ErrCodeIllDefinedQuotient, "class %d maps to both %d and %d", k, values[k-1], v)
		}
	}
	for k, ok := range set {
		if !ok {
			return nil, newError(ErrCodeNonSurjectiveProjection, "class %d has no preimage", k+1)
		}
	}
	return finset.NewVector(q, h.Codom(), values)
}
