package finset

import "slices"

// Compose returns g after f (x -> g(f(x))). f's codomain must equal g's domain.
//
// Vector inputs compose into a Vector by direct lookup; identities are
// absorbed; anything else composes lazily into a Rule.
func Compose(f, g Function) (Function, error) {
	if !f.Codom().Equal(g.Dom()) {
		return nil, newError(ErrCodeCodomainMismatch, "cannot compose: codomain %s does not match domain %s", f.Codom(), g.Dom())
	}
	if _, ok := f.(Identity); ok {
		return g, nil
	}
	if _, ok := g.(Identity); ok {
		return f, nil
	}
	fv, fok := f.(*Vector)
	gv, gok := g.(*Vector)
	if fok && gok {
		values := make([]int, len(fv.values))
		for i, y := range fv.values {
			values[i] = gv.values[y-1]
		}
		return &Vector{values: values, codom: gv.codom}, nil
	}
	return NewRule(f.Dom(), g.Codom(), func(x int) int { return g.Apply(f.Apply(x)) }), nil
}

// MustCompose is like Compose but panics on error.
func MustCompose(f, g Function) Function {
	h, err := Compose(f, g)
	if err != nil {
		panic(err)
	}
	return h
}

// Force materializes f as a Vector by evaluating it over its whole domain.
// Vectors are returned unchanged. The domain must be a range.
func Force(f Function) (*Vector, error) {
	if v, ok := f.(*Vector); ok {
		return v, nil
	}
	dom := f.Dom()
	if !dom.IsRange() {
		return nil, newError(ErrCodeNotRangeDomain, "cannot force function on %s", dom)
	}
	values := make([]int, dom.Len())
	for i := range values {
		values[i] = f.Apply(i + 1)
	}
	return NewVector(dom, f.Codom(), values)
}

// Values returns f evaluated over its domain, in domain iteration order.
func Values(f Function) []int {
	if v, ok := f.(*Vector); ok {
		return slices.Clone(v.values)
	}
	out := make([]int, 0, f.Dom().Len())
	for x := range f.Dom().All() {
		out = append(out, f.Apply(x))
	}
	return out
}

// Preimage returns the domain elements of f mapping to y.
//
// Only indexed Vectors and Identities answer preimage queries; asking any
// other function is a caller error reported as ErrCodeNotIndexed. Indexing is
// opt-in, see NewIndexed and Vector.WithIndex.
func Preimage(f Function, y int) ([]int, error) {
	switch fn := f.(type) {
	case *Vector:
		return fn.Preimage(y)
	case Identity:
		if fn.set.Contains(y) {
			return []int{y}, nil
		}
		return nil, nil
	default:
		return nil, newError(ErrCodeNotIndexed, "preimage requested on non-indexed %T", f)
	}
}

// IsInjective reports whether f sends distinct elements to distinct values.
func IsInjective(f Function) bool {
	seen := make(map[int]struct{}, f.Dom().Len())
	for x := range f.Dom().All() {
		y := f.Apply(x)
		if _, dup := seen[y]; dup {
			return false
		}
		seen[y] = struct{}{}
	}
	return true
}

// IsSurjective reports whether every codomain element has a preimage.
func IsSurjective(f Function) bool {
	hit := make(map[int]struct{}, f.Codom().Len())
	for x := range f.Dom().All() {
		hit[f.Apply(x)] = struct{}{}
	}
	return len(hit) == f.Codom().Len()
}

// Equal reports whether f and g have equal domains, codomains and values.
func Equal(f, g Function) bool {
	if !f.Dom().Equal(g.Dom()) || !f.Codom().Equal(g.Codom()) {
		return false
	}
	for x := range f.Dom().All() {
		if f.Apply(x) != g.Apply(x) {
			return false
		}
	}
	return true
}
