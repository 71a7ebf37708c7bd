package finset

import (
	"fmt"
	"slices"
	"sync"
)

// Function is a total function between two finite sets.
//
// Apply must only be called with elements of Dom(); implementations may
// panic otherwise.
type Function interface {
	Dom() Set
	Codom() Set
	Apply(x int) int
}

// Vector is a function on a range domain {1..n} stored as its value
// sequence: Apply(x) == values[x-1].
type Vector struct {
	values []int
	codom  Set

	indexed bool
	once    sync.Once
	index   preimageIndex
}

// NewVector builds a function dom -> codom from its value sequence.
// dom must be a range and len(values) must equal dom.Len(); every value must
// be an element of codom.
func NewVector(dom, codom Set, values []int) (*Vector, error) {
	if !dom.IsRange() {
		return nil, newError(ErrCodeNotRangeDomain, "vector domain must be a range, got %s", dom)
	}
	if len(values) != dom.Len() {
		return nil, newError(ErrCodeLengthMismatch, "declared domain size %d, got %d values", dom.Len(), len(values))
	}
	for i, v := range values {
		if !codom.Contains(v) {
			return nil, newError(ErrCodeValueOutOfRange, "value %d at position %d is not in %s", v, i+1, codom)
		}
	}
	return &Vector{values: slices.Clone(values), codom: codom}, nil
}

// NewIndexed is like NewVector but the result answers Preimage queries in
// amortized O(1). Choose it when many preimage lookups are expected.
func NewIndexed(dom, codom Set, values []int) (*Vector, error) {
	v, err := NewVector(dom, codom, values)
	if err != nil {
		return nil, err
	}
	v.indexed = true
	return v, nil
}

// MustVector is like NewVector but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustVector(dom, codom Set, values []int) *Vector {
	v, err := NewVector(dom, codom, values)
	if err != nil {
		panic(err)
	}
	return v
}

// MustIndexed is like NewIndexed but panics on error.
func MustIndexed(dom, codom Set, values []int) *Vector {
	v, err := NewIndexed(dom, codom, values)
	if err != nil {
		panic(err)
	}
	return v
}

// Dom returns {1..len(values)}.
func (v *Vector) Dom() Set { return Range(len(v.values)) }

// Codom returns the declared codomain.
func (v *Vector) Codom() Set { return v.codom }

// Apply returns the value at x.
func (v *Vector) Apply(x int) int { return v.values[x-1] }

// Len returns the domain size.
func (v *Vector) Len() int { return len(v.values) }

// Indexed reports whether the vector carries a preimage index.
func (v *Vector) Indexed() bool { return v.indexed }

// Preimage returns the sorted domain elements mapping to y. The returned
// slice is shared with the index and must not be modified.
func (v *Vector) Preimage(y int) ([]int, error) {
	if !v.indexed {
		return nil, newError(ErrCodeNotIndexed, "preimage of %d requested on a non-indexed vector", y)
	}
	v.once.Do(v.buildIndex)
	return v.index.lookup(y), nil
}

// WithIndex returns an indexed vector sharing v's values.
func (v *Vector) WithIndex() *Vector {
	if v.indexed {
		return v
	}
	return &Vector{values: v.values, codom: v.codom, indexed: true}
}

func (v *Vector) buildIndex() {
	v.index = newPreimageIndex(v.codom)
	for i, y := range v.values {
		v.index.add(y, i+1)
	}
}

// preimageIndex maps a codomain value to the ascending list of domain
// elements sent to it. Range codomains use a dense slice.
type preimageIndex struct {
	dense  [][]int
	sparse map[int][]int
}

func newPreimageIndex(codom Set) preimageIndex {
	if codom.IsRange() {
		return preimageIndex{dense: make([][]int, codom.Len()+1)}
	}
	return preimageIndex{sparse: make(map[int][]int, codom.Len())}
}

func (p *preimageIndex) add(y, x int) {
	if p.dense != nil {
		p.dense[y] = append(p.dense[y], x)
		return
	}
	p.sparse[y] = append(p.sparse[y], x)
}

func (p *preimageIndex) lookup(y int) []int {
	if p.dense != nil {
		if y < 0 || y >= len(p.dense) {
			return nil
		}
		return p.dense[y]
	}
	return p.sparse[y]
}

// Identity is the identity function on a set.
type Identity struct {
	set Set
}

// NewIdentity returns the identity on s.
func NewIdentity(s Set) Identity { return Identity{set: s} }

// Dom returns the underlying set.
func (id Identity) Dom() Set { return id.set }

// Codom returns the underlying set.
func (id Identity) Codom() Set { return id.set }

// Apply returns x.
func (id Identity) Apply(x int) int { return x }

// Rule is a function given by an arbitrary Go function, evaluated lazily.
// Use Force to materialize and validate it.
type Rule struct {
	dom, codom Set
	fn         func(int) int
}

// NewRule wraps fn as a function dom -> codom.
func NewRule(dom, codom Set, fn func(int) int) *Rule {
	return &Rule{dom: dom, codom: codom, fn: fn}
}

// Constant returns the function dom -> codom sending everything to y.
func Constant(dom, codom Set, y int) *Rule {
	return NewRule(dom, codom, func(int) int { return y })
}

// Dom returns the declared domain.
func (r *Rule) Dom() Set { return r.dom }

// Codom returns the declared codomain.
func (r *Rule) Codom() Set { return r.codom }

// Apply evaluates the rule at x.
func (r *Rule) Apply(x int) int { return r.fn(x) }

// String renders a function for diagnostics.
func String(f Function) string {
	if v, ok := f.(*Vector); ok {
		return fmt.Sprintf("FinFunction(%v, %d)", v.values, v.codom.Len())
	}
	return fmt.Sprintf("FinFunction(%T, %s -> %s)", f, f.Dom(), f.Codom())
}
