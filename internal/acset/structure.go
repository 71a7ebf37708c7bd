package acset

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// Accessor is the read interface of a relational structure.
//
// Subpart returns 0 for a morphism value that has not been set. Incident
// returns the ascending parts x with Subpart(h, x) == y; implementations are
// expected to keep it indexed.
type Accessor interface {
	Schema() *schema.Schema
	NParts(ob schema.ObID) int
	Subpart(h schema.HomID, x int) int
	Attr(a schema.AttrID, x int) ir.IRValue
	Incident(h schema.HomID, y int) []int
}

// Structure is a mutable, in-memory relational structure.
// It is not safe for concurrent mutation; concurrent reads are safe.
type Structure struct {
	schema *schema.Schema
	nparts []int
	homs   [][]int
	attrs  [][]ir.IRValue

	mu       sync.Mutex
	incident [][][]int // per hom, lazily built, cleared on mutation
}

var _ Accessor = (*Structure)(nil)

// New returns an empty structure over s.
func New(s *schema.Schema) *Structure {
	return &Structure{
		schema: s,
		nparts: make([]int, s.NumObs()),
		homs:   make([][]int, s.NumHoms()),
		attrs:  make([][]ir.IRValue, s.NumAttrs()),
	}
}

// Schema returns the structure's schema.
func (st *Structure) Schema() *schema.Schema { return st.schema }

// NParts returns the number of parts of ob.
func (st *Structure) NParts(ob schema.ObID) int { return st.nparts[ob] }

// Parts returns the part set {1..NParts(ob)}.
func (st *Structure) Parts(ob schema.ObID) finset.Set { return finset.Range(st.nparts[ob]) }

// AddParts appends n parts to ob and returns the id of the first new part.
// Morphism values of the new parts are unset (0); attribute values are nil.
func (st *Structure) AddParts(ob schema.ObID, n int) int {
	first := st.nparts[ob] + 1
	st.nparts[ob] += n
	for _, h := range st.schema.OutHoms(ob) {
		st.homs[h] = append(st.homs[h], make([]int, n)...)
	}
	for _, a := range st.schema.AttrsOf(ob) {
		st.attrs[a] = append(st.attrs[a], make([]ir.IRValue, n)...)
	}
	st.invalidate()
	return first
}

// AddPart appends one part to ob and returns its id.
func (st *Structure) AddPart(ob schema.ObID) int { return st.AddParts(ob, 1) }

// SetSubpart sets h(x) = y.
func (st *Structure) SetSubpart(h schema.HomID, x, y int) error {
	hom := st.schema.Hom(h)
	if x < 1 || x > st.nparts[hom.Dom] {
		return newError(ErrCodePartOutOfRange, "%s: part %d not in %s (%d parts)", hom.Name, x, st.schema.Ob(hom.Dom), st.nparts[hom.Dom])
	}
	if y < 1 || y > st.nparts[hom.Codom] {
		return newError(ErrCodePartOutOfRange, "%s: value %d not in %s (%d parts)", hom.Name, y, st.schema.Ob(hom.Codom), st.nparts[hom.Codom])
	}
	st.homs[h][x-1] = y
	st.invalidate()
	return nil
}

// SetSubparts sets every value of h at once. len(values) must equal the
// number of parts of h's domain.
func (st *Structure) SetSubparts(h schema.HomID, values []int) error {
	hom := st.schema.Hom(h)
	if len(values) != st.nparts[hom.Dom] {
		return newError(ErrCodeLengthMismatch, "%s: %s has %d parts, got %d values", hom.Name, st.schema.Ob(hom.Dom), st.nparts[hom.Dom], len(values))
	}
	for i, y := range values {
		if err := st.SetSubpart(h, i+1, y); err != nil {
			return err
		}
	}
	return nil
}

// SetAttr sets a(x) = v.
func (st *Structure) SetAttr(a schema.AttrID, x int, v ir.IRValue) error {
	attr := st.schema.Attr(a)
	if x < 1 || x > st.nparts[attr.Dom] {
		return newError(ErrCodePartOutOfRange, "%s: part %d not in %s (%d parts)", attr.Name, x, st.schema.Ob(attr.Dom), st.nparts[attr.Dom])
	}
	if v == nil {
		return newError(ErrCodeMissingValue, "%s: nil attribute value at part %d", attr.Name, x)
	}
	st.attrs[a][x-1] = v
	return nil
}

// SetAttrs sets every value of a at once.
func (st *Structure) SetAttrs(a schema.AttrID, values []ir.IRValue) error {
	attr := st.schema.Attr(a)
	if len(values) != st.nparts[attr.Dom] {
		return newError(ErrCodeLengthMismatch, "%s: %s has %d parts, got %d values", attr.Name, st.schema.Ob(attr.Dom), st.nparts[attr.Dom], len(values))
	}
	for i, v := range values {
		if err := st.SetAttr(a, i+1, v); err != nil {
			return err
		}
	}
	return nil
}

// Subpart returns h(x), or 0 if unset.
func (st *Structure) Subpart(h schema.HomID, x int) int { return st.homs[h][x-1] }

// Attr returns a(x), or nil if unset.
func (st *Structure) Attr(a schema.AttrID, x int) ir.IRValue { return st.attrs[a][x-1] }

// Incident returns the parts x with h(x) == y, ascending. The slice is shared
// with the structure's index and must not be modified.
func (st *Structure) Incident(h schema.HomID, y int) []int {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.incident == nil {
		st.incident = make([][][]int, st.schema.NumHoms())
	}
	idx := st.incident[h]
	if idx == nil {
		idx = make([][]int, st.nparts[st.schema.Hom(h).Codom]+1)
		for x, v := range st.homs[h] {
			idx[v] = append(idx[v], x+1)
		}
		st.incident[h] = idx
	}
	if y < 0 || y >= len(idx) {
		return nil
	}
	return idx[y]
}

func (st *Structure) invalidate() {
	st.mu.Lock()
	st.incident = nil
	st.mu.Unlock()
}

// HomFunction returns h as an indexed finite function between part sets.
func (st *Structure) HomFunction(h schema.HomID) (*finset.Vector, error) {
	hom := st.schema.Hom(h)
	return finset.NewIndexed(st.Parts(hom.Dom), st.Parts(hom.Codom), st.homs[h])
}

// AttrValues returns a copy of the values of a.
func (st *Structure) AttrValues(a schema.AttrID) []ir.IRValue {
	return slices.Clone(st.attrs[a])
}

// Validate checks that every morphism is total and every attribute is set.
func (st *Structure) Validate() error {
	var errs []error
	for id, hom := range st.schema.Homs() {
		for x, y := range st.homs[id] {
			if y < 1 || y > st.nparts[hom.Codom] {
				errs = append(errs, newError(ErrCodeIncomplete, "%s(%d) is unset", hom.Name, x+1))
				break
			}
		}
	}
	for id, attr := range st.schema.Attrs() {
		for x, v := range st.attrs[id] {
			if v == nil {
				errs = append(errs, newError(ErrCodeIncomplete, "%s(%d) is unset", attr.Name, x+1))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// Copy returns a deep copy sharing only the (immutable) schema.
func (st *Structure) Copy() *Structure {
	out := &Structure{
		schema: st.schema,
		nparts: slices.Clone(st.nparts),
		homs:   make([][]int, len(st.homs)),
		attrs:  make([][]ir.IRValue, len(st.attrs)),
	}
	for i, col := range st.homs {
		out.homs[i] = slices.Clone(col)
	}
	for i, col := range st.attrs {
		out.attrs[i] = slices.Clone(col)
	}
	return out
}

// Equal reports whether two structures have equal schemas, part counts,
// morphism values and attribute values.
func (st *Structure) Equal(other *Structure) bool {
	if !st.schema.Equal(other.schema) || !slices.Equal(st.nparts, other.nparts) {
		return false
	}
	for i := range st.homs {
		if !slices.Equal(st.homs[i], other.homs[i]) {
			return false
		}
	}
	for i := range st.attrs {
		if !slices.EqualFunc(st.attrs[i], other.attrs[i], ir.Equal) {
			return false
		}
	}
	return true
}

// String renders a short summary for diagnostics.
func (st *Structure) String() string {
	s := st.schema.Name() + "{"
	for ob, n := range st.nparts {
		if ob > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%d", st.schema.Ob(schema.ObID(ob)), n)
	}
	return s + "}"
}
