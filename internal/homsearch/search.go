package homsearch

import (
	"log/slog"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// Visitor receives each complete homomorphism. Returning true stops the
// search.
type Visitor func(h *Homomorphism) bool

// state is the mutable backtracking arena of one search call.
//
// assign[c][x-1] is the codomain part assigned to domain part x of
// object-type c, or 0. depth[c][x-1] is the search depth that committed it.
// inverse[c], tracked only for injective object-types, maps codomain parts
// back to domain parts and is a partial inverse of assign[c].
type state struct {
	dom, codom acset.Accessor
	schema     *schema.Schema
	cfg        *config

	// domHoms[h] and codomHoms[h] are morphism-type h of each structure.
	domHoms, codomHoms []finset.Function

	assign  [][]int
	depth   [][]int
	inverse [][]int
}

func newState(x, y acset.Accessor, cfg *config, domHoms, codomHoms []finset.Function) *state {
	s := x.Schema()
	st := &state{
		dom:       x,
		codom:     y,
		schema:    s,
		cfg:       cfg,
		domHoms:   domHoms,
		codomHoms: codomHoms,
		assign:    make([][]int, s.NumObs()),
		depth:     make([][]int, s.NumObs()),
		inverse:   make([][]int, s.NumObs()),
	}
	for ob := range s.NumObs() {
		id := schema.ObID(ob)
		st.assign[ob] = make([]int, x.NParts(id))
		st.depth[ob] = make([]int, x.NParts(id))
		if cfg.injective[ob] {
			st.inverse[ob] = make([]int, y.NParts(id))
		}
	}
	return st
}

// Search runs the solver and calls visit with every homomorphism X -> Y
// satisfying opts, in search order, until visit returns true. Each h passed
// to visit is an independent copy.
func Search(x, y acset.Accessor, opts Options, visit Visitor) error {
	cfg, err := opts.resolve(x, y)
	if err != nil {
		return err
	}
	domHoms, err := morphisms("domain", x)
	if err != nil {
		return err
	}
	codomHoms, err := morphisms("codomain", y)
	if err != nil {
		return err
	}
	if !cfg.prefilter(x, y) {
		return nil
	}
	st := newState(x, y, cfg, domHoms, codomHoms)
	for _, sd := range cfg.initial {
		if !st.assignElem(0, sd.ob, sd.x, sd.y) {
			cfg.logger.Debug("initial assignment is inconsistent",
				"ob", st.schema.Ob(sd.ob), "x", sd.x, "y", sd.y)
			return nil
		}
	}
	st.backtrack(1, visit)
	return nil
}

// FindOne returns the first homomorphism found, or nil if none exists.
func FindOne(x, y acset.Accessor, opts Options) (*Homomorphism, error) {
	var found *Homomorphism
	err := Search(x, y, opts, func(h *Homomorphism) bool {
		found = h
		return true
	})
	return found, err
}

// FindAll returns every homomorphism, in search order.
func FindAll(x, y acset.Accessor, opts Options) ([]*Homomorphism, error) {
	results := []*Homomorphism{}
	err := Search(x, y, opts, func(h *Homomorphism) bool {
		results = append(results, h)
		return false
	})
	if err != nil {
		return nil, err
	}
	logger(opts).Debug("homomorphism search complete",
		"schema", x.Schema().Name(), "results", len(results))
	return results, nil
}

// Exists reports whether any homomorphism exists.
func Exists(x, y acset.Accessor, opts Options) (bool, error) {
	h, err := FindOne(x, y, opts)
	return h != nil, err
}

// Count returns the number of homomorphisms without retaining them.
func Count(x, y acset.Accessor, opts Options) (int, error) {
	n := 0
	err := Search(x, y, opts, func(*Homomorphism) bool {
		n++
		return false
	})
	return n, err
}

// validator is implemented by accessors that can report unset values.
type validator interface {
	Validate() error
}

// homFunctioner is implemented by accessors that hand out morphism-types as
// finite functions directly.
type homFunctioner interface {
	HomFunction(h schema.HomID) (*finset.Vector, error)
}

// morphisms checks that a is complete and returns each of its morphism-types
// as a total function between part sets.
func morphisms(field string, a acset.Accessor) ([]finset.Function, error) {
	if v, ok := a.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, &ConfigError{Code: ErrCodeConfiguration, Field: field, Message: "incomplete structure: " + err.Error(), Err: err}
		}
	}
	s := a.Schema()
	fs := make([]finset.Function, s.NumHoms())
	for i := range fs {
		h := schema.HomID(i)
		var (
			f   *finset.Vector
			err error
		)
		if hf, ok := a.(homFunctioner); ok {
			f, err = hf.HomFunction(h)
		} else {
			hom := s.Hom(h)
			values := make([]int, a.NParts(hom.Dom))
			for x := range values {
				values[x] = a.Subpart(h, x+1)
			}
			f, err = finset.NewVector(finset.Range(len(values)), finset.Range(a.NParts(hom.Codom)), values)
		}
		if err != nil {
			return nil, &ConfigError{Code: ErrCodeConfiguration, Field: field,
				Message: "morphism " + s.Hom(h).Name + ": " + err.Error(), Err: err}
		}
		fs[i] = f
	}
	return fs, nil
}

func logger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

// backtrack returns true when the visitor asked to stop.
func (st *state) backtrack(d int, visit Visitor) bool {
	c, x, n, ok := st.mrv(d)
	if !ok {
		return visit(st.snapshot())
	}
	if n == 0 {
		return false
	}
	for y := 1; y <= st.codom.NParts(c); y++ {
		if st.assignElem(d, c, x, y) && st.backtrack(d+1, visit) {
			return true
		}
		st.unassignElem(d, c, x)
	}
	return false
}

// mrv returns the unassigned variable with the fewest legal values and that
// count. ok is false when every variable is assigned.
func (st *state) mrv(d int) (c schema.ObID, x, n int, ok bool) {
	n = -1
	for ob := range st.assign {
		id := schema.ObID(ob)
		ny := st.codom.NParts(id)
		for i, y := range st.assign[ob] {
			if y != 0 {
				continue
			}
			part := i + 1
			count := 0
			for cand := 1; cand <= ny; cand++ {
				if st.assignElem(d, id, part, cand) {
					count++
				}
				st.unassignElem(d, id, part)
			}
			if n < 0 || count < n {
				c, x, n, ok = id, part, count, true
				if n == 0 {
					return c, x, n, ok
				}
			}
		}
	}
	return c, x, n, ok
}

// assignElem tries to set x -> y for object-type c at depth d and propagates
// along outgoing morphism-types. On failure, commits already made at depth d
// are left in place for unassignElem to revert.
func (st *state) assignElem(d int, c schema.ObID, x, y int) bool {
	cur := st.assign[c][x-1]
	if cur == y {
		return true
	}
	if cur != 0 {
		return false
	}
	if inv := st.inverse[c]; inv != nil && inv[y-1] != 0 {
		return false
	}
	for _, a := range st.schema.AttrsOf(c) {
		xv := st.dom.Attr(a, x)
		if tr := st.cfg.translate[st.schema.Attr(a).Codom]; tr != nil {
			xv = tr(xv)
		}
		if !ir.Equal(xv, st.codom.Attr(a, y)) {
			return false
		}
	}

	st.assign[c][x-1] = y
	st.depth[c][x-1] = d
	if inv := st.inverse[c]; inv != nil {
		inv[y-1] = x
	}

	for _, h := range st.schema.OutHoms(c) {
		cod := st.schema.Hom(h).Codom
		if !st.assignElem(d, cod, st.domHoms[h].Apply(x), st.codomHoms[h].Apply(y)) {
			return false
		}
	}
	return true
}

// unassignElem reverts the commit of x (and what it propagated) only if it
// was made at depth d.
func (st *state) unassignElem(d int, c schema.ObID, x int) {
	if st.assign[c][x-1] == 0 || st.depth[c][x-1] != d {
		return
	}
	if inv := st.inverse[c]; inv != nil {
		inv[st.assign[c][x-1]-1] = 0
	}
	st.assign[c][x-1] = 0
	st.depth[c][x-1] = 0
	for _, h := range st.schema.OutHoms(c) {
		st.unassignElem(d, st.schema.Hom(h).Codom, st.domHoms[h].Apply(x))
	}
}

func (st *state) snapshot() *Homomorphism {
	return newHomomorphism(st.dom, st.codom, st.assign, st.cfg.translate)
}
