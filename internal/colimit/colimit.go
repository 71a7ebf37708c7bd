package colimit

import (
	"github.com/roach88/finrel/internal/finset"
)

// Edge is a function between two objects of a Diagram.
type Edge struct {
	Src, Tgt int
	F        finset.Function
}

// Diagram is a finite collection of finite sets and functions between them.
// Objects are addressed by their 0-based position.
type Diagram struct {
	Objects []finset.Set
	Edges   []Edge
}

// NewDiagram returns a diagram with the given objects and no edges.
func NewDiagram(objects ...finset.Set) *Diagram {
	return &Diagram{Objects: objects}
}

// AddObject appends an object and returns its position.
func (d *Diagram) AddObject(s finset.Set) int {
	d.Objects = append(d.Objects, s)
	return len(d.Objects) - 1
}

// AddEdge adds f: Objects[src] -> Objects[tgt].
func (d *Diagram) AddEdge(src, tgt int, f finset.Function) error {
	if src < 0 || src >= len(d.Objects) || tgt < 0 || tgt >= len(d.Objects) {
		return newError(ErrCodeInvalidDiagram, "edge %d -> %d: diagram has %d objects", src, tgt, len(d.Objects))
	}
	if !f.Dom().Equal(d.Objects[src]) {
		return newError(ErrCodeInvalidDiagram, "edge %d -> %d: domain %s is not object %s", src, tgt, f.Dom(), d.Objects[src])
	}
	if !f.Codom().Equal(d.Objects[tgt]) {
		return newError(ErrCodeInvalidDiagram, "edge %d -> %d: codomain %s is not object %s", src, tgt, f.Codom(), d.Objects[tgt])
	}
	d.Edges = append(d.Edges, Edge{Src: src, Tgt: tgt, F: f})
	return nil
}

// coproduct lays the diagram's objects end to end in {1..n}.
type coproduct struct {
	offsets   []int
	positions []map[int]int // nil for range objects
	size      int
}

func newCoproduct(objects []finset.Set) *coproduct {
	c := &coproduct{offsets: make([]int, len(objects)), positions: make([]map[int]int, len(objects))}
	for i, s := range objects {
		c.offsets[i] = c.size
		c.size += s.Len()
		if !s.IsRange() {
			pos := make(map[int]int, s.Len())
			for j, x := range s.Elements() {
				pos[x] = j + 1
			}
			c.positions[i] = pos
		}
	}
	return c
}

// index returns the coproduct element of x in object i.
func (c *coproduct) index(i, x int) int {
	if c.positions[i] == nil {
		return c.offsets[i] + x
	}
	return c.offsets[i] + c.positions[i][x]
}

// Cocone is a computed colimit. Projection maps the coproduct {1..n} of the
// diagram's objects onto Apex; Legs[i]: Objects[i] -> Apex is the composite
// of the i-th coproduct inclusion with Projection.
type Cocone struct {
	Apex       finset.Set
	Legs       []finset.Function
	Projection *finset.Vector
	diagram    *Diagram
	coproduct  *coproduct
}

// Colimit computes the colimit of d.
func Colimit(d *Diagram) (*Cocone, error) {
	for _, e := range d.Edges {
		if e.Src < 0 || e.Src >= len(d.Objects) || e.Tgt < 0 || e.Tgt >= len(d.Objects) ||
			!e.F.Dom().Equal(d.Objects[e.Src]) || !e.F.Codom().Equal(d.Objects[e.Tgt]) {
			return nil, newError(ErrCodeInvalidDiagram, "edge %d -> %d does not match its objects", e.Src, e.Tgt)
		}
	}
	cp := newCoproduct(d.Objects)
	uf := NewUnionFind(cp.size)
	for _, e := range d.Edges {
		for a := range e.F.Dom().All() {
			uf.Union(cp.index(e.Src, a), cp.index(e.Tgt, e.F.Apply(a)))
		}
	}
	pi := QuotientProjection(uf)

	legs := make([]finset.Function, len(d.Objects))
	for i, s := range d.Objects {
		if s.IsRange() {
			values := make([]int, s.Len())
			for x := range values {
				values[x] = pi.Apply(cp.index(i, x+1))
			}
			legs[i] = finset.MustVector(s, pi.Codom(), values)
			continue
		}
		legs[i] = finset.NewRule(s, pi.Codom(), func(x int) int { return pi.Apply(cp.index(i, x)) })
	}
	return &Cocone{Apex: pi.Codom(), Legs: legs, Projection: pi, diagram: d, coproduct: cp}, nil
}

// Coproduct is the colimit of sets with no edges.
func Coproduct(sets ...finset.Set) (*Cocone, error) {
	return Colimit(NewDiagram(sets...))
}

// Coequalizer is the colimit of the parallel pair f, g: A -> B.
// Legs[1] is the coequalizing map out of B.
func Coequalizer(f, g finset.Function) (*Cocone, error) {
	d := NewDiagram(f.Dom(), f.Codom())
	if err := d.AddEdge(0, 1, f); err != nil {
		return nil, err
	}
	if err := d.AddEdge(0, 1, g); err != nil {
		return nil, err
	}
	return Colimit(d)
}

// Pushout is the colimit of the span f: A -> B, g: A -> C.
// Legs[1] and Legs[2] are the maps out of B and C.
func Pushout(f, g finset.Function) (*Cocone, error) {
	d := NewDiagram(f.Dom(), f.Codom(), g.Codom())
	if err := d.AddEdge(0, 1, f); err != nil {
		return nil, err
	}
	if err := d.AddEdge(0, 2, g); err != nil {
		return nil, err
	}
	return Colimit(d)
}

// Diagram returns the diagram the cocone is under.
func (c *Cocone) Diagram() *Diagram { return c.diagram }

// Classes returns the number of equivalence classes.
func (c *Cocone) Classes() int { return c.Apex.Len() }

// Universal returns the unique u: Apex -> Q with u . Legs[i] = legs[i] for a
// competing cocone legs[i]: Objects[i] -> Q. Competing legs are indexed like
// Objects (their domains must equal the objects).
func (c *Cocone) Universal(legs []finset.Function) (*finset.Vector, error) {
	d := c.diagram
	if len(legs) != len(d.Objects) {
		return nil, newError(ErrCodeNotACocone, "expected %d legs, got %d", len(d.Objects), len(legs))
	}
	if len(legs) == 0 {
		return finset.NewVector(c.Apex, finset.Range(0), nil)
	}
	target := legs[0].Codom()
	for i, leg := range legs {
		if !leg.Dom().Equal(d.Objects[i]) {
			return nil, newError(ErrCodeNotACocone, "leg %d has domain %s, not %s", i+1, leg.Dom(), d.Objects[i])
		}
		if !leg.Codom().Equal(target) {
			return nil, newError(ErrCodeNotACocone, "leg %d lands in %s, leg 1 in %s", i+1, leg.Codom(), target)
		}
	}
	for _, e := range d.Edges {
		for a := range e.F.Dom().All() {
			if legs[e.Tgt].Apply(e.F.Apply(a)) != legs[e.Src].Apply(a) {
				return nil, newError(ErrCodeNotACocone, "legs do not commute with edge %d -> %d at %d", e.Src, e.Tgt, a)
			}
		}
	}

	values := make([]int, c.coproduct.size)
	for i, s := range d.Objects {
		for x := range s.All() {
			values[c.coproduct.index(i, x)-1] = legs[i].Apply(x)
		}
	}
	h := finset.NewRule(c.Projection.Dom(), target, func(k int) int { return values[k-1] })
	return PassToQuotient(c.Projection, h)
}
