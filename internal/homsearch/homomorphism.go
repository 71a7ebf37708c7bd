package homsearch

import (
	"errors"
	"fmt"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// Homomorphism is a structure-preserving map between two relational
// structures over the same schema: one finite function per object-type and,
// for loose homomorphisms, one value translation per attribute-type.
type Homomorphism struct {
	dom, codom acset.Accessor
	components []*finset.Vector
	translate  []TypeComponent // per AttrTypeID, nil = identity
}

func newHomomorphism(x, y acset.Accessor, comps [][]int, translate []TypeComponent) *Homomorphism {
	s := x.Schema()
	h := &Homomorphism{
		dom:        x,
		codom:      y,
		components: make([]*finset.Vector, len(comps)),
		translate:  translate,
	}
	for ob, values := range comps {
		id := schema.ObID(ob)
		h.components[ob] = finset.MustVector(finset.Range(x.NParts(id)), finset.Range(y.NParts(id)), values)
	}
	if len(h.translate) == 0 {
		h.translate = make([]TypeComponent, s.NumAttrTypes())
	}
	return h
}

// New builds a homomorphism from explicit component vectors keyed by
// object-type name. Object-types without an entry must have no domain parts.
// The result is not checked for naturality; call IsNatural.
func New(x, y acset.Accessor, components map[string][]int, typeComponents map[string]TypeComponent) (*Homomorphism, error) {
	s := x.Schema()
	if !s.Equal(y.Schema()) {
		return nil, configError("", "domain schema %q differs from codomain schema %q", s.Name(), y.Schema().Name())
	}
	for name := range components {
		if _, ok := s.ObID(name); !ok {
			return nil, configError("components", "unknown object-type %q", name)
		}
	}
	translate := make([]TypeComponent, s.NumAttrTypes())
	for name, fn := range typeComponents {
		id, ok := s.AttrTypeID(name)
		if !ok {
			return nil, configError("type_components", "unknown attribute-type %q", name)
		}
		translate[id] = fn
	}
	h := &Homomorphism{dom: x, codom: y, components: make([]*finset.Vector, s.NumObs()), translate: translate}
	for ob, name := range s.Obs() {
		id := schema.ObID(ob)
		v, err := finset.NewVector(finset.Range(x.NParts(id)), finset.Range(y.NParts(id)), components[name])
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", name, err)
		}
		h.components[ob] = v
	}
	return h, nil
}

// Identity returns the identity homomorphism on x.
func Identity(x acset.Accessor) *Homomorphism {
	s := x.Schema()
	comps := make([][]int, s.NumObs())
	for ob := range comps {
		comps[ob] = finset.Values(finset.NewIdentity(finset.Range(x.NParts(schema.ObID(ob)))))
	}
	return newHomomorphism(x, x, comps, nil)
}

// Dom returns the domain structure.
func (h *Homomorphism) Dom() acset.Accessor { return h.dom }

// Codom returns the codomain structure.
func (h *Homomorphism) Codom() acset.Accessor { return h.codom }

// Component returns the component at object-type ob.
func (h *Homomorphism) Component(ob schema.ObID) *finset.Vector { return h.components[ob] }

// ComponentByName returns the component at the named object-type.
func (h *Homomorphism) ComponentByName(name string) (*finset.Vector, bool) {
	id, ok := h.dom.Schema().ObID(name)
	if !ok {
		return nil, false
	}
	return h.components[id], true
}

// Components returns every component keyed by object-type name.
func (h *Homomorphism) Components() map[string]finset.Function {
	out := make(map[string]finset.Function, len(h.components))
	for ob, name := range h.dom.Schema().Obs() {
		out[name] = h.components[ob]
	}
	return out
}

// AttrMap returns the value translation for attribute-type at. The identity
// is returned for tight components.
func (h *Homomorphism) AttrMap(at schema.AttrTypeID) TypeComponent {
	if fn := h.translate[at]; fn != nil {
		return fn
	}
	return func(v ir.IRValue) ir.IRValue { return v }
}

// IsTight reports whether every attribute-type component is the identity.
func (h *Homomorphism) IsTight() bool {
	for _, fn := range h.translate {
		if fn != nil {
			return false
		}
	}
	return true
}

// IsNatural reports whether h commutes with every morphism-type and
// attribute-morphism of the schema.
func (h *Homomorphism) IsNatural() bool {
	return h.checkNatural() == nil
}

func (h *Homomorphism) checkNatural() error {
	s := h.dom.Schema()
	for id, hom := range s.Homs() {
		hid := schema.HomID(id)
		a, b := h.components[hom.Dom], h.components[hom.Codom]
		for x := 1; x <= h.dom.NParts(hom.Dom); x++ {
			fx := h.dom.Subpart(hid, x)
			if fx < 1 || fx > h.dom.NParts(hom.Codom) {
				return fmt.Errorf("%s(%d) is unset in the domain", hom.Name, x)
			}
			lhs := h.codom.Subpart(hid, a.Apply(x))
			rhs := b.Apply(fx)
			if lhs != rhs {
				return fmt.Errorf("%s fails at part %d: %d != %d", hom.Name, x, lhs, rhs)
			}
		}
	}
	for id, attr := range s.Attrs() {
		aid := schema.AttrID(id)
		tr := h.AttrMap(attr.Codom)
		comp := h.components[attr.Dom]
		for x := 1; x <= h.dom.NParts(attr.Dom); x++ {
			if !ir.Equal(tr(h.dom.Attr(aid, x)), h.codom.Attr(aid, comp.Apply(x))) {
				return fmt.Errorf("%s fails at part %d", attr.Name, x)
			}
		}
	}
	return nil
}

// Compose returns g after h. h's codomain must be g's domain.
func (h *Homomorphism) Compose(g *Homomorphism) (*Homomorphism, error) {
	if h.codom != g.dom {
		return nil, errors.New("compose: codomain of first is not domain of second")
	}
	comps := make([][]int, len(h.components))
	for ob := range h.components {
		fg, err := finset.Compose(h.components[ob], g.components[ob])
		if err != nil {
			return nil, fmt.Errorf("compose %s: %w", h.dom.Schema().Ob(schema.ObID(ob)), err)
		}
		comps[ob] = finset.Values(fg)
	}
	translate := make([]TypeComponent, len(h.translate))
	for at := range translate {
		f, g := h.translate[at], g.translate[at]
		switch {
		case f == nil:
			translate[at] = g
		case g == nil:
			translate[at] = f
		default:
			translate[at] = func(v ir.IRValue) ir.IRValue { return g(f(v)) }
		}
	}
	return newHomomorphism(h.dom, g.codom, comps, translate), nil
}

// Encode renders the object-type components as {"components": {ob: [..]}}.
func (h *Homomorphism) Encode() ir.IRObject {
	comps := make(ir.IRObject, len(h.components))
	for ob, name := range h.dom.Schema().Obs() {
		comps[name] = ir.IntArray(finset.Values(h.components[ob]))
	}
	return ir.IRObject{"components": comps}
}

// Hash returns the content hash of the encoded components.
func (h *Homomorphism) Hash() (string, error) {
	return ir.ContentHash(ir.DomainHomomorphism, h.Encode())
}

// String renders the components for diagnostics.
func (h *Homomorphism) String() string {
	s := ""
	for ob, name := range h.dom.Schema().Obs() {
		if ob > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%v", name, finset.Values(h.components[ob]))
	}
	return s
}
