package schema

type pendingHom struct{ name, dom, codom string }

// Builder accumulates declarations. Declarations are validated only in Build,
// so they may be made in any order.
type Builder struct {
	name      string
	obs       []string
	homs      []pendingHom
	attrTypes []string
	attrs     []pendingHom
}

// NewBuilder starts a schema with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// AddOb declares object-types.
func (b *Builder) AddOb(names ...string) *Builder {
	b.obs = append(b.obs, names...)
	return b
}

// AddHom declares a morphism-type dom -> codom.
func (b *Builder) AddHom(name, dom, codom string) *Builder {
	b.homs = append(b.homs, pendingHom{name, dom, codom})
	return b
}

// AddAttrType declares attribute-types.
func (b *Builder) AddAttrType(names ...string) *Builder {
	b.attrTypes = append(b.attrTypes, names...)
	return b
}

// AddAttr declares an attribute-morphism from object-type dom to attribute-type codom.
func (b *Builder) AddAttr(name, dom, codom string) *Builder {
	b.attrs = append(b.attrs, pendingHom{name, dom, codom})
	return b
}

// Build validates the declarations and compiles the dispatch tables.
//
// Every name must be unique across object-types, morphism-types,
// attribute-types and attribute-morphisms.
func (b *Builder) Build() (*Schema, error) {
	s := &Schema{
		name:          b.name,
		obIndex:       make(map[string]ObID, len(b.obs)),
		homIndex:      make(map[string]HomID, len(b.homs)),
		attrTypeIndex: make(map[string]AttrTypeID, len(b.attrTypes)),
		attrIndex:     make(map[string]AttrID, len(b.attrs)),
	}
	seen := make(map[string]bool)
	claim := func(name string) error {
		if seen[name] {
			return &Error{Code: ErrCodeDuplicateName, Name: name, Message: "name declared more than once"}
		}
		seen[name] = true
		return nil
	}

	for _, name := range b.obs {
		if err := claim(name); err != nil {
			return nil, err
		}
		s.obIndex[name] = ObID(len(s.obs))
		s.obs = append(s.obs, name)
	}
	for _, name := range b.attrTypes {
		if err := claim(name); err != nil {
			return nil, err
		}
		s.attrTypeIndex[name] = AttrTypeID(len(s.attrTypes))
		s.attrTypes = append(s.attrTypes, name)
	}
	for _, h := range b.homs {
		if err := claim(h.name); err != nil {
			return nil, err
		}
		dom, ok := s.obIndex[h.dom]
		if !ok {
			return nil, &Error{Code: ErrCodeUnknownOb, Name: h.name, Message: "unknown domain " + h.dom}
		}
		codom, ok := s.obIndex[h.codom]
		if !ok {
			return nil, &Error{Code: ErrCodeUnknownOb, Name: h.name, Message: "unknown codomain " + h.codom}
		}
		s.homIndex[h.name] = HomID(len(s.homs))
		s.homs = append(s.homs, Hom{Name: h.name, Dom: dom, Codom: codom})
	}
	for _, a := range b.attrs {
		if err := claim(a.name); err != nil {
			return nil, err
		}
		dom, ok := s.obIndex[a.dom]
		if !ok {
			return nil, &Error{Code: ErrCodeUnknownOb, Name: a.name, Message: "unknown domain " + a.dom}
		}
		codom, ok := s.attrTypeIndex[a.codom]
		if !ok {
			return nil, &Error{Code: ErrCodeUnknownAttrType, Name: a.name, Message: "unknown attribute type " + a.codom}
		}
		s.attrIndex[a.name] = AttrID(len(s.attrs))
		s.attrs = append(s.attrs, Attr{Name: a.name, Dom: dom, Codom: codom})
	}

	s.outHoms = make([][]HomID, len(s.obs))
	s.inHoms = make([][]HomID, len(s.obs))
	s.obAttrs = make([][]AttrID, len(s.obs))
	s.typeAttrs = make([][]AttrID, len(s.attrTypes))
	for id, h := range s.homs {
		s.outHoms[h.Dom] = append(s.outHoms[h.Dom], HomID(id))
		s.inHoms[h.Codom] = append(s.inHoms[h.Codom], HomID(id))
	}
	for id, a := range s.attrs {
		s.obAttrs[a.Dom] = append(s.obAttrs[a.Dom], AttrID(id))
		s.typeAttrs[a.Codom] = append(s.typeAttrs[a.Codom], AttrID(id))
	}
	return s, nil
}

// MustBuild is like Build but panics on error.
// Use only in tests or for schemas declared in code.
func (b *Builder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
