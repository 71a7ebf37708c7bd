package homsearch

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/schema"
)

// TypeComponent translates attribute values of one attribute-type from the
// domain structure into the codomain structure.
type TypeComponent func(ir.IRValue) ir.IRValue

// Options configures a search. The zero value searches for arbitrary tight
// homomorphisms (attribute values must match exactly).
type Options struct {
	// Monic lists object-types whose component must be injective.
	Monic []string

	// MonicAll makes every component injective.
	MonicAll bool

	// Iso lists object-types whose component must be bijective.
	Iso []string

	// IsoAll makes every component bijective.
	IsoAll bool

	// Initial pre-assigns parts: object-type -> domain part -> codomain part.
	Initial map[string]map[int]int

	// TypeComponents translates attribute values per attribute-type. Missing
	// attribute-types use the identity.
	TypeComponents map[string]TypeComponent

	// Logger receives debug output. Nil means slog.Default().
	Logger *slog.Logger
}

// config is Options resolved against a schema.
type config struct {
	injective []bool // per ObID
	bijective []bool // per ObID
	initial   []seed
	translate []TypeComponent // per AttrTypeID, nil = identity
	logger    *slog.Logger
}

type seed struct {
	ob   schema.ObID
	x, y int
}

func (o Options) resolve(x, y acset.Accessor) (*config, error) {
	s := x.Schema()
	if !s.Equal(y.Schema()) {
		return nil, configError("", "domain schema %q differs from codomain schema %q", s.Name(), y.Schema().Name())
	}
	cfg := &config{
		injective: make([]bool, s.NumObs()),
		bijective: make([]bool, s.NumObs()),
		translate: make([]TypeComponent, s.NumAttrTypes()),
		logger:    logger(o),
	}

	mark := func(field string, names []string, all bool, dst []bool) error {
		if all {
			for i := range dst {
				dst[i] = true
			}
			return nil
		}
		for _, name := range names {
			id, ok := s.ObID(name)
			if !ok {
				return configError(field, "unknown object-type %q", name)
			}
			dst[id] = true
		}
		return nil
	}
	if err := mark("monic", o.Monic, o.MonicAll, cfg.injective); err != nil {
		return nil, err
	}
	if err := mark("iso", o.Iso, o.IsoAll, cfg.bijective); err != nil {
		return nil, err
	}
	for i, b := range cfg.bijective {
		if b {
			cfg.injective[i] = true
		}
	}

	// Seeds are applied in object-type order, then part order.
	for _, name := range slices.Sorted(maps.Keys(o.Initial)) {
		ob, ok := s.ObID(name)
		if !ok {
			return nil, configError("initial", "unknown object-type %q", name)
		}
		entries := o.Initial[name]
		for _, xp := range slices.Sorted(maps.Keys(entries)) {
			yp := entries[xp]
			if xp < 1 || xp > x.NParts(ob) {
				return nil, configError("initial", "%s: domain part %d out of range 1..%d", name, xp, x.NParts(ob))
			}
			if yp < 1 || yp > y.NParts(ob) {
				return nil, configError("initial", "%s: codomain part %d out of range 1..%d", name, yp, y.NParts(ob))
			}
			cfg.initial = append(cfg.initial, seed{ob: ob, x: xp, y: yp})
		}
	}
	slices.SortStableFunc(cfg.initial, func(a, b seed) int { return int(a.ob) - int(b.ob) })

	for name, fn := range o.TypeComponents {
		id, ok := s.AttrTypeID(name)
		if !ok {
			return nil, configError("type_components", "unknown attribute-type %q", name)
		}
		cfg.translate[id] = fn
	}
	return cfg, nil
}

// prefilter reports whether the cardinality constraints can possibly hold.
func (c *config) prefilter(x, y acset.Accessor) bool {
	s := x.Schema()
	for ob := range s.NumObs() {
		id := schema.ObID(ob)
		nx, ny := x.NParts(id), y.NParts(id)
		if c.bijective[ob] && nx != ny {
			c.logger.Debug("iso pre-filter rejected search",
				"ob", s.Ob(id), "dom_parts", nx, "codom_parts", ny)
			return false
		}
		if c.injective[ob] && nx > ny {
			c.logger.Debug("monic pre-filter rejected search",
				"ob", s.Ob(id), "dom_parts", nx, "codom_parts", ny)
			return false
		}
	}
	return true
}
