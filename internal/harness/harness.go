package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/finrel/internal/colimit"
	"github.com/roach88/finrel/internal/compiler"
	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/homsearch"
	"github.com/roach88/finrel/internal/join"
	"github.com/roach88/finrel/internal/store"
)

// IDGenerator produces run ids.
type IDGenerator interface {
	Generate() string
}

type uuidGenerator struct{}

func (uuidGenerator) Generate() string { return uuid.NewString() }

// Option configures scenario execution.
type Option func(*harness)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(h *harness) { h.logger = logger }
}

// WithIDGenerator sets the run id source. The default uses random UUIDs.
func WithIDGenerator(ids IDGenerator) Option {
	return func(h *harness) { h.ids = ids }
}

type harness struct {
	logger *slog.Logger
	ids    IDGenerator
}

func newHarness(opts []Option) *harness {
	h := &harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:    uuidGenerator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the scenario's CUE specs
// 2. Run the query (every requested algorithm and backend for joins)
// 3. Evaluate assertions against the outcome
//
// A returned error means the scenario could not run at all (bad specs,
// unknown names, disagreeing join algorithms). Failed assertions are
// reported in the result.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	return newHarness(opts).run(ctx, scenario)
}

func (h *harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name, h.ids.Generate())
	logger := h.logger.With("scenario", scenario.Name, "run_id", result.RunID)

	specs, err := LoadSpecs(scenario.Specs)
	if err != nil {
		return nil, err
	}

	switch {
	case scenario.Hom != nil:
		err = h.runHom(specs, scenario.Hom, result)
	case scenario.Join != nil:
		err = h.runJoin(ctx, specs, scenario.Join, result)
	case scenario.Colimit != nil:
		err = h.runColimit(specs, scenario.Colimit, result)
	default:
		err = fmt.Errorf("scenario has no query")
	}
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	logger.Debug("scenario finished", "kind", scenario.Kind(), "count", result.Count, "pass", result.Pass)
	return result, nil
}

// RunAll executes scenarios on up to parallelism workers (0 means no
// limit) and returns results in input order. A scenario that cannot run
// yields a failing result carrying the error; RunAll itself only fails
// when ctx is cancelled.
func RunAll(ctx context.Context, scenarios []*Scenario, parallelism int, opts ...Option) ([]*Result, error) {
	h := newHarness(opts)
	results := make([]*Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := h.run(gctx, sc)
			if err != nil {
				res = NewResult(sc.Name, "")
				res.AddError(err.Error())
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadSpecs compiles and unifies the given CUE files.
func LoadSpecs(paths []string) (*compiler.Specs, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no spec files given")
	}
	ctx := cuecontext.New()
	var v cue.Value
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read spec file: %w", err)
		}
		fv := ctx.CompileBytes(data, cue.Filename(p))
		if i == 0 {
			v = fv
		} else {
			v = v.Unify(fv)
		}
	}
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling specs: %w", err)
	}

	specs, errs := compiler.CompileAll(v)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return specs, nil
}

func (h *harness) runHom(specs *compiler.Specs, q *HomQuery, result *Result) error {
	x, err := specs.Instance(q.From)
	if err != nil {
		return err
	}
	y, err := specs.Instance(q.To)
	if err != nil {
		return err
	}
	opts := homsearch.Options{
		Monic:    q.Monic,
		MonicAll: q.MonicAll,
		Iso:      q.Iso,
		IsoAll:   q.IsoAll,
		Initial:  q.Initial,
		Logger:   h.logger,
	}

	if q.All {
		homs, err := homsearch.FindAll(x, y, opts)
		if err != nil {
			return err
		}
		result.Homomorphisms = homs
	} else {
		hom, err := homsearch.FindOne(x, y, opts)
		if err != nil {
			return err
		}
		result.Homomorphisms = []*homsearch.Homomorphism{}
		if hom != nil {
			result.Homomorphisms = append(result.Homomorphisms, hom)
		}
	}
	result.Count = len(result.Homomorphisms)
	return nil
}

func (h *harness) runJoin(ctx context.Context, specs *compiler.Specs, q *JoinQuery, result *Result) error {
	fs := make([]finset.Function, len(q.Functions))
	for i, name := range q.Functions {
		f, err := specs.Function(name)
		if err != nil {
			return err
		}
		fs[i] = f
	}

	algs := []join.Algorithm{join.NestedLoop, join.SortMerge, join.Hash}
	if len(q.Algorithms) > 0 {
		algs = algs[:0]
		for _, name := range q.Algorithms {
			alg, err := join.ParseAlgorithm(name)
			if err != nil {
				return err
			}
			algs = append(algs, alg)
		}
	}

	var cone *join.Cone
	for _, alg := range algs {
		c, err := join.Limit(fs, alg)
		if err != nil {
			return err
		}
		if cone != nil && !slices.EqualFunc(cone.Tuples(), c.Tuples(), slices.Equal) {
			return fmt.Errorf("%s join disagrees with %s join", alg, algs[0])
		}
		cone = c
	}

	if slices.Contains(q.Backends, BackendSQLite) {
		if err := h.crossCheckSQLite(ctx, fs, cone); err != nil {
			return err
		}
	}

	result.Cone = cone
	result.Count = cone.Len()
	return nil
}

func (h *harness) crossCheckSQLite(ctx context.Context, fs []finset.Function, cone *join.Cone) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	tuples, err := st.Join(ctx, fs)
	if err != nil {
		return err
	}
	if !slices.EqualFunc(cone.Tuples(), tuples, slices.Equal) {
		return fmt.Errorf("sqlite join returned %d tuples, memory join %d", len(tuples), cone.Len())
	}
	h.logger.Debug("sqlite join agrees", "tuples", len(tuples))
	return nil
}

func (h *harness) runColimit(specs *compiler.Specs, q *ColimitQuery, result *Result) error {
	pair := func(names []string) (finset.Function, finset.Function, error) {
		f, err := specs.Function(names[0])
		if err != nil {
			return nil, nil, err
		}
		g, err := specs.Function(names[1])
		if err != nil {
			return nil, nil, err
		}
		return f, g, nil
	}

	var cocone *colimit.Cocone
	var err error
	switch {
	case q.Coequalize != nil:
		f, g, perr := pair(q.Coequalize)
		if perr != nil {
			return perr
		}
		cocone, err = colimit.Coequalizer(f, g)
	case q.Pushout != nil:
		f, g, perr := pair(q.Pushout)
		if perr != nil {
			return perr
		}
		cocone, err = colimit.Pushout(f, g)
	case q.Sets != nil:
		d := colimit.NewDiagram()
		for _, n := range q.Sets {
			d.AddObject(finset.Range(n))
		}
		for _, e := range q.Edges {
			f, ferr := specs.Function(e.Function)
			if ferr != nil {
				return ferr
			}
			if err := d.AddEdge(e.Src, e.Tgt, f); err != nil {
				return fmt.Errorf("edge %s: %w", e.Function, err)
			}
		}
		cocone, err = colimit.Colimit(d)
	default:
		sets := make([]finset.Set, len(q.Coproduct))
		for i, n := range q.Coproduct {
			sets[i] = finset.Range(n)
		}
		cocone, err = colimit.Coproduct(sets...)
	}
	if err != nil {
		return err
	}
	result.Cocone = cocone
	result.Count = cocone.Classes()
	return nil
}
