package homsearch

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
	"github.com/roach88/finrel/internal/testutil"
)

func edge() *acset.Structure {
	return testutil.Path(1)
}

func TestFindOneIdentity(t *testing.T) {
	for _, x := range []*acset.Structure{
		testutil.Cycle(3),
		testutil.Path(3),
		testutil.Dynamical(2, 3, 1, 4),
	} {
		t.Run(x.String(), func(t *testing.T) {
			h, err := FindOne(x, x, Options{})
			require.NoError(t, err)
			require.NotNil(t, h)
			assert.Equal(t, Identity(x).Encode(), h.Encode())
		})
	}
}

func TestIdentityAmongEndomorphisms(t *testing.T) {
	x := testutil.Reflexive(2, [2]int{1, 2})
	homs, err := FindAll(x, x, Options{})
	require.NoError(t, err)
	id := Identity(x).Encode()
	found := false
	for _, h := range homs {
		if assert.ObjectsAreEqual(id, h.Encode()) {
			found = true
		}
	}
	assert.True(t, found)

	auto, err := FindOne(x, x, Options{IsoAll: true})
	require.NoError(t, err)
	require.NotNil(t, auto)
	assert.Equal(t, id, auto.Encode(), "the only automorphism")
}

func TestFindAllEdgeIntoTriangle(t *testing.T) {
	homs, err := FindAll(edge(), testutil.Cycle(3), Options{})
	require.NoError(t, err)
	require.Len(t, homs, 3)

	seen := map[int]bool{}
	for _, h := range homs {
		assert.True(t, h.IsNatural())
		e, ok := h.ComponentByName("E")
		require.True(t, ok)
		seen[e.Apply(1)] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen, "one homomorphism per edge")
}

func TestFindAllReturnsIndependentCopies(t *testing.T) {
	homs, err := FindAll(edge(), testutil.Cycle(3), Options{})
	require.NoError(t, err)
	require.Len(t, homs, 3)
	assert.NotEqual(t, homs[0].Encode(), homs[1].Encode())
	assert.NotEqual(t, homs[1].Encode(), homs[2].Encode())
}

func TestSearchStopsWhenVisitorReturnsTrue(t *testing.T) {
	calls := 0
	err := Search(edge(), testutil.Cycle(3), Options{}, func(*Homomorphism) bool {
		calls++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestMonotonicity(t *testing.T) {
	src := testutil.NewSource(7)
	for i := range 40 {
		x := src.Graph(src.IntN(3)+1, src.IntN(4))
		y := src.Graph(src.IntN(4)+1, src.IntN(5))

		monic, err := Exists(x, y, Options{MonicAll: true})
		require.NoError(t, err)
		plain, err := Exists(x, y, Options{})
		require.NoError(t, err)
		if monic {
			assert.True(t, plain, "case %d: monic hom exists but plain does not", i)
		}

		all, err := FindAll(x, y, Options{})
		require.NoError(t, err)
		assert.Equal(t, plain, len(all) > 0)
		for _, h := range all {
			assert.True(t, h.IsNatural(), "case %d: %s", i, h)
		}
	}
}

func TestIsoSymmetry(t *testing.T) {
	// x is the path 3 -> 1 -> 2, y is 1 -> 2 -> 3.
	x := testutil.Graph(testutil.GraphSchema(), 3, [2]int{3, 1}, [2]int{1, 2})
	y := testutil.Path(2)

	h, err := FindOne(x, y, Options{IsoAll: true})
	require.NoError(t, err)
	require.NotNil(t, h)
	g, err := FindOne(y, x, Options{IsoAll: true})
	require.NoError(t, err)
	require.NotNil(t, g)

	v, _ := h.ComponentByName("V")
	assert.Equal(t, []int{2, 3, 1}, finset.Values(v))
	v, _ = g.ComponentByName("V")
	assert.Equal(t, []int{3, 1, 2}, finset.Values(v))

	hg, err := h.Compose(g)
	require.NoError(t, err)
	assert.Equal(t, Identity(x).Encode(), hg.Encode())
	gh, err := g.Compose(h)
	require.NoError(t, err)
	assert.Equal(t, Identity(y).Encode(), gh.Encode())
}

func TestCardinalityPrefilter(t *testing.T) {
	h, err := FindOne(testutil.Cycle(3), testutil.Cycle(4), Options{IsoAll: true})
	require.NoError(t, err)
	assert.Nil(t, h, "iso needs equal part counts")

	loop := testutil.Graph(testutil.GraphSchema(), 1, [2]int{1, 1})
	ok, err := Exists(edge(), loop, Options{Monic: []string{"V"}})
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = Exists(edge(), loop, Options{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMonicOnlyConstrainsNamedTypes(t *testing.T) {
	// Two parallel edges collapse onto one edge unless E is monic.
	x := testutil.Graph(testutil.GraphSchema(), 2, [2]int{1, 2}, [2]int{1, 2})
	n, err := Count(x, edge(), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Count(x, edge(), Options{Monic: []string{"V"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Count(x, edge(), Options{Monic: []string{"E"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCyclicSchema(t *testing.T) {
	terminal := testutil.Reflexive(1)
	x := testutil.Reflexive(2, [2]int{1, 2})

	n, err := Count(x, terminal, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = Count(x, x, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, n, "vertex maps (1,1), (2,2), (1,2)")
}

func TestSelfLoopSchema(t *testing.T) {
	swap := testutil.Dynamical(2, 1)
	fixed := testutil.Dynamical(1)
	rotate := testutil.Dynamical(2, 3, 1)

	tests := []struct {
		name string
		x, y *acset.Structure
		want int
	}{
		{"swap to fixed point", swap, fixed, 1},
		{"swap to itself", swap, swap, 2},
		{"rotation to swap", rotate, swap, 0},
		{"swap to rotation", swap, rotate, 0},
		{"fixed point to rotation", fixed, rotate, 0},
		{"rotation to itself", rotate, rotate, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Count(tt.x, tt.y, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestTightAttributes(t *testing.T) {
	x := testutil.Labeled(2, []string{"a", "b"}, [2]int{1, 2})
	y := testutil.Labeled(3, []string{"a", "b", "b"}, [2]int{1, 2}, [2]int{1, 3})

	homs, err := FindAll(x, y, Options{})
	require.NoError(t, err)
	require.Len(t, homs, 2)
	for _, h := range homs {
		assert.True(t, h.IsTight())
		assert.True(t, h.IsNatural())
	}

	z := testutil.Labeled(3, []string{"x", "b", "b"}, [2]int{1, 2}, [2]int{1, 3})
	ok, err := Exists(x, z, Options{})
	require.NoError(t, err)
	assert.False(t, ok, "no vertex labeled a")
}

func TestLooseAttributes(t *testing.T) {
	x := testutil.Labeled(2, []string{"a", "b"}, [2]int{1, 2})
	z := testutil.Labeled(3, []string{"x", "b", "b"}, [2]int{1, 2}, [2]int{1, 3})
	rename := func(v ir.IRValue) ir.IRValue {
		if s, ok := v.(ir.IRString); ok && s == "a" {
			return ir.IRString("x")
		}
		return v
	}

	homs, err := FindAll(x, z, Options{TypeComponents: map[string]TypeComponent{"Label": rename}})
	require.NoError(t, err)
	require.Len(t, homs, 2)
	for _, h := range homs {
		assert.False(t, h.IsTight())
		assert.True(t, h.IsNatural())
	}
}

func TestInitialAssignment(t *testing.T) {
	homs, err := FindAll(edge(), testutil.Cycle(3), Options{Initial: map[string]map[int]int{"V": {1: 2}}})
	require.NoError(t, err)
	require.Len(t, homs, 1)
	e, _ := homs[0].ComponentByName("E")
	assert.Equal(t, 2, e.Apply(1))

	homs, err = FindAll(edge(), testutil.Cycle(3), Options{Initial: map[string]map[int]int{"V": {1: 1, 2: 1}}})
	require.NoError(t, err)
	assert.Empty(t, homs, "inconsistent seed is a normal empty result")
}

func TestEmptyStructures(t *testing.T) {
	empty := testutil.Graph(testutil.GraphSchema(), 0)

	n, err := Count(empty, testutil.Cycle(3), Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the empty graph is initial")

	n, err = Count(edge(), empty, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		y     *acset.Structure
		opts  Options
		field string
	}{
		{"unknown monic", testutil.Cycle(3), Options{Monic: []string{"W"}}, "monic"},
		{"unknown iso", testutil.Cycle(3), Options{Iso: []string{"W"}}, "iso"},
		{"unknown initial", testutil.Cycle(3), Options{Initial: map[string]map[int]int{"W": {1: 1}}}, "initial"},
		{"initial domain range", testutil.Cycle(3), Options{Initial: map[string]map[int]int{"V": {3: 1}}}, "initial"},
		{"initial codomain range", testutil.Cycle(3), Options{Initial: map[string]map[int]int{"V": {1: 4}}}, "initial"},
		{"unknown attribute type", testutil.Cycle(3), Options{TypeComponents: map[string]TypeComponent{"Label": nil}}, "type_components"},
		{"schema mismatch", testutil.Dynamical(1), Options{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Search(edge(), tt.y, tt.opts, func(*Homomorphism) bool {
				calls++
				return false
			})
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, ErrCodeConfiguration, ce.Code)
			assert.Equal(t, tt.field, ce.Field)
			assert.Zero(t, calls, "no search is performed")
		})
	}
}

// dangling has two vertices and one edge whose endpoints were never set.
func dangling() *acset.Structure {
	st := acset.New(testutil.GraphSchema())
	st.AddParts(acset.MustOb(st.Schema(), "V"), 2)
	st.AddParts(acset.MustOb(st.Schema(), "E"), 1)
	return st
}

// accessorOnly hides every method beyond acset.Accessor.
type accessorOnly struct{ acset.Accessor }

func TestIncompleteStructures(t *testing.T) {
	tests := []struct {
		name  string
		x, y  acset.Accessor
		field string
	}{
		{"domain", dangling(), testutil.Cycle(3), "domain"},
		{"codomain", edge(), dangling(), "codomain"},
		{"plain accessor", accessorOnly{dangling()}, testutil.Cycle(3), "domain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var homs []*Homomorphism
			require.NotPanics(t, func() {
				var err error
				homs, err = FindAll(tt.x, tt.y, Options{})
				require.Error(t, err)
				var ce *ConfigError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.field, ce.Field)
			})
			assert.Nil(t, homs)
		})
	}

	_, err := FindOne(dangling(), testutil.Cycle(3), Options{})
	assert.True(t, acset.HasCode(err, acset.ErrCodeIncomplete))
	assert.Contains(t, err.Error(), "src(1) is unset")
}

func TestPlainAccessorSearch(t *testing.T) {
	homs, err := FindAll(accessorOnly{edge()}, accessorOnly{testutil.Cycle(3)}, Options{})
	require.NoError(t, err)
	assert.Len(t, homs, 3)
}

func TestPrefilterLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ok, err := Exists(testutil.Cycle(3), testutil.Cycle(4), Options{IsoAll: true, Logger: log})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "iso pre-filter rejected search")
	assert.Contains(t, buf.String(), "ob=V")
}
