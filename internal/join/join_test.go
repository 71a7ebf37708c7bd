package join

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/testutil"
)

var sortTuples = cmpopts.SortSlices(func(a, b Tuple) bool { return slices.Compare(a, b) < 0 })

func vec(codom int, values ...int) *finset.Vector {
	return finset.MustVector(finset.Range(len(values)), finset.Range(codom), values)
}

func TestHashJoinScenario(t *testing.T) {
	f := vec(3, 1, 2, 2, 3)
	g := vec(3, 2, 2, 3)
	want := []Tuple{{2, 1}, {2, 2}, {3, 1}, {3, 2}, {4, 3}}

	for _, alg := range Algorithms {
		t.Run(alg.String(), func(t *testing.T) {
			got, err := Run([]finset.Function{f, g}, alg)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got, sortTuples); diff != "" {
				t.Errorf("tuples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAlgorithmsAgree(t *testing.T) {
	src := testutil.NewSource(1)
	for i := range 200 {
		k := src.IntN(4) + 1
		codom := src.IntN(4) + 1
		fs := src.Functions(k, 5, codom)

		ref := NestedLoopJoin(fs)
		checkCorrect(t, fs, ref)
		for _, alg := range []Algorithm{SortMerge, Hash} {
			got, err := Run(fs, alg)
			require.NoError(t, err)
			if diff := cmp.Diff(ref, got, sortTuples, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("case %d %s disagrees with nested loop (-want +got):\n%s", i, alg, diff)
			}
		}
	}
}

// checkCorrect verifies every tuple agrees and every agreeing product tuple
// appears exactly once.
func checkCorrect(t *testing.T, fs []finset.Function, tuples []Tuple) {
	t.Helper()
	seen := map[string]bool{}
	for _, tup := range tuples {
		v := fs[0].Apply(tup[0])
		for i := range fs {
			require.Equal(t, v, fs[i].Apply(tup[i]))
		}
		key := fmt.Sprint(tup)
		require.False(t, seen[key], "duplicate tuple %v", tup)
		seen[key] = true
	}
	want := 0
	for v := range fs[0].Codom().All() {
		n := 1
		for _, f := range fs {
			c := 0
			for x := range f.Dom().All() {
				if f.Apply(x) == v {
					c++
				}
			}
			n *= c
		}
		want += n
	}
	assert.Len(t, tuples, want)
}

func TestEmptyAndNoMatch(t *testing.T) {
	empty := vec(2)
	f := vec(2, 1, 1)
	g := vec(2, 2, 2)

	tests := []struct {
		name string
		fs   []finset.Function
	}{
		{"empty input", []finset.Function{f, empty}},
		{"no match", []finset.Function{f, g}},
		{"empty driver", []finset.Function{empty, f, f}},
	}
	for _, tt := range tests {
		for _, alg := range Algorithms {
			t.Run(tt.name+"/"+alg.String(), func(t *testing.T) {
				got, err := Run(tt.fs, alg)
				require.NoError(t, err)
				assert.Empty(t, got)
			})
		}
	}
}

func TestHashDriverSelection(t *testing.T) {
	small := vec(3, 1, 2)
	large := vec(3, 1, 2, 3, 1)
	indexed := finset.MustIndexed(finset.Range(6), finset.Range(3), []int{1, 1, 2, 2, 3, 3})

	assert.Equal(t, 1, driverInput([]finset.Function{small, large}))
	assert.Equal(t, 1, driverInput([]finset.Function{indexed, large, small}))
	assert.Equal(t, 0, driverInput([]finset.Function{small, vec(3, 3, 2)}), "ties go to the first input")
	assert.Equal(t, 0, driverInput([]finset.Function{indexed, finset.NewIdentity(finset.Range(3))}), "all indexed")

	got := HashJoin([]finset.Function{indexed, finset.NewIdentity(finset.Range(3))})
	assert.Equal(t, []Tuple{{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {6, 3}}, got)
}

func TestExplicitDomains(t *testing.T) {
	f := finset.NewRule(finset.Of(10, 20, 30), finset.Range(2), func(x int) int { return x/10%2 + 1 })
	g := vec(2, 2, 1)
	want := []Tuple{{10, 1}, {20, 2}, {30, 1}}
	for _, alg := range Algorithms {
		got, err := Run([]finset.Function{f, g}, alg)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got, sortTuples); diff != "" {
			t.Errorf("%s (-want +got):\n%s", alg, diff)
		}
	}
}

func TestRunErrors(t *testing.T) {
	_, err := Run(nil, Hash)
	assert.True(t, HasCode(err, ErrCodeEmptyDiagram))

	_, err = Run([]finset.Function{vec(2, 1), vec(3, 1)}, Hash)
	assert.True(t, HasCode(err, ErrCodeCodomainMismatch))
}

func TestParseAlgorithm(t *testing.T) {
	for _, alg := range append([]Algorithm{Auto}, Algorithms...) {
		got, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		assert.Equal(t, alg, got)
	}
	got, err := ParseAlgorithm("Sort")
	require.NoError(t, err)
	assert.Equal(t, SortMerge, got)

	_, err = ParseAlgorithm("bloom")
	assert.Error(t, err)
}
