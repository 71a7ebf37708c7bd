package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/join"
	"github.com/roach88/finrel/internal/testutil"
)

func TestJoinScenario(t *testing.T) {
	s := createTestStore(t)
	f := finset.MustVector(finset.Range(4), finset.Range(3), []int{1, 2, 2, 3})
	g := finset.MustVector(finset.Range(3), finset.Range(3), []int{2, 2, 3})

	got, err := s.Join(context.Background(), []finset.Function{f, g})
	require.NoError(t, err)
	assert.Equal(t, []join.Tuple{{2, 1}, {2, 2}, {3, 1}, {3, 2}, {4, 3}}, got)
}

func TestJoinSelf(t *testing.T) {
	s := createTestStore(t)
	f := finset.MustVector(finset.Range(3), finset.Range(2), []int{1, 2, 1})

	got, err := s.Join(context.Background(), []finset.Function{f, f})
	require.NoError(t, err)
	assert.Equal(t, []join.Tuple{{1, 1}, {1, 3}, {2, 2}, {3, 1}, {3, 3}}, got)
}

func TestJoinMatchesEngine(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	src := testutil.NewSource(11)

	for i := range 30 {
		fs := src.Functions(src.IntN(3)+1, 5, src.IntN(3)+1)
		want, err := join.Limit(fs, join.Hash)
		require.NoError(t, err)

		got, err := s.Join(ctx, fs)
		require.NoError(t, err)
		if diff := cmp.Diff(want.Tuples(), got); diff != "" {
			t.Fatalf("case %d: SQL join differs from engine (-want +got):\n%s", i, diff)
		}
	}
}

func TestJoinRejectsBadDiagram(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.Join(ctx, nil)
	assert.True(t, join.HasCode(err, join.ErrCodeEmptyDiagram))

	f := finset.MustVector(finset.Range(1), finset.Range(1), []int{1})
	g := finset.MustVector(finset.Range(1), finset.Range(2), []int{1})
	_, err = s.Join(ctx, []finset.Function{f, g})
	assert.True(t, join.HasCode(err, join.ErrCodeCodomainMismatch))
}
