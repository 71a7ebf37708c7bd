package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/finset"
)

func TestLoadFunction(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	f := finset.MustVector(finset.Range(4), finset.Range(3), []int{1, 2, 2, 3})

	rel, err := s.LoadFunction(ctx, "f", f)
	require.NoError(t, err)
	assert.Equal(t, "f", rel.Name)
	assert.Equal(t, 4, rel.DomSize)
	assert.Equal(t, 3, rel.CodomSize)
	assert.Equal(t, int64(1), rel.Seq)
	assert.Regexp(t, `^rel_[0-9a-f]{32}$`, rel.Table)

	rows, err := s.Query(ctx, "SELECT elem, value FROM "+rel.Table+" ORDER BY elem")
	require.NoError(t, err)
	defer rows.Close()
	var got [][2]int
	for rows.Next() {
		var p [2]int
		require.NoError(t, rows.Scan(&p[0], &p[1]))
		got = append(got, p)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, [][2]int{{1, 1}, {2, 2}, {3, 2}, {4, 3}}, got)
}

func TestLoadFunctionDeduplicates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	f := finset.MustVector(finset.Range(2), finset.Range(2), []int{2, 1})
	same := finset.NewRule(finset.Range(2), finset.Range(2), func(x int) int { return 3 - x })
	other := finset.MustVector(finset.Range(2), finset.Range(3), []int{2, 1})

	a, err := s.LoadFunction(ctx, "a", f)
	require.NoError(t, err)
	b, err := s.LoadFunction(ctx, "b", same)
	require.NoError(t, err)
	c, err := s.LoadFunction(ctx, "c", other)
	require.NoError(t, err)

	assert.Equal(t, a, b, "same function, same relation")
	assert.NotEqual(t, a.ID, c.ID, "codomain is part of identity")

	rels, err := s.Relations(ctx)
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, "a", rels[0].Name)
	assert.Equal(t, "c", rels[1].Name)
}

func TestRelationsEmpty(t *testing.T) {
	s := createTestStore(t)
	rels, err := s.Relations(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rels)
	assert.Empty(t, rels)
}

func TestFunctionHashStable(t *testing.T) {
	f := finset.MustVector(finset.Range(3), finset.Range(3), []int{1, 2, 3})
	h1, err := FunctionHash(f)
	require.NoError(t, err)
	h2, err := FunctionHash(finset.NewIdentity(finset.Range(3)))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}
