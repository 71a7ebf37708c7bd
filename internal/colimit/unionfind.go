package colimit

import (
	"slices"

	"github.com/roach88/finrel/internal/finset"
)

// UnionFind partitions {1..n} into disjoint classes with path compression
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []int
}

// NewUnionFind returns n singleton classes.
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int, n+1), rank: make([]int, n+1)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Len returns n.
func (uf *UnionFind) Len() int { return len(uf.parent) - 1 }

// Find returns the root of x's class.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for x != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// Union merges the classes of x and y and returns the new root.
func (uf *UnionFind) Union(x, y int) int {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return rx
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
		return ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
	return rx
}

// Connected reports whether x and y are in the same class.
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Roots returns the distinct class roots in ascending order.
func (uf *UnionFind) Roots() []int {
	var roots []int
	for x := 1; x <= uf.Len(); x++ {
		if uf.Find(x) == x {
			roots = append(roots, x)
		}
	}
	return roots
}

// QuotientProjection maps each element of {1..n} to its class number.
// Classes are numbered 1..k in ascending order of root.
func QuotientProjection(uf *UnionFind) *finset.Vector {
	n := uf.Len()
	roots := make([]int, n)
	for x := 1; x <= n; x++ {
		roots[x-1] = uf.Find(x)
	}
	distinct := slices.Compact(slices.Sorted(slices.Values(roots)))
	values := make([]int, n)
	for i, r := range roots {
		k, _ := slices.BinarySearch(distinct, r)
		values[i] = k + 1
	}
	return finset.MustVector(finset.Range(n), finset.Range(len(distinct)), values)
}
