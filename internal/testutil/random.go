package testutil

import (
	"math/rand/v2"

	"github.com/roach88/finrel/internal/acset"
	"github.com/roach88/finrel/internal/finset"
)

// Source produces deterministic pseudo-random fixtures for property tests.
// Two Sources built with the same seed produce the same sequence.
type Source struct {
	rng *rand.Rand
}

// NewSource returns a Source seeded with seed.
func NewSource(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN returns a value in [0, n).
func (s *Source) IntN(n int) int { return s.rng.IntN(n) }

// Function returns a random vector function Range(n) -> Range(codom).
// codom must be positive unless n is 0.
func (s *Source) Function(n, codom int) *finset.Vector {
	values := make([]int, n)
	for i := range values {
		values[i] = s.rng.IntN(codom) + 1
	}
	return finset.MustVector(finset.Range(n), finset.Range(codom), values)
}

// Functions returns k random functions into a shared codomain, with domain
// sizes drawn from [0, maxDom].
func (s *Source) Functions(k, maxDom, codom int) []finset.Function {
	fs := make([]finset.Function, k)
	for i := range fs {
		fs[i] = s.Function(s.rng.IntN(maxDom+1), codom)
	}
	return fs
}

// Graph returns a random graph over GraphSchema with nv vertices and ne
// edges. nv must be positive unless ne is 0.
func (s *Source) Graph(nv, ne int) *acset.Structure {
	edges := make([][2]int, ne)
	for i := range edges {
		edges[i] = [2]int{s.rng.IntN(nv) + 1, s.rng.IntN(nv) + 1}
	}
	return Graph(GraphSchema(), nv, edges...)
}
