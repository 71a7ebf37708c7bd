package finset

import (
	"fmt"
	"iter"
	"slices"
)

// Set is a finite set of ints: either the range {1..n} or an explicit
// collection. The zero value is the empty range.
type Set struct {
	n      int
	elems  []int // nil for range sets
	member map[int]struct{}
}

// Range returns the canonical set {1..n}. Negative n is treated as 0.
func Range(n int) Set {
	if n < 0 {
		n = 0
	}
	return Set{n: n}
}

// Of returns an explicit set holding elems. Duplicates are dropped and the
// first-occurrence order is kept as the iteration order.
func Of(elems ...int) Set {
	member := make(map[int]struct{}, len(elems))
	kept := make([]int, 0, len(elems))
	for _, e := range elems {
		if _, dup := member[e]; dup {
			continue
		}
		member[e] = struct{}{}
		kept = append(kept, e)
	}
	return Set{n: len(kept), elems: kept, member: member}
}

// Len returns the number of elements.
func (s Set) Len() int { return s.n }

// IsRange reports whether s is the canonical range {1..Len()}.
func (s Set) IsRange() bool { return s.elems == nil }

// Contains reports membership.
func (s Set) Contains(x int) bool {
	if s.elems == nil {
		return x >= 1 && x <= s.n
	}
	_, ok := s.member[x]
	return ok
}

// Elements returns the elements in iteration order. The slice is a copy.
func (s Set) Elements() []int {
	if s.elems != nil {
		return slices.Clone(s.elems)
	}
	out := make([]int, s.n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// All iterates the elements in order.
func (s Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if s.elems == nil {
			for i := 1; i <= s.n; i++ {
				if !yield(i) {
					return
				}
			}
			return
		}
		for _, e := range s.elems {
			if !yield(e) {
				return
			}
		}
	}
}

// Equal reports whether two sets hold the same elements.
func (s Set) Equal(t Set) bool {
	if s.n != t.n {
		return false
	}
	if s.elems == nil && t.elems == nil {
		return true
	}
	for x := range s.All() {
		if !t.Contains(x) {
			return false
		}
	}
	return true
}

// String renders the set for diagnostics.
func (s Set) String() string {
	if s.elems == nil {
		return fmt.Sprintf("FinSet(%d)", s.n)
	}
	return fmt.Sprintf("FinSet%v", s.elems)
}
