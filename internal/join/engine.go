package join

import (
	"cmp"
	"slices"

	"github.com/roach88/finrel/internal/finset"
)

// Tuple is one row of a join: Tuple[i] is an element of the i-th domain.
type Tuple = []int

// NestedLoopJoin enumerates the product of all domains and keeps the tuples
// on which every function agrees. Cost is the product of the domain sizes.
func NestedLoopJoin(fs []finset.Function) []Tuple {
	domains := make([][]int, len(fs))
	for i, f := range fs {
		domains[i] = f.Dom().Elements()
	}
	var out []Tuple
	product(domains, func(t Tuple) {
		v := fs[0].Apply(t[0])
		for i := 1; i < len(fs); i++ {
			if fs[i].Apply(t[i]) != v {
				return
			}
		}
		out = append(out, slices.Clone(t))
	})
	return out
}

type entry struct {
	value, elem int
}

// SortMergeJoin sorts each domain by function value and scans all inputs
// in step. Only cursors at the current minimum value advance; when every
// cursor sits on the same value, the product of the equal-value runs is
// emitted and all cursors move past their runs.
func SortMergeJoin(fs []finset.Function) []Tuple {
	sorted := make([][]entry, len(fs))
	for i, f := range fs {
		col := make([]entry, 0, f.Dom().Len())
		for x := range f.Dom().All() {
			col = append(col, entry{value: f.Apply(x), elem: x})
		}
		slices.SortStableFunc(col, func(a, b entry) int { return cmp.Compare(a.value, b.value) })
		sorted[i] = col
	}

	var out []Tuple
	cursor := make([]int, len(fs))
	runs := make([][]int, len(fs))
	for {
		lo, hi := 0, 0
		for i, col := range sorted {
			if cursor[i] >= len(col) {
				return out
			}
			v := col[cursor[i]].value
			if i == 0 || v < lo {
				lo = v
			}
			if i == 0 || v > hi {
				hi = v
			}
		}
		if lo != hi {
			for i, col := range sorted {
				if col[cursor[i]].value == lo {
					cursor[i]++
				}
			}
			continue
		}
		for i, col := range sorted {
			runs[i] = runs[i][:0]
			for cursor[i] < len(col) && col[cursor[i]].value == lo {
				runs[i] = append(runs[i], col[cursor[i]].elem)
				cursor[i]++
			}
		}
		product(runs, func(t Tuple) { out = append(out, slices.Clone(t)) })
	}
}

// HashJoin drives from the largest unindexed input (the first input if all are
// indexed) and looks up every other input's preimage of each driving value.
// Inputs without a preimage index get a temporary one.
func HashJoin(fs []finset.Function) []Tuple {
	driver := driverInput(fs)
	lookups := make([]func(int) []int, len(fs))
	for i, f := range fs {
		if i == driver {
			continue
		}
		lookups[i] = preimageLookup(f)
	}

	var out []Tuple
	lists := make([][]int, len(fs))
	for x := range fs[driver].Dom().All() {
		v := fs[driver].Apply(x)
		empty := false
		for i := range fs {
			if i == driver {
				lists[i] = []int{x}
				continue
			}
			lists[i] = lookups[i](v)
			if len(lists[i]) == 0 {
				empty = true
				break
			}
		}
		if empty {
			continue
		}
		product(lists, func(t Tuple) { out = append(out, slices.Clone(t)) })
	}
	return out
}

// driverInput returns the position of the largest unindexed input, or 0 if
// every input is indexed.
func driverInput(fs []finset.Function) int {
	driver, size := -1, -1
	for i, f := range fs {
		if indexed(f) {
			continue
		}
		if n := f.Dom().Len(); n > size {
			driver, size = i, n
		}
	}
	if driver < 0 {
		return 0
	}
	return driver
}

func indexed(f finset.Function) bool {
	switch fn := f.(type) {
	case *finset.Vector:
		return fn.Indexed()
	case finset.Identity:
		return true
	}
	return false
}

func preimageLookup(f finset.Function) func(int) []int {
	if indexed(f) {
		return func(y int) []int {
			xs, _ := finset.Preimage(f, y)
			return xs
		}
	}
	index := make(map[int][]int)
	for x := range f.Dom().All() {
		y := f.Apply(x)
		index[y] = append(index[y], x)
	}
	return func(y int) []int { return index[y] }
}

// product calls emit with every tuple of the Cartesian product of lists, in
// lexicographic position order. The tuple passed to emit is reused.
func product(lists [][]int, emit func(Tuple)) {
	for _, l := range lists {
		if len(l) == 0 {
			return
		}
	}
	pos := make([]int, len(lists))
	t := make(Tuple, len(lists))
	for {
		for i, l := range lists {
			t[i] = l[pos[i]]
		}
		emit(t)
		i := len(lists) - 1
		for ; i >= 0; i-- {
			pos[i]++
			if pos[i] < len(lists[i]) {
				break
			}
			pos[i] = 0
		}
		if i < 0 {
			return
		}
	}
}
