package join

import (
	"fmt"
	"strings"
)

// Algorithm selects a join strategy.
type Algorithm int

const (
	// Auto picks Hash.
	Auto Algorithm = iota
	NestedLoop
	SortMerge
	Hash
)

// Algorithms lists the concrete strategies.
var Algorithms = []Algorithm{NestedLoop, SortMerge, Hash}

// String returns the flag spelling of a.
func (a Algorithm) String() string {
	switch a {
	case Auto:
		return "auto"
	case NestedLoop:
		return "nested-loop"
	case SortMerge:
		return "sort-merge"
	case Hash:
		return "hash"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm parses the String form (case-insensitive). "nested",
// "sort" and "merge" are accepted as short forms.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Auto, nil
	case "nested-loop", "nested":
		return NestedLoop, nil
	case "sort-merge", "sort", "merge":
		return SortMerge, nil
	case "hash":
		return Hash, nil
	}
	return Auto, fmt.Errorf("unknown join algorithm %q (want auto, nested-loop, sort-merge or hash)", s)
}
