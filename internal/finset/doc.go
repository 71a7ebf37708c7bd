// Package finset provides finite sets and total functions between them.
//
// A Set is either the canonical range {1..n} or an explicit collection of
// ints. A Function is a total map between two Sets. Four representations are
// provided:
//
//   - Vector: an explicit value sequence over a range domain
//   - Vector built with NewIndexed: the same, plus a lazily built preimage index
//   - Identity: the identity on a set
//   - Rule: an arbitrary Go function, evaluated on demand
//
// Sets and functions are immutable. The one exception is the preimage index
// of an indexed Vector, which is built at most once and then cached; building
// it is safe for concurrent callers.
//
// Elements are 1-based throughout: the parts of a relational structure are
// numbered 1..n, and 0 is reserved to mean "unassigned" by callers that keep
// assignment arrays.
package finset
