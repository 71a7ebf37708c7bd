// Package join computes limits of diagrams of finite functions sharing a
// codomain: multiway equi-joins.
//
// Given f_1: X_1 -> V, ..., f_k: X_k -> V, the limit is the set of tuples
// (x_1, ..., x_k) in X_1 x ... x X_k with f_1(x_1) = ... = f_k(x_k), together
// with the projections back to each X_i. Three algorithms compute it:
//
//   - NestedLoop enumerates the full product. It is the reference.
//   - SortMerge sorts each input by value and merge-scans with one cursor per
//     input.
//   - Hash drives from the largest unindexed input into preimage indexes of
//     the others.
//
// All three produce the same set of tuples; only cost differs. Join functions
// are stateless and safe to call concurrently on independent inputs.
package join
