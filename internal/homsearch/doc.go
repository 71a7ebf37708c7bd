// Package homsearch finds homomorphisms between relational structures.
//
// The search is a backtracking constraint solver. Variables are pairs
// (object-type, part) of the domain structure; values are parts of the
// codomain structure of the same object-type. At each depth the solver picks
// the unassigned variable with the fewest remaining legal values (MRV),
// breaking ties by object-type order and then part order, and tries its
// candidates in ascending order.
//
// Assigning a variable immediately propagates along every outgoing
// morphism-type: assigning x to y forces f(x) to f(y). Re-assigning a pair to
// the value it already holds succeeds without further propagation, which is
// what terminates propagation on cyclic schemas. Every commit is tagged with
// the search depth that made it, and undo at depth d reverts exactly those
// commits.
//
// A search is single-threaded and owns its state. Independent searches may
// run concurrently on the same (unmodified) structures.
//
// "No homomorphism" is a normal outcome: FindOne returns (nil, nil), Exists
// returns false, FindAll returns an empty slice. Errors are reserved for
// malformed configuration.
package homsearch
