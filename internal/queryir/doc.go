// Package queryir provides an abstract intermediate representation for
// conjunctive queries over function relations.
//
// A finite function f: X -> V is stored as a relation with columns
// (elem, value). The limit of f_1, ..., f_k is then the conjunctive query
//
//	SELECT r1.elem, ..., rk.elem
//	FROM f_1 r1 JOIN f_2 r2 ON r1.value = r2.value ... JOIN f_k rk ON ...
//
// QueryIR is the boundary between that description and a backend engine.
// The in-memory join package evaluates limits directly; the querysql package
// compiles the same query to SQL for the SQLite store, which acts as an
// independent oracle for the in-memory algorithms.
//
// # Equi-join fragment
//
// The fragment every backend must support:
//   - Select(from, alias, filter, bindings): relation access
//   - Join(left, right, on): inner joins only
//   - Predicates: Equals (column = literal), ColumnEquals (column = column), And
//   - Explicit bindings (no SELECT *)
//
// Validate reports queries that leave the fragment.
//
// # Sealed interfaces
//
// Query and Predicate are sealed with marker methods, so backend compilers
// can switch exhaustively over node types.
package queryir
