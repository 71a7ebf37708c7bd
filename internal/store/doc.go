// Package store provides a SQLite-backed relation store for finite
// functions.
//
// A function f: X -> V is loaded as a relation table with one row per
// domain element (elem, value), indexed on value. The catalog table
// "relations" records every loaded function under its content hash, so
// loading the same function twice reuses one table.
//
// Join evaluates the limit of several functions by compiling a QueryIR
// limit query to SQL. It returns the same tuples, in the same lexicographic
// order, as join.Limit, which makes the store an independent oracle for the
// in-memory join algorithms.
//
// # Deterministic results
//
// Every query includes an ORDER BY; the catalog is read in load order.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
