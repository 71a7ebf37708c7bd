// Package acset provides relational structures: instances of a schema.
//
// A Structure holds, per object-type, a part count n (parts are numbered
// 1..n); per morphism-type, a total function between part sets; and per
// attribute-morphism, a column of attribute values (ir.IRValue).
//
// Consumers that only read structures should depend on the Accessor
// interface. The homomorphism search reads structures exclusively through it.
package acset
