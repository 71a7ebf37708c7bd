// Package colimit computes colimits of diagrams of finite sets by
// union-find: coproducts, coequalizers, pushouts and general quotients.
//
// The colimit of a diagram is the coproduct of its objects modulo the
// smallest equivalence identifying a with f(a) for every edge f and element
// a. Classes are numbered densely from 1 in ascending order of their
// union-find root, so a given diagram always yields the same numbering.
package colimit
