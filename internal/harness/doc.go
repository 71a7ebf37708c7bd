// Package harness runs conformance scenarios against compiled structures
// and functions.
//
// A scenario names CUE spec files, one query (a homomorphism search, a
// join or a colimit) and assertions on the outcome.
//
// # Scenario Format
//
//	name: triangle_from_edge
//	description: "An edge maps onto a directed triangle three ways"
//	specs:
//	  - ../specs/graphs.cue
//	hom:
//	  from: Edge
//	  to: Triangle
//	  all: true
//	assertions:
//	  - type: count
//	    count: 3
//
// Join scenarios list named functions and the algorithms and backends to
// cross-check:
//
//	join:
//	  functions: [f, g]
//	  algorithms: [nested-loop, sort-merge, hash]
//	  backends: [memory, sqlite]
//
// Colimit scenarios take exactly one of coequalize, pushout, coproduct or
// a general diagram of sets and edges:
//
//	colimit:
//	  coequalize: [f, g]
//
//	colimit:
//	  sets: [3, 3, 2]
//	  edges:
//	    - {src: 0, tgt: 1, function: f}
//	    - {src: 0, tgt: 2, function: h}
//
// # Assertion Types
//
//   - count: number of homomorphisms, tuples or classes
//   - exists: whether any homomorphism or tuple was found
//   - tuples: the exact joined tuples, in lexicographic order
//   - contains: some homomorphism has the given components
//   - identity: the identity is among the homomorphisms found
//   - legs: the colimit legs, one value list per diagram object
//
// Spec paths in scenario files are relative to the scenario file.
// Every run gets a run id; results are otherwise deterministic and can be
// compared against golden files with RunWithGolden.
package harness
