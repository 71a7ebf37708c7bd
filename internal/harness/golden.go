package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/ir"
)

// Snapshot renders the deterministic part of a result: everything except
// the run id and assertion outcome.
func Snapshot(scenario *Scenario, result *Result) ir.IRObject {
	snap := ir.IRObject{
		"scenario": ir.IRString(scenario.Name),
		"kind":     ir.IRString(scenario.Kind()),
		"count":    ir.IRInt(result.Count),
	}
	switch {
	case result.Homomorphisms != nil:
		homs := make(ir.IRArray, len(result.Homomorphisms))
		for i, h := range result.Homomorphisms {
			homs[i] = h.Encode()
		}
		snap["homomorphisms"] = homs
	case result.Cone != nil:
		tuples := make(ir.IRArray, 0, result.Cone.Len())
		for _, t := range result.Cone.Tuples() {
			tuples = append(tuples, ir.IntArray(t))
		}
		snap["tuples"] = tuples
	case result.Cocone != nil:
		legs := make(ir.IRArray, len(result.Cocone.Legs))
		for i, leg := range result.Cocone.Legs {
			legs[i] = ir.IntArray(finset.Values(leg))
		}
		snap["legs"] = legs
		snap["projection"] = ir.IntArray(finset.Values(result.Cocone.Projection))
	}
	return snap
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against the golden
// file named after the scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(scenario, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
