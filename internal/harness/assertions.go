package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/finrel/internal/finset"
	"github.com/roach88/finrel/internal/homsearch"
	"github.com/roach88/finrel/internal/schema"
)

// EvaluateAssertions checks every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, &a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a *Assertion) error {
	switch a.Type {
	case AssertCount:
		if result.Count != a.Count {
			return fmt.Errorf("expected count %d, got %d", a.Count, result.Count)
		}
	case AssertExists:
		if got := result.Count > 0; got != *a.Exists {
			return fmt.Errorf("expected exists=%v, got %v", *a.Exists, got)
		}
	case AssertTuples:
		return assertTuples(result, a.Tuples)
	case AssertContains:
		return assertContains(result.Homomorphisms, a.Components)
	case AssertIdentity:
		return assertIdentity(result.Homomorphisms)
	case AssertLegs:
		return assertLegs(result, a.Legs)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func assertTuples(result *Result, want [][]int) error {
	if result.Cone == nil {
		return fmt.Errorf("no join result")
	}
	got := result.Cone.Tuples()
	if len(got) != len(want) {
		return fmt.Errorf("expected %d tuples, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			return fmt.Errorf("tuple %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	return nil
}

func assertContains(homs []*homsearch.Homomorphism, want map[string][]int) error {
	for _, h := range homs {
		if matchesComponents(h, want) {
			return nil
		}
	}
	return fmt.Errorf("no homomorphism among %d has components %v", len(homs), want)
}

func matchesComponents(h *homsearch.Homomorphism, want map[string][]int) bool {
	for name, values := range want {
		comp, ok := h.ComponentByName(name)
		if !ok || !slices.Equal(finset.Values(comp), values) {
			return false
		}
	}
	return true
}

func assertIdentity(homs []*homsearch.Homomorphism) error {
	for _, h := range homs {
		if h.Dom() != h.Codom() {
			return fmt.Errorf("domain and codomain differ, no identity exists")
		}
		id := homsearch.Identity(h.Dom())
		same := true
		for ob := range h.Dom().Schema().NumObs() {
			if !finset.Equal(h.Component(schema.ObID(ob)), id.Component(schema.ObID(ob))) {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return fmt.Errorf("identity not among %d homomorphisms", len(homs))
}

func assertLegs(result *Result, want [][]int) error {
	if result.Cocone == nil {
		return fmt.Errorf("no colimit result")
	}
	legs := result.Cocone.Legs
	if len(legs) != len(want) {
		return fmt.Errorf("expected %d legs, got %d", len(want), len(legs))
	}
	for i, leg := range legs {
		if got := finset.Values(leg); !slices.Equal(got, want[i]) {
			return fmt.Errorf("leg %d: expected %v, got %v", i, want[i], got)
		}
	}
	return nil
}
