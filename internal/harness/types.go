package harness

import (
	"github.com/roach88/finrel/internal/colimit"
	"github.com/roach88/finrel/internal/homsearch"
	"github.com/roach88/finrel/internal/join"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// RunID identifies this execution. It is not part of the snapshot.
	RunID string `json:"run_id"`

	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Errors contains assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Count is the number of homomorphisms, tuples or classes found.
	Count int `json:"count"`

	// Query outcomes; exactly one is set, matching the scenario kind.
	Homomorphisms []*homsearch.Homomorphism `json:"-"`
	Cone          *join.Cone                `json:"-"`
	Cocone        *colimit.Cocone           `json:"-"`
}

// NewResult creates a new passing result.
func NewResult(name, runID string) *Result {
	return &Result{
		Name:   name,
		RunID:  runID,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
