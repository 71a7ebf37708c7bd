package harness

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/finrel/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func loadAll(t *testing.T) []*Scenario {
	t.Helper()
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	return scenarios
}

func scenarioNamed(t *testing.T, name string) *Scenario {
	t.Helper()
	for _, sc := range loadAll(t) {
		if sc.Name == name {
			return sc
		}
	}
	t.Fatalf("scenario %q not found", name)
	return nil
}

func TestRunAllScenariosPass(t *testing.T) {
	scenarios := loadAll(t)

	results, err := RunAll(context.Background(), scenarios, 2,
		WithIDGenerator(testutil.NewSequentialIDs("")))
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))

	ids := make(map[string]bool)
	for i, res := range results {
		assert.Equal(t, scenarios[i].Name, res.Name)
		assert.True(t, res.Pass, "%s: %v", res.Name, res.Errors)
		assert.Empty(t, res.Errors)
		ids[res.RunID] = true
	}
	assert.Len(t, ids, len(scenarios), "run ids must be distinct")
}

func TestRunWithGolden(t *testing.T) {
	for _, name := range []string{"edge_into_triangle", "pullback_f_g", "coequalize_swap", "pushout_span", "glue_diagram"} {
		t.Run(name, func(t *testing.T) {
			res, err := RunWithGolden(t, scenarioNamed(t, name))
			require.NoError(t, err)
			assert.True(t, res.Pass, "%v", res.Errors)
		})
	}
}

func TestRunReportsFailedAssertions(t *testing.T) {
	sc := scenarioNamed(t, "edge_into_triangle")
	sc.Assertions = []Assertion{{Type: AssertCount, Count: 4}}

	res, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, res.Pass)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "expected count 4, got 3")
}

func TestRunFirstOnly(t *testing.T) {
	sc := scenarioNamed(t, "edge_into_triangle")
	sc.Hom.All = false
	sc.Assertions = []Assertion{{Type: AssertCount, Count: 1}}

	res, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, res.Pass, "%v", res.Errors)
	require.Len(t, res.Homomorphisms, 1)
	assert.Equal(t, "V=[1 2] E=[1]", res.Homomorphisms[0].String())
}

func TestRunMonicRestriction(t *testing.T) {
	sc := scenarioNamed(t, "edge_into_triangle")
	sc.Hom.From, sc.Hom.To = "Triangle", "Triangle"
	sc.Hom.Monic = []string{"V"}
	sc.Assertions = []Assertion{{Type: AssertCount, Count: 3}, {Type: AssertIdentity}}

	res, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, res.Pass, "%v", res.Errors)
}

func TestRunUnknownNames(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
		base   string
	}{
		{
			name:   "unknown instance",
			base:   "edge_into_triangle",
			mutate: func(sc *Scenario) { sc.Hom.To = "Square" },
		},
		{
			name:   "unknown function",
			base:   "pullback_f_g",
			mutate: func(sc *Scenario) { sc.Join.Functions = []string{"f", "nope"} },
		},
		{
			name:   "codomain mismatch",
			base:   "pullback_f_g",
			mutate: func(sc *Scenario) { sc.Join.Functions = []string{"f", "h"} },
		},
		{
			name:   "unknown diagram edge",
			base:   "glue_diagram",
			mutate: func(sc *Scenario) { sc.Colimit.Edges[1].Function = "nope" },
		},
		{
			name:   "diagram edge between wrong sets",
			base:   "glue_diagram",
			mutate: func(sc *Scenario) { sc.Colimit.Edges[0].Tgt = 2 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scenarioNamed(t, tt.base)
			tt.mutate(sc)
			_, err := Run(context.Background(), sc)
			assert.Error(t, err)
		})
	}
}

func TestRunAllRecordsRunErrors(t *testing.T) {
	bad := scenarioNamed(t, "pullback_f_g")
	bad.Join.Functions = []string{"missing"}
	good := scenarioNamed(t, "coequalize_swap")

	results, err := RunAll(context.Background(), []*Scenario{bad, good}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Pass)
	assert.Contains(t, results[0].Errors[0], `unknown function "missing"`)
	assert.True(t, results[1].Pass)
}

func TestRunAllRejectsIncompleteInstance(t *testing.T) {
	dangling, err := LoadScenario("testdata/incomplete/dangling_into_triangle.yaml")
	require.NoError(t, err)
	good := scenarioNamed(t, "edge_into_triangle")

	var results []*Result
	require.NotPanics(t, func() {
		results, err = RunAll(context.Background(), []*Scenario{dangling, good}, 2)
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Pass)
	require.NotEmpty(t, results[0].Errors)
	assert.Contains(t, results[0].Errors[0], "CONFIGURATION_ERROR")
	assert.Contains(t, results[0].Errors[0], "tgt(1) is unset")
	assert.True(t, results[1].Pass)
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunAll(ctx, loadAll(t), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Run(context.Background(), scenarioNamed(t, "pullback_f_g"),
		WithLogger(logger), WithIDGenerator(testutil.NewSequentialIDs("log")))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "scenario finished")
	assert.Contains(t, out, "run_id=log-0001")
	assert.Contains(t, out, "sqlite join agrees")
}

func TestLoadSpecsUnifiesFiles(t *testing.T) {
	specs, err := LoadSpecs([]string{"testdata/specs/graphs.cue", "testdata/specs/functions.cue"})
	require.NoError(t, err)
	assert.Len(t, specs.Instances, 3)
	assert.Len(t, specs.Functions, 5)
}
