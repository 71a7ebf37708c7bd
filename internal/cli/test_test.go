package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTestsPass(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ edge_into_triangle")
	assert.Contains(t, out, "✓ pullback_f_g")
	assert.Contains(t, out, "✓ pushout_f_h")
	assert.Contains(t, out, "Test Summary: 3 passed, 0 failed, 3 total")
}

func TestRunTestsJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "test", scenariosDir, "--filter", "pu*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	for _, s := range resp.Data.Scenarios {
		assert.NotEmpty(t, s.RunID)
	}
}

func TestRunTestsMissingDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunTestsNoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

// copyFixture lays out specs and one scenario in a temp dir.
func copyFixture(t *testing.T, scenario string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "specs"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scenarios"), 0755))
	for _, name := range []string{"graphs.cue", "functions.cue"} {
		data, err := os.ReadFile(filepath.Join(specsDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "specs", name), data, 0644))
	}
	data, err := os.ReadFile(filepath.Join(scenariosDir, scenario))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scenarios", scenario), data, 0644))
	return filepath.Join(dir, "scenarios")
}

func TestRunTestsUpdateThenCompare(t *testing.T) {
	dir := copyFixture(t, "pushout-f-h.yaml")

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err, out)

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "pushout-f-h.golden"))
	require.NoError(t, err)
	assert.Equal(t,
		`{"count":2,"kind":"colimit","legs":[[1,1,1],[1,1,2],[1,1]],"projection":[1,1,1,1,1,2,1,1],"scenario":"pushout_f_h"}`,
		string(golden))

	_, err = execute(t, "test", dir)
	require.NoError(t, err)
}

func TestRunTestsGoldenMismatch(t *testing.T) {
	dir := copyFixture(t, "pushout-f-h.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "pushout-f-h.golden"), []byte("{}"), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "snapshot does not match golden file")
}

func TestRunTestsReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\nbogus: 1\n"), 0644))

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestFindScenarioFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test1.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "test2.yml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "ignore.txt"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "join-a.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "join-b.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "hom-a.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "join-*")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Contains(t, filepath.Base(f), "join-")
	}
}

func TestFindScenarioFilesSkipsGolden(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "golden"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755))

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "root.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "sub", "nested.yaml"), []byte(""), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "golden", "stray.yaml"), []byte(""), 0644))

	files, err := findScenarioFiles(tmpDir, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestGoldenFilePath(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"/path/to/scenario.yaml", "/path/to/golden/scenario.golden"},
		{"/path/to/scenario.yml", "/path/to/golden/scenario.golden"},
		{"scenarios/test.yaml", "scenarios/golden/test.golden"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, goldenFilePath(tc.input))
	}
}
