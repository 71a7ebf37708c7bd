package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/finrel/internal/compiler"
)

func TestValidateValidSpecs(t *testing.T) {
	out, err := execute(t, "validate", specsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All specs valid (1 schemas, 3 instances, 5 functions)")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", specsDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Instances)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	out, err := execute(t, "validate", badSpecsDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed with 2 error(s)")

	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, ErrCodeInstance)
	assert.Contains(t, out, "instance.Broken")
	assert.Contains(t, out, compiler.ErrInstanceIncomplete)
	assert.Contains(t, out, "tgt(1) is unset")
}

func TestValidateReportsEveryProblemJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "validate", badSpecsDir)
	require.Error(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 2)
	assert.Equal(t, ErrCodeInstance, resp.Error.Code)
	assert.Greater(t, resp.Data.Errors[0].Line, 0)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(t, "validate", "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestValidatePackagelessSpecs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.cue"),
		[]byte("function: f: {codom: 2, values: [1, 2]}\n"), 0644))

	_, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeLoadFailed)
	assert.Contains(t, err.Error(), "package clause")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.cue"),
		[]byte("package specs\n\nfunction: f: {codom: 2, values: [1, 2]}\n"), 0644))
	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 schemas, 0 instances, 1 functions")
}

func TestMapSectionToErrorCode(t *testing.T) {
	tests := map[string]string{
		"schema.Graph":   ErrCodeSchema,
		"instance.Edge":  ErrCodeInstance,
		"function.f":     ErrCodeFunction,
		"something.else": ErrCodeGeneric,
		"function":       ErrCodeFunction,
		"":               ErrCodeGeneric,
	}
	for path, want := range tests {
		assert.Equal(t, want, MapSectionToErrorCode(path), path)
	}
}
