package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/testutil"
)

func TestCheckCommand_Text(t *testing.T) {
	path := testutil.WriteSourceFile(t, testutil.PipelineSource())

	stdout, stderr, err := executeCommand("check", path)
	require.NoError(t, err)

	assert.Equal(t, "✓ Parsed 7 statement(s)\n", stdout)
	assert.Empty(t, stderr)
}

func TestCheckCommand_JSON(t *testing.T) {
	path := testutil.WriteSourceFile(t, testutil.PipelineSource())

	stdout, _, err := executeCommand("check", path, "--format", "json")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))

	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.TraceID)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok, "data is not an object: %T", response.Data)
	assert.Equal(t, path, data["file"])
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(7), data["statements"])
}

func TestCheckCommand_SyntaxError(t *testing.T) {
	path := testutil.WriteSourceFile(t, "INTO ghg_report")

	stdout, _, err := executeCommand("check", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Contains(t, stdout, "✗ Compilation failed")
	assert.Contains(t, stdout, path+":1:1")
	assert.Contains(t, stdout, `E003: unexpected "INTO"`)
}

func TestCheckCommand_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.dsl")

	stdout, _, err := executeCommand("check", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E001]")
}

func TestCheckCommand_Verbose(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)

	_, stderr, err := executeCommand("check", path, "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Parsing "+path)
}
