package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/testutil"
)

func TestCompileCommand_TextToStdout(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)

	stdout, stderr, err := executeCommand("compile", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	want := `// VALIDATE: report WITH sum_check
// Validation rule: sum_check
MATCH (n:report)
// Add validation logic based on rule: sum_check
RETURN n;
`
	assert.Equal(t, want, stdout)
}

func TestCompileCommand_OutputFile(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)
	outPath := filepath.Join(t.TempDir(), "pipeline.cypher")

	stdout, _, err := executeCommand("compile", path, "-o", outPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ Compiled 1 statement(s)")
	assert.Contains(t, stdout, "Wrote Cypher to "+outPath)
	assert.NotContains(t, stdout, "RETURN n;")

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)

	want := `// VALIDATE: report WITH sum_check
// Validation rule: sum_check
MATCH (n:report)
// Add validation logic based on rule: sum_check
RETURN n;`
	assert.Equal(t, want, string(content))
}

func TestCompileCommand_JSONEnvelope(t *testing.T) {
	path := testutil.WriteSourceFile(t, testutil.PipelineSource())

	stdout, _, err := executeCommand("compile", path, "--format", "json")
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))

	assert.Equal(t, "ok", response.Status)
	assert.Nil(t, response.Error)

	_, err = uuid.Parse(response.TraceID)
	assert.NoError(t, err, "trace_id is not a UUID: %q", response.TraceID)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok, "data is not an object: %T", response.Data)
	assert.Equal(t, path, data["file"])
	assert.Equal(t, float64(7), data["statements"])
	assert.Contains(t, data["cypher"], "// LOAD_CSV: level1.csv AS measurement")
}

func TestCompileCommand_TraceIDDiffersPerInvocation(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)

	first, _, err := executeCommand("compile", path, "--format", "json")
	require.NoError(t, err)
	second, _, err := executeCommand("compile", path, "--format", "json")
	require.NoError(t, err)

	var a, b CLIResponse
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))
	assert.NotEqual(t, a.TraceID, b.TraceID)
}

func TestCompileCommand_SyntaxErrorText(t *testing.T) {
	path := testutil.WriteSourceFile(t, `LOAD_CSV "data.csv" INTO reading`)

	stdout, _, err := executeCommand("compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	want := "✗ Compilation failed\n\n" +
		path + ":1:21\n" +
		"  E003: expected \"AS\", got \"INTO\"\n"
	assert.Equal(t, want, stdout)
}

func TestCompileCommand_LexicalErrorJSON(t *testing.T) {
	path := testutil.WriteSourceFile(t, "NORMALIZE reading @ { }")

	stdout, _, err := executeCommand("compile", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var response CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))

	assert.Equal(t, "error", response.Status)
	require.NotNil(t, response.Error)
	assert.Equal(t, ErrCodeLexical, response.Error.Code)
	assert.Contains(t, response.Error.Message, "unexpected character")

	details, ok := response.Error.Details.(map[string]any)
	require.True(t, ok, "details is not an object: %T", response.Error.Details)
	assert.Equal(t, path, details["file"])
	assert.Equal(t, float64(1), details["line"])
	assert.Equal(t, float64(19), details["column"])
}

func TestCompileCommand_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.dsl")

	stdout, _, err := executeCommand("compile", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E001]")
}

func TestCompileCommand_WriteError(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)
	outPath := filepath.Join(t.TempDir(), "missing", "out.cypher")

	stdout, _, err := executeCommand("compile", path, "-o", outPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E004]")
}

func TestCompileCommand_VerboseGoesToStderr(t *testing.T) {
	path := testutil.WriteSourceFile(t, `VALIDATE report WITH "sum_check"`)
	outPath := filepath.Join(t.TempDir(), "pipeline.cypher")

	stdout, stderr, err := executeCommand("compile", path, "-o", outPath, "-v")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Parsing "+path)
	assert.Contains(t, stderr, "✓ Parsed 1 statement(s)")
	assert.Contains(t, stderr, "Generating Cypher code...")
	assert.Contains(t, stderr, "✓ Written to "+outPath)
	assert.NotContains(t, stdout, "Parsing")
}
