package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with the given arguments and captures
// both output streams.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	cmd := NewRootCommand()

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	stdout, _, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.0.0")
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "compile")
	assert.Contains(t, stdout, "check")
	assert.Contains(t, stdout, "tokens")
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	_, _, err := executeCommand("--format", "xml", "check", "pipeline.dsl")
	require.Error(t, err)

	assert.Contains(t, err.Error(), `invalid format "xml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_UnknownFlag(t *testing.T) {
	_, _, err := executeCommand("--bogus")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "unknown flag")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_CompileRequiresFileArgument(t *testing.T) {
	_, _, err := executeCommand("compile")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
