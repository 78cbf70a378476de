package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	opts := &RootOptions{Verbose: true, Format: "json"}

	f := newFormatter(opts, out, errOut)
	assert.Equal(t, "json", f.Format)
	assert.True(t, f.Verbose)
	assert.NotEmpty(t, f.TraceID)

	g := newFormatter(opts, out, errOut)
	assert.NotEqual(t, f.TraceID, g.TraceID, "each invocation gets its own trace ID")
}

func TestOutputFormatter_SuccessText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf, TraceID: "trace-123"}

	require.NoError(t, f.Success(map[string]int{"statements": 7}))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "trace-123", response.TraceID)
	assert.Nil(t, response.Error)

	data, ok := response.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), data["statements"])
}

func TestOutputFormatter_ErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(ErrCodeSyntax, "expected something", "ignored"))
	assert.Equal(t, "Error [E003]: expected something\n", buf.String())
}

func TestOutputFormatter_ErrorTextVerboseDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error(ErrCodeRead, "cannot open", "no such file"))
	assert.Contains(t, buf.String(), "Error [E001]: cannot open")
	assert.Contains(t, buf.String(), "Details: no such file")
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf, TraceID: "trace-456"}

	require.NoError(t, f.Error(ErrCodeLexical, "unexpected character", map[string]int{"line": 3}))

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "error", response.Status)
	assert.Equal(t, "trace-456", response.TraceID)
	require.NotNil(t, response.Error)
	assert.Equal(t, "E002", response.Error.Code)
	assert.Equal(t, "unexpected character", response.Error.Message)
}

func TestVerboseLog(t *testing.T) {
	t.Run("disabled is silent", func(t *testing.T) {
		out := &bytes.Buffer{}
		errOut := &bytes.Buffer{}
		f := &OutputFormatter{Writer: out, ErrWriter: errOut}

		f.VerboseLog("never %d", 1)
		assert.Empty(t, out.String())
		assert.Empty(t, errOut.String())
	})

	t.Run("prefers the error writer", func(t *testing.T) {
		out := &bytes.Buffer{}
		errOut := &bytes.Buffer{}
		f := &OutputFormatter{Writer: out, ErrWriter: errOut, Verbose: true}

		f.VerboseLog("parsed %d statement(s)", 7)
		assert.Empty(t, out.String())
		assert.Equal(t, "parsed 7 statement(s)\n", errOut.String())
	})

	t.Run("falls back to the writer", func(t *testing.T) {
		out := &bytes.Buffer{}
		f := &OutputFormatter{Writer: out, Verbose: true}

		f.VerboseLog("tokenized")
		assert.Equal(t, "tokenized\n", out.String())
	})
}

func TestExitError(t *testing.T) {
	plain := NewExitError(ExitFailure, "compilation failed")
	assert.Equal(t, "compilation failed", plain.Error())
	assert.Nil(t, plain.Unwrap())

	underlying := errors.New("disk full")
	wrapped := WrapExitError(ExitCommandError, "writing output", underlying)
	assert.Equal(t, "writing output: disk full", wrapped.Error())
	assert.Equal(t, underlying, wrapped.Unwrap())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"compilation failure", NewExitError(ExitFailure, "boom"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "boom"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("context: %w", NewExitError(ExitFailure, "boom")), ExitFailure},
		{"plain error", errors.New("boom"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
