package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/compiler"
)

// CheckResult holds syntax check results.
type CheckResult struct {
	File       string `json:"file"`
	Valid      bool   `json:"valid"`
	Statements int    `json:"statements"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Check DSL syntax without generating Cypher",
		Long: `Check a DSL pipeline file for lexical and syntax errors.

Runs the same tokenizer and parser as compile but stops before code
generation. Faster feedback when editing pipeline definitions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	source, err := os.ReadFile(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeRead, fmt.Sprintf("reading %s: %v", path, err))
	}

	formatter.VerboseLog("Parsing %s...", path)

	program, err := compiler.Parse(string(source))
	if err != nil {
		return outputCompileFailure(formatter, path, err)
	}

	result := &CheckResult{
		File:       path,
		Valid:      true,
		Statements: len(program.Statements),
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Parsed %d statement(s)\n", result.Statements)
	return nil
}
