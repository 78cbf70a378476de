package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/compiler"
	"github.com/miwamasa/ccw-dynamic-ontology/internal/cypher"
	"github.com/miwamasa/ccw-dynamic-ontology/internal/dsl"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult holds the compiled output for JSON responses.
type CompileResult struct {
	File       string `json:"file"`
	Statements int    `json:"statements"`
	Cypher     string `json:"cypher"`
}

// CompileDiagnostic locates a compilation error in the source file.
type CompileDiagnostic struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a DSL file to Cypher",
		Long: `Compile a DSL pipeline file to Cypher queries.

The compiler tokenizes and parses the DSL source, then generates one
Cypher block per statement. Output goes to stdout unless --output names
a destination file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	source, err := os.ReadFile(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeRead, fmt.Sprintf("reading %s: %v", path, err))
	}

	formatter.VerboseLog("Parsing %s...", path)

	program, err := compiler.Parse(string(source))
	if err != nil {
		return outputCompileFailure(formatter, path, err)
	}

	formatter.VerboseLog("✓ Parsed %d statement(s)", len(program.Statements))
	formatter.VerboseLog("Generating Cypher code...")

	cypherText := cypher.Generate(program)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(cypherText), 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWrite, fmt.Sprintf("writing %s: %v", opts.Output, err))
		}
		formatter.VerboseLog("✓ Written to %s", opts.Output)
	}

	result := &CompileResult{
		File:       path,
		Statements: len(program.Statements),
		Cypher:     cypherText,
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// outputCompileSuccess outputs successful compilation results. With no
// output file the Cypher itself goes to the writer; otherwise a short
// confirmation does.
func outputCompileSuccess(formatter *OutputFormatter, result *CompileResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if outputFile == "" {
		fmt.Fprintln(formatter.Writer, result.Cypher)
		return nil
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d statement(s)\n", result.Statements)
	fmt.Fprintf(formatter.Writer, "Wrote Cypher to %s\n", outputFile)
	return nil
}

// outputCompileFailure reports a lexical or syntax error in the source and
// maps it to the compilation-failure exit code.
func outputCompileFailure(formatter *OutputFormatter, path string, err error) error {
	code, diag, message := describeCompileError(path, err)

	if formatter.Format == "json" {
		_ = formatter.Error(code, message, diag)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "%s:%d:%d\n", diag.File, diag.Line, diag.Column)
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, message)

	return NewExitError(ExitFailure, fmt.Sprintf("%s: %s", code, message))
}

// describeCompileError classifies a pipeline error and extracts its source
// location.
func describeCompileError(path string, err error) (code string, diag *CompileDiagnostic, message string) {
	var lexErr *dsl.LexicalError
	if errors.As(err, &lexErr) {
		return ErrCodeLexical, &CompileDiagnostic{File: path, Line: lexErr.Line, Column: lexErr.Column}, lexErr.Message
	}

	var synErr *dsl.SyntaxError
	if errors.As(err, &synErr) {
		return ErrCodeSyntax, &CompileDiagnostic{File: path, Line: synErr.Line, Column: synErr.Column}, synErr.Message()
	}

	return ErrCodeSyntax, &CompileDiagnostic{File: path}, err.Error()
}

// outputCommandError reports an I/O or usage problem and maps it to the
// command-error exit code.
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
