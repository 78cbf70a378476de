package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/dsl"
)

// TokenInfo is the JSON projection of one token.
type TokenInfo struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream for a DSL file",
		Long: `Dump the token stream the lexer produces for a DSL pipeline file.

Each line shows a token's position, kind, and literal text. Useful when
tracking down unexpected-token syntax errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runTokens(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	source, err := os.ReadFile(path)
	if err != nil {
		return outputCommandError(formatter, ErrCodeRead, fmt.Sprintf("reading %s: %v", path, err))
	}

	tokens, err := dsl.NewLexer(string(source)).Tokenize()
	if err != nil {
		return outputCompileFailure(formatter, path, err)
	}

	formatter.VerboseLog("✓ Tokenized %d token(s)", len(tokens))

	if formatter.Format == "json" {
		infos := make([]TokenInfo, len(tokens))
		for i, tok := range tokens {
			infos[i] = TokenInfo{
				Kind:    tok.Kind.String(),
				Literal: tok.Literal,
				Line:    tok.Line,
				Column:  tok.Column,
			}
		}
		return formatter.Success(infos)
	}

	for _, tok := range tokens {
		fmt.Fprintf(formatter.Writer, "%4d:%-4d %-12s %q\n", tok.Line, tok.Column, tok.Kind.String(), tok.Literal)
	}
	return nil
}
