// Package main provides the CLI entry point for ontoc, the dynamic
// ontology DSL compiler.
//
// Usage:
//
//	ontoc compile pipeline.dsl               # Compile to Cypher on stdout
//	ontoc compile pipeline.dsl -o out.cypher # Compile to a file
//	ontoc check pipeline.dsl                 # Syntax check only
//	ontoc tokens pipeline.dsl                # Dump the token stream
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands that classified their error already printed it through
		// the formatter; anything else (flag errors, invalid format) still
		// needs a message.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
