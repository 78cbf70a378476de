// Package compiler wires the translation pipeline end to end: lexical
// analysis, recursive-descent parsing, and Cypher generation behind a single
// call.
//
// The package works on in-memory strings only. Sourcing DSL text and placing
// the generated output belong to the callers; the compiler never touches the
// filesystem or the process environment.
package compiler

import (
	"github.com/miwamasa/ccw-dynamic-ontology/internal/ast"
	"github.com/miwamasa/ccw-dynamic-ontology/internal/cypher"
	"github.com/miwamasa/ccw-dynamic-ontology/internal/dsl"
)

// Parse runs the front half of the pipeline and returns the program tree.
// The error is a *dsl.LexicalError or a *dsl.SyntaxError; the first problem
// aborts the compile and no partial tree is returned.
func Parse(source string) (*ast.Program, error) {
	tokens, err := dsl.NewLexer(source).Tokenize()
	if err != nil {
		return nil, err
	}
	return dsl.NewParser(tokens).Parse()
}

// Compile translates DSL source text into Cypher text. Compilation is a pure
// function of the source: identical input yields byte-identical output.
func Compile(source string) (string, error) {
	program, err := Parse(source)
	if err != nil {
		return "", err
	}
	return cypher.Generate(program), nil
}
