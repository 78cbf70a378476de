package harness

import (
	"github.com/miwamasa/ccw-dynamic-ontology/internal/compiler"
	"github.com/miwamasa/ccw-dynamic-ontology/internal/cypher"
)

// Result is the outcome of running one scenario through the compiler.
type Result struct {
	// Scenario is the scenario that produced this result.
	Scenario *Scenario

	// Output is the generated Cypher. Empty when compilation failed.
	Output string

	// Statements is the number of statements the parser produced.
	Statements int

	// Err is the compilation error, nil on success.
	Err error
}

// Run compiles the scenario source and captures the outcome.
// A compilation error lands in the result rather than aborting the run,
// so error scenarios can assert on it like any other expectation.
func Run(scenario *Scenario) *Result {
	result := &Result{Scenario: scenario}

	program, err := compiler.Parse(scenario.Source)
	if err != nil {
		result.Err = err
		return result
	}

	result.Statements = len(program.Statements)
	result.Output = cypher.Generate(program)
	return result
}
