// Package harness provides conformance testing for the DSL compiler.
//
// The harness loads compilation scenarios from YAML files, runs each one
// through the full lexer/parser/generator pipeline, and checks the declared
// expectations against the outcome. Golden files pin the exact Cypher text
// for end-to-end scenarios.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	source: |
//	  LOAD_CSV "data.csv" AS record MAP_COLUMNS { col -> prop }
//	statements: 1
//	contains:
//	  - 'LOAD CSV WITH HEADERS FROM "file:///data.csv" AS row'
//	golden: true
//
// Scenarios that expect a compilation failure declare want_error instead:
//
//	want_error:
//	  line: 2
//	  column: 5
//	  contains: "expected"
//
// # Expectations
//
// The following expectations are supported:
//
//   - statements: the number of statements the parser produced
//   - contains: substrings the generated Cypher must include
//   - golden: compare the full output against testdata/golden/{name}.golden
//   - want_error: compilation must fail at the given position with a
//     message containing the given substring
//
// A scenario declares either want_error or output expectations, never both.
package harness
