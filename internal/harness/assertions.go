package harness

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/dsl"
)

// AssertionError is returned when a scenario expectation fails.
// It includes the expected and actual outcomes to help debug the failure.
type AssertionError struct {
	Type     string // Expectation type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	return buf.String()
}

// Check evaluates every expectation the scenario declares against the
// result and returns one error per failure. An empty slice means the
// scenario passed.
func Check(result *Result) []error {
	scenario := result.Scenario

	if scenario.WantError != nil {
		return checkWantError(result)
	}

	if result.Err != nil {
		return []error{&AssertionError{
			Type:     "compile",
			Expected: "successful compilation",
			Actual:   result.Err.Error(),
		}}
	}

	var errs []error

	if scenario.Statements > 0 && result.Statements != scenario.Statements {
		errs = append(errs, &AssertionError{
			Type:     "statements",
			Expected: fmt.Sprintf("%d statement(s)", scenario.Statements),
			Actual:   fmt.Sprintf("%d statement(s)", result.Statements),
		})
	}

	for _, want := range scenario.Contains {
		if !strings.Contains(result.Output, want) {
			errs = append(errs, &AssertionError{
				Type:     "contains",
				Expected: fmt.Sprintf("output containing %q", want),
				Actual:   "substring not found",
			})
		}
	}

	return errs
}

// checkWantError validates an expected compilation failure.
func checkWantError(result *Result) []error {
	want := result.Scenario.WantError

	if result.Err == nil {
		return []error{&AssertionError{
			Type:     "want_error",
			Expected: "compilation failure",
			Actual:   "compilation succeeded",
		}}
	}

	var errs []error
	line, column := errorPosition(result.Err)

	if want.Line > 0 && line != want.Line {
		errs = append(errs, &AssertionError{
			Type:     "want_error",
			Expected: fmt.Sprintf("error on line %d", want.Line),
			Actual:   fmt.Sprintf("error on line %d", line),
		})
	}

	if want.Column > 0 && column != want.Column {
		errs = append(errs, &AssertionError{
			Type:     "want_error",
			Expected: fmt.Sprintf("error at column %d", want.Column),
			Actual:   fmt.Sprintf("error at column %d", column),
		})
	}

	if want.Contains != "" && !strings.Contains(result.Err.Error(), want.Contains) {
		errs = append(errs, &AssertionError{
			Type:     "want_error",
			Expected: fmt.Sprintf("error containing %q", want.Contains),
			Actual:   result.Err.Error(),
		})
	}

	return errs
}

// errorPosition extracts the source location from a compilation error.
func errorPosition(err error) (line, column int) {
	var lexErr *dsl.LexicalError
	if errors.As(err, &lexErr) {
		return lexErr.Line, lexErr.Column
	}

	var synErr *dsl.SyntaxError
	if errors.As(err, &synErr) {
		return synErr.Line, synErr.Column
	}

	return 0, 0
}
