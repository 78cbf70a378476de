package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a compilation conformance scenario.
// Scenarios feed DSL source through the compiler and assert on the
// generated Cypher or on the reported error.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source is the DSL text to compile.
	Source string `yaml:"source"`

	// Statements is the expected number of parsed statements.
	// Zero leaves the count unchecked.
	Statements int `yaml:"statements,omitempty"`

	// Contains lists substrings the generated Cypher must include.
	Contains []string `yaml:"contains,omitempty"`

	// Golden compares the full output against testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// WantError declares that compilation must fail.
	// Mutually exclusive with the output expectations above.
	WantError *WantError `yaml:"want_error,omitempty"`
}

// WantError specifies the expected compilation failure.
// Zero-valued fields are not checked.
type WantError struct {
	// Line is the expected 1-based source line of the error.
	Line int `yaml:"line,omitempty"`

	// Column is the expected 1-based source column of the error.
	Column int `yaml:"column,omitempty"`

	// Contains is a substring the error message must include.
	Contains string `yaml:"contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "contain:" vs "contains:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by filename.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, scenario)
	}

	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Source == "" {
		return fmt.Errorf("source is required")
	}

	if s.WantError != nil {
		if s.Statements != 0 || len(s.Contains) != 0 || s.Golden {
			return fmt.Errorf("want_error excludes statements, contains, and golden")
		}
		if s.WantError.Line == 0 && s.WantError.Column == 0 && s.WantError.Contains == "" {
			return fmt.Errorf("want_error must set at least one of line, column, contains")
		}
		return nil
	}

	if s.Statements == 0 && len(s.Contains) == 0 && !s.Golden {
		return fmt.Errorf("scenario declares no expectations")
	}

	if s.Statements < 0 {
		return fmt.Errorf("statements must be non-negative")
	}

	return nil
}
