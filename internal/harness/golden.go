package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario, checks its expectations, and compares the
// generated Cypher against a golden file when the scenario asks for it.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) {
	t.Helper()

	result := Run(scenario)
	for _, err := range Check(result) {
		t.Error(err)
	}

	if scenario.Golden {
		AssertGolden(t, scenario.Name, result.Output)
	}
}

// AssertGolden compares generated Cypher against a golden file.
// This is useful when a test already holds compiler output and wants to
// pin it without going through a scenario.
func AssertGolden(t *testing.T, name, output string) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(output))
}
