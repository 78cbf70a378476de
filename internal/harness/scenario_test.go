package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes scenario YAML into a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: basic_validate
description: "Parses a single validate statement"
source: |
  VALIDATE report WITH "sum_check"
statements: 1
contains:
  - "RETURN n;"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "basic_validate", scenario.Name)
	assert.Equal(t, "Parses a single validate statement", scenario.Description)
	assert.Equal(t, "VALIDATE report WITH \"sum_check\"\n", scenario.Source)
	assert.Equal(t, 1, scenario.Statements)
	assert.Equal(t, []string{"RETURN n;"}, scenario.Contains)
	assert.Nil(t, scenario.WantError)
	assert.False(t, scenario.Golden)
}

func TestLoadScenario_WantError(t *testing.T) {
	path := writeScenario(t, `
name: expected_failure
description: "Declares an expected compile failure"
source: "INTO ghg_report"
want_error:
  line: 1
  column: 1
  contains: "unexpected"
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	require.NotNil(t, scenario.WantError)
	assert.Equal(t, 1, scenario.WantError.Line)
	assert.Equal(t, 1, scenario.WantError.Column)
	assert.Equal(t, "unexpected", scenario.WantError.Contains)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled expectation key"
source: "VALIDATE report WITH \"rule\""
contain:
  - "RETURN n;"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "No name"
source: "VALIDATE report WITH \"rule\""
statements: 1
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: no_description
source: "VALIDATE report WITH \"rule\""
statements: 1
`,
			wantErr: "description is required",
		},
		{
			name: "missing source",
			content: `
name: no_source
description: "Nothing to compile"
statements: 1
`,
			wantErr: "source is required",
		},
		{
			name: "no expectations",
			content: `
name: vacuous
description: "Declares nothing to check"
source: "VALIDATE report WITH \"rule\""
`,
			wantErr: "declares no expectations",
		},
		{
			name: "negative statements",
			content: `
name: negative
description: "Impossible statement count"
source: "VALIDATE report WITH \"rule\""
statements: -1
`,
			wantErr: "statements must be non-negative",
		},
		{
			name: "want_error with golden",
			content: `
name: conflict
description: "Error scenarios cannot pin golden output"
source: "INTO ghg_report"
golden: true
want_error:
  line: 1
`,
			wantErr: "want_error excludes",
		},
		{
			name: "empty want_error",
			content: `
name: empty_error
description: "Nothing to check on the error"
source: "INTO ghg_report"
want_error: {}
`,
			wantErr: "at least one of line, column, contains",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeScenario(t, tc.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadScenarios_SortedByFilename(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml"} {
		content := fmt.Sprintf(`
name: %s
description: "Ordering probe"
source: "VALIDATE report WITH \"rule\""
statements: 1
`, strings.TrimSuffix(name, ".yaml"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	scenarios, err := LoadScenarios(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "a", scenarios[0].Name)
	assert.Equal(t, "b", scenarios[1].Name)
}

func TestLoadScenarios_EmptyDir(t *testing.T) {
	_, err := LoadScenarios(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios found")
}

func TestLoadScenarios_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
description: "No name"
source: "VALIDATE report WITH \"rule\""
statements: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(content), 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
	assert.Contains(t, err.Error(), "name is required")
}
