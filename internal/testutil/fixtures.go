// Package testutil provides shared fixtures for compiler tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// PipelineSource returns a seven-statement DSL pipeline covering every
// statement form once: load, normalize, aggregate with a time window,
// unit conversion, enrichment, computation, and validation.
//
// Tests across packages share this source so the statement count and the
// generated Cypher stay comparable everywhere it is used.
func PipelineSource() string {
	return `LOAD_CSV "level1.csv" AS measurement MAP_COLUMNS {
  factory -> factory_id,
  product -> product_id,
  quantity -> quantity,
  unit -> unit,
  fuel -> fuel_type,
  date -> measured_at
}

NORMALIZE measurement {
  unit: {
    "KG": "kg",
    "T": "t"
  },
  fuel_type: {
    "Diesel": "diesel"
  }
}

AGGREGATE measurement BY [factory_id, fuel_type] INTO activity_data
  AGG_SUM(quantity) AS total_quantity
  AGG_COUNT() AS record_count
  TIME_WINDOW monthly FROM measured_at INTO month

UNIT_CONVERT activity_data.total_quantity FROM t TO kg USING "unit_conversions.csv"

ENRICH activity_data WITH "emission_factors" MATCH ON fuel_type OUTPUT emission AS {
  co2_amount: activity.total_quantity * factor.co2_per_unit,
  scope: "scope1",
  source_key: activity.factory_id + "-" + activity.fuel_type
}

COMPUTE total_co2 FOR emission GROUP BY [factory_id, month] INTO ghg_report AS SUM(co2_amount)

VALIDATE ghg_report WITH "total_equals_sum"
`
}

// WriteSourceFile writes DSL source into a temporary file and returns its
// path. The file lives in t.TempDir() and is cleaned up with the test.
func WriteSourceFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pipeline.dsl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source file: %v", err)
	}
	return path
}
