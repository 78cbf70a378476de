package cypher

import (
	"fmt"
	"slices"
	"strings"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/ast"
)

// Generate renders a program as Cypher text. Each statement becomes one
// self-contained block; blocks are joined with a blank line, in statement
// order. Generation is pure and total: any tree the parser can build (and
// some it cannot, like an aggregate with no clauses) produces output, never
// an error.
func Generate(program *ast.Program) string {
	return strings.Join(Blocks(program), "\n\n")
}

// Blocks renders a program as an ordered sequence of Cypher blocks, one per
// statement. A fresh slice is returned on every call; there is no state
// carried between invocations.
func Blocks(program *ast.Program) []string {
	var blocks []string
	for _, stmt := range program.Statements {
		if block := generateStatement(stmt); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func generateStatement(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.Load:
		return generateLoad(s)
	case *ast.Normalize:
		return generateNormalize(s)
	case *ast.Aggregate:
		return generateAggregate(s)
	case *ast.UnitConvert:
		return generateUnitConvert(s)
	case *ast.Enrich:
		return generateEnrich(s)
	case *ast.Compute:
		return generateCompute(s)
	case *ast.Validate:
		return generateValidate(s)
	default:
		return ""
	}
}

// generateLoad renders a CSV load: the LOAD CSV clause, then node
// construction from the column map in declared order. When the column map
// touches the factory naming convention (a "factory" source column or a
// "factory_id" target field), the block also merges a factory node and links
// the loaded node to it. The convention is a fixed column-name match, not a
// declared schema.
func generateLoad(stmt *ast.Load) string {
	lines := []string{fmt.Sprintf("// LOAD_CSV: %s AS %s", stmt.Path, stmt.NodeLabel)}
	lines = append(lines, fmt.Sprintf("LOAD CSV WITH HEADERS FROM \"file:///%s\" AS row", stmt.Path))
	lines = append(lines, "WITH row")

	if loadLinksFactory(stmt) {
		lines = append(lines, "MERGE (f:factory { id: row.factory })")
	}

	fields := make([]string, 0, len(stmt.Columns))
	for _, col := range stmt.Columns {
		fields = append(fields, fmt.Sprintf("  %s: row.%s", col.Target, col.Source))
	}

	lines = append(lines, fmt.Sprintf("CREATE (m:%s {", stmt.NodeLabel))
	lines = append(lines, strings.Join(fields, ",\n"))
	lines = append(lines, "})")

	if loadLinksFactory(stmt) {
		lines = append(lines, "MERGE (m)-[:AT_FACTORY]->(f);")
	} else {
		lines = append(lines, ";")
	}

	return strings.Join(lines, "\n")
}

// loadLinksFactory reports whether the column map triggers the factory
// linking convention.
func loadLinksFactory(stmt *ast.Load) bool {
	for _, col := range stmt.Columns {
		if col.Source == "factory" || col.Target == "factory_id" {
			return true
		}
	}
	return false
}

// generateNormalize renders one independent match-filter-assign block per
// (property, old value) pair, in declared order. Blocks do not share a MATCH.
func generateNormalize(stmt *ast.Normalize) string {
	lines := []string{fmt.Sprintf("// NORMALIZE: %s", stmt.NodeLabel)}

	for _, rule := range stmt.Rules {
		for _, m := range rule.Mappings {
			lines = append(lines,
				fmt.Sprintf("MATCH (n:%s)", stmt.NodeLabel),
				fmt.Sprintf("WHERE n.%s = '%s'", rule.Property, m.Old),
				fmt.Sprintf("SET n.%s = '%s';", rule.Property, m.New),
				"",
			)
		}
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// generateAggregate renders a grouped projection over the source nodes and
// constructs one target node from the projected keys. Projection order is
// group-by keys, then the time-window bucket, then aggregation clauses; the
// constructed node repeats the keys and aliases with the bucket field last.
// A "factory_id" group-by key triggers the same factory linking convention
// as Load.
func generateAggregate(stmt *ast.Aggregate) string {
	lines := []string{fmt.Sprintf("// AGGREGATE: %s -> %s", stmt.SourceLabel, stmt.TargetLabel)}
	lines = append(lines, fmt.Sprintf("MATCH (m:%s)", stmt.SourceLabel))

	var withParts []string
	for _, field := range stmt.GroupBy {
		withParts = append(withParts, fmt.Sprintf("  m.%s AS %s", field, field))
	}
	if stmt.Window != nil {
		expr := truncateExpr(stmt.Window.Mode, "m."+stmt.Window.SourceField)
		withParts = append(withParts, fmt.Sprintf("  %s AS %s", expr, stmt.Window.TargetField))
	}
	for _, clause := range stmt.Clauses {
		if term := aggregationTerm(clause); term != "" {
			withParts = append(withParts, "  "+term)
		}
	}

	lines = append(lines, "WITH")
	lines = append(lines, strings.Join(withParts, ",\n"))

	var createFields []string
	for _, field := range stmt.GroupBy {
		createFields = append(createFields, fmt.Sprintf("  %s: %s", field, field))
	}
	for _, clause := range stmt.Clauses {
		createFields = append(createFields, fmt.Sprintf("  %s: %s", clause.Alias, clause.Alias))
	}
	if stmt.Window != nil {
		createFields = append(createFields, fmt.Sprintf("  %s: %s", stmt.Window.TargetField, stmt.Window.TargetField))
	}

	lines = append(lines, fmt.Sprintf("CREATE (a:%s {", stmt.TargetLabel))
	lines = append(lines, strings.Join(createFields, ",\n"))
	lines = append(lines, "})")

	if slices.Contains(stmt.GroupBy, "factory_id") {
		lines = append(lines,
			"WITH a",
			"MATCH (f:factory { id: a.factory_id })",
			"MERGE (a)-[:AT_FACTORY]->(f);",
		)
	} else {
		lines = append(lines, ";")
	}

	return strings.Join(lines, "\n")
}

// aggregationTerm renders one projection term. An aggregate over an unknown
// function renders nothing; its alias still appears in the constructed node.
func aggregationTerm(clause ast.AggregationClause) string {
	switch clause.Func {
	case ast.AggSum:
		return fmt.Sprintf("SUM(m.%s) AS %s", clause.Field, clause.Alias)
	case ast.AggCount:
		if clause.Field != "" {
			return fmt.Sprintf("COUNT(m.%s) AS %s", clause.Field, clause.Alias)
		}
		return fmt.Sprintf("COUNT(*) AS %s", clause.Alias)
	case ast.AggFirst:
		return fmt.Sprintf("COLLECT(m.%s)[0] AS %s", clause.Field, clause.Alias)
	default:
		return ""
	}
}

// generateUnitConvert renders a skeleton block: it matches nodes on the
// current unit and rewrites the unit label, with placeholder comments where
// the conversion-table lookup and value scaling would go. The table is never
// loaded; the partial output is the contract, not a gap.
func generateUnitConvert(stmt *ast.UnitConvert) string {
	lines := []string{
		fmt.Sprintf("// UNIT_CONVERT: %s.%s FROM %s TO %s", stmt.NodeLabel, stmt.Field, stmt.FromUnit, stmt.ToUnit),
		fmt.Sprintf("// Note: Load conversion factors from %s", stmt.Table),
		"// This is a placeholder - actual implementation requires loading the conversion table",
		fmt.Sprintf("MATCH (n:%s)", stmt.NodeLabel),
		fmt.Sprintf("WHERE n.unit = '%s'", stmt.FromUnit),
		"// MERGE with conversion factor table here",
		fmt.Sprintf("// SET n.%s = n.%s * conversion_factor", stmt.Field, stmt.Field),
		fmt.Sprintf("SET n.unit = '%s';", stmt.ToUnit),
	}

	return strings.Join(lines, "\n")
}

// generateEnrich renders a two-entity join on the match key, constructs a
// result node from the declared output expressions, and links it back to the
// source entity. Output expressions render without a context alias; dotted
// identifiers resolve through the alias table.
func generateEnrich(stmt *ast.Enrich) string {
	lines := []string{fmt.Sprintf("// ENRICH: %s WITH %s", stmt.SourceLabel, stmt.Table)}
	lines = append(lines, fmt.Sprintf("MATCH (a:%s), (ef:%s)", stmt.SourceLabel, stmt.Table))
	lines = append(lines, fmt.Sprintf("WHERE a.%s = ef.%s", stmt.MatchKey, stmt.MatchKey))

	fields := make([]string, 0, len(stmt.Outputs))
	for _, out := range stmt.Outputs {
		fields = append(fields, fmt.Sprintf("  %s: %s", out.Name, renderExpr(out.Value, "")))
	}

	lines = append(lines, fmt.Sprintf("CREATE (e:%s {", stmt.TargetLabel))
	lines = append(lines, strings.Join(fields, ",\n"))
	lines = append(lines, "})")
	lines = append(lines, "MERGE (e)-[:FROM_ACTIVITY]->(a);")

	return strings.Join(lines, "\n")
}

// generateCompute renders a grouped projection carrying the evaluated
// expression, then merges a target node keyed by the first group-by field
// only. Remaining group-by fields shape the projection but never the merge
// key. With no group-by fields at all the target node merges without a key.
func generateCompute(stmt *ast.Compute) string {
	lines := []string{fmt.Sprintf("// COMPUTE: %s FOR %s", stmt.Field, stmt.SourceLabel)}
	lines = append(lines, fmt.Sprintf("MATCH (e:%s)", stmt.SourceLabel))

	keys := make([]string, 0, len(stmt.GroupBy))
	for _, field := range stmt.GroupBy {
		keys = append(keys, "e."+field)
	}
	lines = append(lines, fmt.Sprintf("WITH %s, %s AS %s", strings.Join(keys, ", "), renderExpr(stmt.Expr, "e"), stmt.Field))

	if len(stmt.GroupBy) > 0 {
		lines = append(lines, fmt.Sprintf("MERGE (g:%s { %s: e.%s })", stmt.TargetLabel, stmt.GroupBy[0], stmt.GroupBy[0]))
	} else {
		lines = append(lines, fmt.Sprintf("MERGE (g:%s)", stmt.TargetLabel))
	}
	lines = append(lines, fmt.Sprintf("SET g.%s = %s;", stmt.Field, stmt.Field))

	return strings.Join(lines, "\n")
}

// generateValidate renders a skeleton block: a match and a pass-through
// return, with the rule name embedded as comments only. Rules are never
// evaluated.
func generateValidate(stmt *ast.Validate) string {
	lines := []string{
		fmt.Sprintf("// VALIDATE: %s WITH %s", stmt.NodeLabel, stmt.Rule),
		fmt.Sprintf("// Validation rule: %s", stmt.Rule),
		fmt.Sprintf("MATCH (n:%s)", stmt.NodeLabel),
		fmt.Sprintf("// Add validation logic based on rule: %s", stmt.Rule),
		"RETURN n;",
	}

	return strings.Join(lines, "\n")
}
