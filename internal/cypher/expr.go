package cypher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/ast"
)

// varAliases maps recognized dotted-identifier prefixes to the single-letter
// query variables the statement rules bind: the source entity (a), the
// reference table (ef), and the result entity (e). Unrecognized prefixes
// pass through unchanged.
var varAliases = map[string]string{
	"activity":        "a",
	"a":               "a",
	"emission_factor": "ef",
	"ef":              "ef",
	"factor":          "ef",
	"emission":        "e",
	"e":               "e",
}

// renderExpr renders an expression tree as Cypher text. contextAlias, when
// non-empty, qualifies plain identifiers and function arguments that are not
// already dotted; Compute passes its projection variable, Enrich passes
// nothing.
func renderExpr(expr ast.Expr, contextAlias string) string {
	switch e := expr.(type) {
	case *ast.Identifier:
		return renderIdentifier(e.Name, contextAlias)

	case *ast.Number:
		return renderNumber(e)

	case *ast.String:
		return "'" + e.Value + "'"

	case *ast.BinaryOp:
		left := renderExpr(e.Left, contextAlias)
		right := renderExpr(e.Right, contextAlias)
		return fmt.Sprintf("(%s %s %s)", left, e.Operator, right)

	case *ast.FunctionCall:
		arg := e.Arg
		if contextAlias != "" && !strings.Contains(arg, ".") {
			arg = contextAlias + "." + arg
		}
		return fmt.Sprintf("%s(%s)", strings.ToUpper(e.Name), arg)

	case *ast.Concatenation:
		parts := make([]string, 0, len(e.Parts))
		for _, part := range e.Parts {
			switch p := part.(type) {
			case *ast.String:
				parts = append(parts, "'"+p.Value+"'")
			case *ast.Identifier:
				parts = append(parts, renderIdentifier(p.Name, ""))
			default:
				parts = append(parts, renderExpr(part, contextAlias))
			}
		}
		return strings.Join(parts, " + ")

	default:
		return ""
	}
}

// renderIdentifier resolves an identifier to query text. A single-dotted
// name resolves its prefix through the alias table, falling through
// unchanged when the prefix is unknown. A plain name takes the context alias
// as qualifier when one is supplied.
func renderIdentifier(name, contextAlias string) string {
	parts := strings.Split(name, ".")
	if len(parts) == 2 {
		if alias, ok := varAliases[parts[0]]; ok {
			return alias + "." + parts[1]
		}
		return name
	}
	if contextAlias != "" && len(parts) == 1 {
		return contextAlias + "." + name
	}
	return name
}

// renderNumber renders a numeric literal. Floating values always carry a
// decimal point, so a value that parsed from "2.0" does not round-trip to
// the integer spelling "2".
func renderNumber(n *ast.Number) string {
	if n.IsFloat {
		s := strconv.FormatFloat(n.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatInt(n.Int, 10)
}

// truncateExpr renders the time-bucket truncation expression for a window
// mode. Modes are case-insensitive and accept singular or adjectival
// spellings; anything unrecognized falls back to the monthly template.
func truncateExpr(mode, field string) string {
	switch strings.ToLower(mode) {
	case "monthly", "month":
		return fmt.Sprintf("date.truncate('month', datetime(%s))", field)
	case "daily", "day":
		return fmt.Sprintf("date.truncate('day', datetime(%s))", field)
	case "yearly", "year":
		return fmt.Sprintf("date.truncate('year', datetime(%s))", field)
	case "weekly", "week":
		return fmt.Sprintf("date.truncate('week', datetime(%s))", field)
	case "hourly", "hour":
		return fmt.Sprintf("datetime.truncate('hour', datetime(%s))", field)
	default:
		return fmt.Sprintf("date.truncate('month', datetime(%s))", field)
	}
}
