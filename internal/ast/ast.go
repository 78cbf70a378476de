package ast

// Program is the root of a parsed DSL source file.
// Statements appear in source order; the generator emits one Cypher block per
// statement in the same order.
type Program struct {
	Statements []Statement
}

// Statement is the sealed interface over the seven DSL statement forms.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the generator.
type Statement interface {
	stmtNode() // Marker method - seals interface to this package
}

// Expr is the sealed interface over the DSL expression forms.
//
// This is a sealed interface - only types in this package implement it.
// Expressions appear in ENRICH output fields and in the COMPUTE aggregate
// position.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
}

// ColumnMapping maps one CSV source column to a field on the created node.
type ColumnMapping struct {
	Source string // CSV header name
	Target string // node property name
}

// Load ingests a CSV file into nodes with a given label.
//
// Grammar:
//
//	LOAD_CSV "path.csv" AS label [MAP_COLUMNS { src -> dst, ... }]
//
// Columns preserves declaration order. A repeated source column keeps its
// first-declared position with the last-declared target (mapping-update
// semantics). Columns is nil when no MAP_COLUMNS clause was written.
type Load struct {
	Path      string
	NodeLabel string
	Columns   []ColumnMapping
}

func (*Load) stmtNode() {}

// ValueMapping replaces one property value with another.
type ValueMapping struct {
	Old string
	New string
}

// PropertyRule holds the value rewrites declared for a single property.
type PropertyRule struct {
	Property string
	Mappings []ValueMapping
}

// Normalize rewrites property values on nodes with a given label.
//
// Grammar:
//
//	NORMALIZE label { property: { old: new, ... }, ... }
//
// Both levels preserve declaration order with mapping-update semantics on
// repeated keys.
type Normalize struct {
	NodeLabel string
	Rules     []PropertyRule
}

func (*Normalize) stmtNode() {}

// AggFunc names an aggregation function.
type AggFunc string

// The three aggregation functions the grammar admits.
const (
	AggSum   AggFunc = "sum"
	AggCount AggFunc = "count"
	AggFirst AggFunc = "first"
)

// AggregationClause is one aggregation projection, e.g. AGG_SUM(qty) AS total.
// Field is empty for a bare AGG_COUNT().
type AggregationClause struct {
	Func  AggFunc
	Field string
	Alias string
}

// TimeWindow derives an extra grouping key by truncating a timestamp field to
// a coarser granularity. Mode is kept verbatim; granularity resolution
// (including the monthly fallback for unknown modes) happens at generation.
type TimeWindow struct {
	Mode        string
	SourceField string
	TargetField string
}

// Aggregate groups source nodes and creates one aggregate node per group.
//
// Grammar:
//
//	AGGREGATE src BY [key, ...] INTO dst
//	  (AGG_SUM|AGG_COUNT|TAKE_FIRST(field?) AS alias)*
//	  [TIME_WINDOW mode FROM field INTO field]
//
// GroupBy order defines both the query grouping and the generated node's key
// order. Clauses may be empty; Window is nil when absent.
type Aggregate struct {
	SourceLabel string
	GroupBy     []string
	TargetLabel string
	Clauses     []AggregationClause
	Window      *TimeWindow
}

func (*Aggregate) stmtNode() {}

// UnitConvert records a unit conversion request. The conversion table is a
// reference only — generation emits a skeleton and never loads the table.
type UnitConvert struct {
	NodeLabel string
	Field     string
	FromUnit  string
	ToUnit    string
	Table     string
}

func (*UnitConvert) stmtNode() {}

// OutputField pairs a generated node field with its value expression.
type OutputField struct {
	Name  string
	Value Expr
}

// Enrich joins source nodes against a factor table and creates result nodes
// whose fields are computed expressions.
//
// Grammar:
//
//	ENRICH src WITH table MATCH ON key OUTPUT dst AS { field: expr, ... }
//
// Outputs preserves declaration order with mapping-update semantics.
type Enrich struct {
	SourceLabel string
	Table       string
	MatchKey    string
	TargetLabel string
	Outputs     []OutputField
}

func (*Enrich) stmtNode() {}

// Compute projects one aggregate expression over grouped source nodes into a
// field on a target node.
//
// Grammar:
//
//	COMPUTE field FOR src GROUP BY (key | [key, ...]) INTO dst AS expr
//
// Only the first GroupBy key participates in the generated merge key, even
// when several are declared.
type Compute struct {
	Field       string
	SourceLabel string
	GroupBy     []string
	TargetLabel string
	Expr        Expr
}

func (*Compute) stmtNode() {}

// Validate names a validation rule for nodes with a label. The rule is an
// opaque string; generation embeds it in comments and never evaluates it.
type Validate struct {
	NodeLabel string
	Rule      string
}

func (*Validate) stmtNode() {}

// Identifier is a name reference, optionally dotted (alias.field). The dotted
// form has no parse-time meaning; the generator resolves the prefix against
// its alias table.
type Identifier struct {
	Name string
}

func (*Identifier) exprNode() {}

// Number is a numeric literal. A literal written with a decimal point is
// floating (IsFloat set, value in Float); otherwise it is integral (value in
// Int). The distinction survives to generation so 10 and 10.0 render
// differently.
type Number struct {
	Int     int64
	Float   float64
	IsFloat bool
}

func (*Number) exprNode() {}

// String is a string literal with escape sequences already resolved.
type String struct {
	Value string
}

func (*String) exprNode() {}

// BinaryOp is an arithmetic operation over two subexpressions.
// Operator is one of + - * /. Trees are built bottom-up by the precedence
// levels of the parser, so nesting reflects binding strength.
type BinaryOp struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (*BinaryOp) exprNode() {}

// FunctionCall applies a named function to a single identifier argument.
// The grammar admits exactly one positional argument and no nested calls.
type FunctionCall struct {
	Name string
	Arg  string
}

func (*FunctionCall) exprNode() {}

// Concatenation is an ordered chain of parts joined with +. Parts are only
// ever Identifier or String nodes — the dedicated concatenation scan in the
// parser never admits numbers or nested operations.
type Concatenation struct {
	Parts []Expr
}

func (*Concatenation) exprNode() {}
