// Package dsl provides lexical analysis and recursive-descent parsing for the
// ontology-transform language.
//
// The pipeline is two explicit stages: NewLexer(source).Tokenize() produces
// the token stream, NewParser(tokens).Parse() produces an *ast.Program.
// Both stages fail fast — the first unrecognized character or token mismatch
// aborts the compile with a position-carrying error and no partial result.
package dsl

// Kind identifies a token's lexical class.
//
// Kinds are compared only by identity (== or switch); nothing depends on the
// numeric order of the constants.
type Kind uint8

// Token kinds. KindInvalid is the zero value so an uninitialized token is
// never mistaken for a real one.
const (
	KindInvalid Kind = iota
	KindEOF

	// Literals and names
	KindIdentifier
	KindNumber
	KindString

	// Statement and clause keywords
	KindLoadCSV
	KindMapColumns
	KindNormalize
	KindAggregate
	KindBy
	KindInto
	KindAggSum
	KindAggCount
	KindTakeFirst
	KindTimeWindow
	KindFrom
	KindTo
	KindUnitConvert
	KindUsing
	KindEnrich
	KindWith
	KindMatch
	KindOn
	KindOutput
	KindAs
	KindCompute
	KindFor
	KindGroup
	KindValidate

	// Punctuation and operators
	KindLBrace
	KindRBrace
	KindLBracket
	KindRBracket
	KindLParen
	KindRParen
	KindComma
	KindColon
	KindArrow
	KindDot
	KindPlus
	KindMinus
	KindStar
	KindSlash
)

// Token is one lexical unit of DSL source. Literal holds the matched text
// (escape-resolved content for strings, the spelled form for everything
// else). Line and Column are 1-based and refer to the token's first
// character.
type Token struct {
	Kind    Kind
	Literal string
	Line    int
	Column  int
}

// keywords maps spelled keyword text to its kind. Matching is exact and
// case-sensitive: "load_csv" is an ordinary identifier.
var keywords = map[string]Kind{
	"LOAD_CSV":     KindLoadCSV,
	"MAP_COLUMNS":  KindMapColumns,
	"NORMALIZE":    KindNormalize,
	"AGGREGATE":    KindAggregate,
	"BY":           KindBy,
	"INTO":         KindInto,
	"AGG_SUM":      KindAggSum,
	"AGG_COUNT":    KindAggCount,
	"TAKE_FIRST":   KindTakeFirst,
	"TIME_WINDOW":  KindTimeWindow,
	"FROM":         KindFrom,
	"TO":           KindTo,
	"UNIT_CONVERT": KindUnitConvert,
	"USING":        KindUsing,
	"ENRICH":       KindEnrich,
	"WITH":         KindWith,
	"MATCH":        KindMatch,
	"ON":           KindOn,
	"OUTPUT":       KindOutput,
	"AS":           KindAs,
	"COMPUTE":      KindCompute,
	"FOR":          KindFor,
	"GROUP":        KindGroup,
	"VALIDATE":     KindValidate,
}

// lookupIdent returns the keyword kind for exact keyword text, otherwise
// KindIdentifier.
func lookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return KindIdentifier
}

// String returns a human-readable name for the kind: the spelled keyword or
// symbol where one exists, a class name otherwise. Used in error messages and
// token dumps.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of input"
	case KindIdentifier:
		return "identifier"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindLoadCSV:
		return "LOAD_CSV"
	case KindMapColumns:
		return "MAP_COLUMNS"
	case KindNormalize:
		return "NORMALIZE"
	case KindAggregate:
		return "AGGREGATE"
	case KindBy:
		return "BY"
	case KindInto:
		return "INTO"
	case KindAggSum:
		return "AGG_SUM"
	case KindAggCount:
		return "AGG_COUNT"
	case KindTakeFirst:
		return "TAKE_FIRST"
	case KindTimeWindow:
		return "TIME_WINDOW"
	case KindFrom:
		return "FROM"
	case KindTo:
		return "TO"
	case KindUnitConvert:
		return "UNIT_CONVERT"
	case KindUsing:
		return "USING"
	case KindEnrich:
		return "ENRICH"
	case KindWith:
		return "WITH"
	case KindMatch:
		return "MATCH"
	case KindOn:
		return "ON"
	case KindOutput:
		return "OUTPUT"
	case KindAs:
		return "AS"
	case KindCompute:
		return "COMPUTE"
	case KindFor:
		return "FOR"
	case KindGroup:
		return "GROUP"
	case KindValidate:
		return "VALIDATE"
	case KindLBrace:
		return "{"
	case KindRBrace:
		return "}"
	case KindLBracket:
		return "["
	case KindRBracket:
		return "]"
	case KindLParen:
		return "("
	case KindRParen:
		return ")"
	case KindComma:
		return ","
	case KindColon:
		return ":"
	case KindArrow:
		return "->"
	case KindDot:
		return "."
	case KindPlus:
		return "+"
	case KindMinus:
		return "-"
	case KindStar:
		return "*"
	case KindSlash:
		return "/"
	default:
		return "invalid"
	}
}
