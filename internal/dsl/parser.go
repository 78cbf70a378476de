package dsl

import (
	"strconv"
	"strings"

	"github.com/miwamasa/ccw-dynamic-ontology/internal/ast"
)

// Parser consumes a token stream left to right and builds an *ast.Program by
// recursive descent. Lookahead is one token (two for the function-call check
// in primary expressions); there is no backtracking and no error recovery —
// the first mismatch aborts the parse.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over a token stream, normally the output of
// Lexer.Tokenize.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes statements until end of input and returns the program.
// Statement order in the program matches source order.
func (p *Parser) Parse() (*ast.Program, error) {
	program := &ast.Program{}
	for p.current().Kind != KindEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

// current returns the token at the cursor. Past the end it keeps returning
// the final token, which Tokenize guarantees is KindEOF.
func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Kind: KindEOF}
}

// peek returns the token after the current one.
func (p *Parser) peek() Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Kind: KindEOF}
}

func (p *Parser) advance() {
	p.pos++
}

// expect consumes and returns the current token when it has the wanted kind,
// otherwise it reports a syntax error at the token's position.
func (p *Parser) expect(kind Kind) (Token, error) {
	tok := p.current()
	if tok.Kind != kind {
		return Token{}, &SyntaxError{Expected: kind, Actual: tok.Kind, Line: tok.Line, Column: tok.Column}
	}
	p.advance()
	return tok, nil
}

// parseStatement dispatches on the leading keyword to exactly one statement
// parser. Any other leading token is a syntax error.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch tok := p.current(); tok.Kind {
	case KindLoadCSV:
		return p.parseLoad()
	case KindNormalize:
		return p.parseNormalize()
	case KindAggregate:
		return p.parseAggregate()
	case KindUnitConvert:
		return p.parseUnitConvert()
	case KindEnrich:
		return p.parseEnrich()
	case KindCompute:
		return p.parseCompute()
	case KindValidate:
		return p.parseValidate()
	default:
		return nil, &SyntaxError{Actual: tok.Kind, Line: tok.Line, Column: tok.Column}
	}
}

// parseLoad parses
//
//	LOAD_CSV "path" AS label [MAP_COLUMNS { src -> dst, ... }]
func (p *Parser) parseLoad() (ast.Statement, error) {
	if _, err := p.expect(KindLoadCSV); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(KindString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindAs); err != nil {
		return nil, err
	}
	labelTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}

	var columns []ast.ColumnMapping
	if p.current().Kind == KindMapColumns {
		p.advance()
		if _, err := p.expect(KindLBrace); err != nil {
			return nil, err
		}
		for p.current().Kind != KindRBrace {
			srcTok, err := p.expect(KindIdentifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(KindArrow); err != nil {
				return nil, err
			}
			dstTok, err := p.expect(KindIdentifier)
			if err != nil {
				return nil, err
			}
			columns = upsertColumn(columns, srcTok.Literal, dstTok.Literal)
			if p.current().Kind == KindComma {
				p.advance()
			}
		}
		if _, err := p.expect(KindRBrace); err != nil {
			return nil, err
		}
	}

	return &ast.Load{Path: pathTok.Literal, NodeLabel: labelTok.Literal, Columns: columns}, nil
}

// parseNormalize parses
//
//	NORMALIZE label { property: { old: new, ... }, ... }
func (p *Parser) parseNormalize() (ast.Statement, error) {
	if _, err := p.expect(KindNormalize); err != nil {
		return nil, err
	}
	labelTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindLBrace); err != nil {
		return nil, err
	}

	var rules []ast.PropertyRule
	for p.current().Kind != KindRBrace {
		propTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindColon); err != nil {
			return nil, err
		}
		if _, err := p.expect(KindLBrace); err != nil {
			return nil, err
		}

		var mappings []ast.ValueMapping
		for p.current().Kind != KindRBrace {
			oldVal, err := p.parseValueLiteral()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(KindColon); err != nil {
				return nil, err
			}
			newVal, err := p.parseValueLiteral()
			if err != nil {
				return nil, err
			}
			mappings = upsertValue(mappings, oldVal, newVal)
			if p.current().Kind == KindComma {
				p.advance()
			}
		}
		if _, err := p.expect(KindRBrace); err != nil {
			return nil, err
		}

		rules = upsertRule(rules, propTok.Literal, mappings)
		if p.current().Kind == KindComma {
			p.advance()
		}
	}
	if _, err := p.expect(KindRBrace); err != nil {
		return nil, err
	}

	return &ast.Normalize{NodeLabel: labelTok.Literal, Rules: rules}, nil
}

// parseAggregate parses
//
//	AGGREGATE src BY [key, ...] INTO dst
//	  (AGG_SUM|AGG_COUNT|TAKE_FIRST(field?) AS alias)*
//	  [TIME_WINDOW mode FROM field INTO field]
func (p *Parser) parseAggregate() (ast.Statement, error) {
	if _, err := p.expect(KindAggregate); err != nil {
		return nil, err
	}
	srcTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindBy); err != nil {
		return nil, err
	}
	groupBy, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindInto); err != nil {
		return nil, err
	}
	dstTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}

	var clauses []ast.AggregationClause
	for isAggregationKeyword(p.current().Kind) {
		fn := aggFuncFor(p.current().Kind)
		p.advance()
		if _, err := p.expect(KindLParen); err != nil {
			return nil, err
		}
		var field string
		if p.current().Kind == KindIdentifier {
			field = p.current().Literal
			p.advance()
		}
		if _, err := p.expect(KindRParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(KindAs); err != nil {
			return nil, err
		}
		aliasTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, ast.AggregationClause{Func: fn, Field: field, Alias: aliasTok.Literal})
	}

	var window *ast.TimeWindow
	if p.current().Kind == KindTimeWindow {
		p.advance()
		modeTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindFrom); err != nil {
			return nil, err
		}
		fieldTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindInto); err != nil {
			return nil, err
		}
		targetTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		window = &ast.TimeWindow{Mode: modeTok.Literal, SourceField: fieldTok.Literal, TargetField: targetTok.Literal}
	}

	return &ast.Aggregate{
		SourceLabel: srcTok.Literal,
		GroupBy:     groupBy,
		TargetLabel: dstTok.Literal,
		Clauses:     clauses,
		Window:      window,
	}, nil
}

// parseUnitConvert parses
//
//	UNIT_CONVERT label.field FROM unit TO unit USING "table"
func (p *Parser) parseUnitConvert() (ast.Statement, error) {
	if _, err := p.expect(KindUnitConvert); err != nil {
		return nil, err
	}
	labelTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindDot); err != nil {
		return nil, err
	}
	fieldTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindFrom); err != nil {
		return nil, err
	}
	fromUnit, err := p.parseValueLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindTo); err != nil {
		return nil, err
	}
	toUnit, err := p.parseValueLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindUsing); err != nil {
		return nil, err
	}
	tableTok, err := p.expect(KindString)
	if err != nil {
		return nil, err
	}

	return &ast.UnitConvert{
		NodeLabel: labelTok.Literal,
		Field:     fieldTok.Literal,
		FromUnit:  fromUnit,
		ToUnit:    toUnit,
		Table:     tableTok.Literal,
	}, nil
}

// parseEnrich parses
//
//	ENRICH src WITH table MATCH ON key OUTPUT dst AS { field: expr, ... }
func (p *Parser) parseEnrich() (ast.Statement, error) {
	if _, err := p.expect(KindEnrich); err != nil {
		return nil, err
	}
	srcTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindWith); err != nil {
		return nil, err
	}
	table, err := p.parseValueLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindMatch); err != nil {
		return nil, err
	}
	if _, err := p.expect(KindOn); err != nil {
		return nil, err
	}
	keyTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindOutput); err != nil {
		return nil, err
	}
	targetTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindAs); err != nil {
		return nil, err
	}
	if _, err := p.expect(KindLBrace); err != nil {
		return nil, err
	}

	var outputs []ast.OutputField
	for p.current().Kind != KindRBrace {
		nameTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindColon); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		outputs = upsertOutput(outputs, nameTok.Literal, expr)
		if p.current().Kind == KindComma {
			p.advance()
		}
	}
	if _, err := p.expect(KindRBrace); err != nil {
		return nil, err
	}

	return &ast.Enrich{
		SourceLabel: srcTok.Literal,
		Table:       table,
		MatchKey:    keyTok.Literal,
		TargetLabel: targetTok.Literal,
		Outputs:     outputs,
	}, nil
}

// parseCompute parses
//
//	COMPUTE field FOR src GROUP BY (key | [key, ...]) INTO dst AS expr
func (p *Parser) parseCompute() (ast.Statement, error) {
	if _, err := p.expect(KindCompute); err != nil {
		return nil, err
	}
	fieldTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindFor); err != nil {
		return nil, err
	}
	srcTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindGroup); err != nil {
		return nil, err
	}
	if _, err := p.expect(KindBy); err != nil {
		return nil, err
	}

	var groupBy []string
	if p.current().Kind == KindLBracket {
		groupBy, err = p.parseIdentList()
		if err != nil {
			return nil, err
		}
	} else {
		keyTok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		groupBy = append(groupBy, keyTok.Literal)
	}

	if _, err := p.expect(KindInto); err != nil {
		return nil, err
	}
	targetTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindAs); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.Compute{
		Field:       fieldTok.Literal,
		SourceLabel: srcTok.Literal,
		GroupBy:     groupBy,
		TargetLabel: targetTok.Literal,
		Expr:        expr,
	}, nil
}

// parseValidate parses
//
//	VALIDATE label WITH "rule"
func (p *Parser) parseValidate() (ast.Statement, error) {
	if _, err := p.expect(KindValidate); err != nil {
		return nil, err
	}
	labelTok, err := p.expect(KindIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindWith); err != nil {
		return nil, err
	}
	ruleTok, err := p.expect(KindString)
	if err != nil {
		return nil, err
	}

	return &ast.Validate{NodeLabel: labelTok.Literal, Rule: ruleTok.Literal}, nil
}

// parseIdentList parses a bracketed identifier list: [a, b, c]. Duplicates
// are kept; order is preserved.
func (p *Parser) parseIdentList() ([]string, error) {
	if _, err := p.expect(KindLBracket); err != nil {
		return nil, err
	}
	var idents []string
	for p.current().Kind != KindRBracket {
		tok, err := p.expect(KindIdentifier)
		if err != nil {
			return nil, err
		}
		idents = append(idents, tok.Literal)
		if p.current().Kind == KindComma {
			p.advance()
		}
	}
	if _, err := p.expect(KindRBracket); err != nil {
		return nil, err
	}
	return idents, nil
}

// parseValueLiteral accepts an identifier or a string literal and returns its
// text. Used where the grammar admits either spelling (normalize keys and
// values, unit names, table references).
func (p *Parser) parseValueLiteral() (string, error) {
	if tok := p.current(); tok.Kind == KindIdentifier {
		p.advance()
		return tok.Literal, nil
	}
	tok, err := p.expect(KindString)
	if err != nil {
		return "", err
	}
	return tok.Literal, nil
}

// isAggregationKeyword reports whether the kind opens an aggregation clause.
func isAggregationKeyword(k Kind) bool {
	return k == KindAggSum || k == KindAggCount || k == KindTakeFirst
}

// aggFuncFor maps an aggregation keyword to its function name.
func aggFuncFor(k Kind) ast.AggFunc {
	switch k {
	case KindAggCount:
		return ast.AggCount
	case KindTakeFirst:
		return ast.AggFirst
	default:
		return ast.AggSum
	}
}

// parseExpression parses an expression at the lowest precedence level.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAdditive()
}

// parseAdditive parses left-associative + and - over multiplicative operands.
// A + whose left operand was an identifier or string never reaches this
// level: the primary parser's concatenation scan consumes it first.
func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == KindPlus || p.current().Kind == KindMinus {
		op := p.current().Literal
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parseMultiplicative parses left-associative * and / over primary operands.
func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.current().Kind == KindStar || p.current().Kind == KindSlash {
		op := p.current().Literal
		p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Left: left, Operator: op, Right: right}
	}
	return left, nil
}

// parsePrimary parses a primary expression: a function call, an identifier or
// string (either possibly opening a concatenation chain), or a number.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch tok := p.current(); tok.Kind {
	case KindIdentifier:
		if p.peek().Kind == KindLParen {
			p.advance()
			if _, err := p.expect(KindLParen); err != nil {
				return nil, err
			}
			argTok, err := p.expect(KindIdentifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(KindRParen); err != nil {
				return nil, err
			}
			return &ast.FunctionCall{Name: tok.Literal, Arg: argTok.Literal}, nil
		}

		p.advance()
		name, err := p.parseDottedName(tok.Literal)
		if err != nil {
			return nil, err
		}
		return p.parseConcatenation(&ast.Identifier{Name: name})

	case KindString:
		p.advance()
		return p.parseConcatenation(&ast.String{Value: tok.Literal})

	case KindNumber:
		p.advance()
		return numberFromLiteral(tok.Literal), nil

	default:
		return nil, &SyntaxError{Actual: tok.Kind, Line: tok.Line, Column: tok.Column}
	}
}

// parseDottedName extends an already-consumed identifier with an optional
// single .field suffix.
func (p *Parser) parseDottedName(name string) (string, error) {
	if p.current().Kind != KindDot {
		return name, nil
	}
	p.advance()
	fieldTok, err := p.expect(KindIdentifier)
	if err != nil {
		return "", err
	}
	return name + "." + fieldTok.Literal, nil
}

// parseConcatenation collects +-joined identifier and string parts after an
// identifier or string head. Seeing the head commits the parser to
// concatenation: every following + is a join, never arithmetic. A + followed
// by anything other than an identifier or string is consumed and ends the
// chain, leaving the stray operand for the caller. A single-part chain
// collapses to the head itself.
func (p *Parser) parseConcatenation(head ast.Expr) (ast.Expr, error) {
	parts := []ast.Expr{head}

	for p.current().Kind == KindPlus {
		p.advance()
		switch next := p.current(); next.Kind {
		case KindIdentifier:
			p.advance()
			name, err := p.parseDottedName(next.Literal)
			if err != nil {
				return nil, err
			}
			parts = append(parts, &ast.Identifier{Name: name})
		case KindString:
			p.advance()
			parts = append(parts, &ast.String{Value: next.Literal})
		}
	}

	if len(parts) > 1 {
		return &ast.Concatenation{Parts: parts}, nil
	}
	return head, nil
}

// numberFromLiteral builds a Number from lexer output. The lexer only emits
// digit runs with at most one decimal point, so parse failures cannot occur
// for in-range values; out-of-range integral literals saturate.
func numberFromLiteral(literal string) *ast.Number {
	if strings.Contains(literal, ".") {
		value, _ := strconv.ParseFloat(literal, 64)
		return &ast.Number{Float: value, IsFloat: true}
	}
	value, _ := strconv.ParseInt(literal, 10, 64)
	return &ast.Number{Int: value}
}

// upsertColumn applies mapping-update semantics to a column map: a repeated
// source column keeps its original position and takes the newest target.
func upsertColumn(columns []ast.ColumnMapping, source, target string) []ast.ColumnMapping {
	for i := range columns {
		if columns[i].Source == source {
			columns[i].Target = target
			return columns
		}
	}
	return append(columns, ast.ColumnMapping{Source: source, Target: target})
}

// upsertValue applies mapping-update semantics to a value-rewrite list.
func upsertValue(mappings []ast.ValueMapping, oldVal, newVal string) []ast.ValueMapping {
	for i := range mappings {
		if mappings[i].Old == oldVal {
			mappings[i].New = newVal
			return mappings
		}
	}
	return append(mappings, ast.ValueMapping{Old: oldVal, New: newVal})
}

// upsertRule applies mapping-update semantics at the property level: a
// re-declared property keeps its position and takes the newest rewrite list.
func upsertRule(rules []ast.PropertyRule, property string, mappings []ast.ValueMapping) []ast.PropertyRule {
	for i := range rules {
		if rules[i].Property == property {
			rules[i].Mappings = mappings
			return rules
		}
	}
	return append(rules, ast.PropertyRule{Property: property, Mappings: mappings})
}

// upsertOutput applies mapping-update semantics to enrich output fields.
func upsertOutput(outputs []ast.OutputField, name string, value ast.Expr) []ast.OutputField {
	for i := range outputs {
		if outputs[i].Name == name {
			outputs[i].Value = value
			return outputs
		}
	}
	return append(outputs, ast.OutputField{Name: name, Value: value})
}
