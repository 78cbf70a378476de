package dsl

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof = rune(-1)

// singleCharTokens maps one-character punctuation to its kind. '-' is absent:
// it needs the two-character arrow lookahead first.
var singleCharTokens = map[rune]Kind{
	'{': KindLBrace,
	'}': KindRBrace,
	'[': KindLBracket,
	']': KindRBracket,
	'(': KindLParen,
	')': KindRParen,
	',': KindComma,
	':': KindColon,
	'.': KindDot,
	'+': KindPlus,
	'*': KindStar,
	'/': KindSlash,
}

// Lexer turns DSL source text into a token stream in a single deterministic
// pass. Input is treated as UTF-8 and consumed rune-wise; line and column are
// 1-based, with every rune (multibyte included) advancing the column by one.
type Lexer struct {
	input string
	pos   int // byte offset of the current rune
	line  int
	col   int
}

// NewLexer creates a lexer over the given source text.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize scans the whole input and returns the token stream, terminated by
// a KindEOF token. The only failure mode is an unrecognized character, which
// aborts the scan with a *LexicalError carrying its position.
//
// Whitespace, newlines, and #-comments never produce tokens. Newlines are
// plain separators: statement boundaries come from keyword lookahead in the
// parser, not from the lexer.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		line, col := l.line, l.col
		ch := l.current()

		switch {
		case ch == '#':
			l.skipComment()

		case ch == '\n':
			l.advance()

		case ch == '"':
			tokens = append(tokens, Token{Kind: KindString, Literal: l.readString(), Line: line, Column: col})

		case unicode.IsDigit(ch):
			tokens = append(tokens, Token{Kind: KindNumber, Literal: l.readNumber(), Line: line, Column: col})

		case ch == '-':
			if l.peek() == '>' {
				l.advance()
				l.advance()
				tokens = append(tokens, Token{Kind: KindArrow, Literal: "->", Line: line, Column: col})
			} else {
				l.advance()
				tokens = append(tokens, Token{Kind: KindMinus, Literal: "-", Line: line, Column: col})
			}

		case singleCharTokens[ch] != KindInvalid:
			l.advance()
			tokens = append(tokens, Token{Kind: singleCharTokens[ch], Literal: string(ch), Line: line, Column: col})

		case unicode.IsLetter(ch) || ch == '_':
			literal := l.readIdentifier()
			tokens = append(tokens, Token{Kind: lookupIdent(literal), Literal: literal, Line: line, Column: col})

		default:
			return nil, &LexicalError{
				Message: fmt.Sprintf("unexpected character %q", string(ch)),
				Line:    line,
				Column:  col,
			}
		}
	}

	tokens = append(tokens, Token{Kind: KindEOF, Line: l.line, Column: l.col})
	return tokens, nil
}

// current returns the rune at the cursor without consuming it.
func (l *Lexer) current() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// peek returns the rune after the current one without consuming anything.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	if l.pos+size >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+size:])
	return r
}

// advance consumes one rune, tracking line and column.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

// skipWhitespace consumes spaces, tabs, and carriage returns. Newlines are
// handled by the main scan loop so line accounting stays in one place.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.current() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

// skipComment consumes a #-comment up to (not including) the newline.
func (l *Lexer) skipComment() {
	for l.pos < len(l.input) && l.current() != '\n' {
		l.advance()
	}
}

// readString consumes a double-quoted literal and returns its content with
// escapes resolved. A backslash takes the next character literally; there is
// no escape table. An unterminated literal at end of input yields the
// accumulated content without error.
func (l *Lexer) readString() string {
	var sb strings.Builder
	l.advance() // opening quote

	for l.pos < len(l.input) && l.current() != '"' {
		if l.current() == '\\' {
			l.advance()
			if l.pos < len(l.input) {
				sb.WriteRune(l.current())
				l.advance()
			}
			continue
		}
		sb.WriteRune(l.current())
		l.advance()
	}

	if l.pos < len(l.input) {
		l.advance() // closing quote
	}
	return sb.String()
}

// readNumber consumes digits and at most one decimal point. The presence of
// the point is what later marks the literal floating.
func (l *Lexer) readNumber() string {
	var sb strings.Builder
	seenDot := false

	for l.pos < len(l.input) {
		ch := l.current()
		switch {
		case unicode.IsDigit(ch):
			sb.WriteRune(ch)
			l.advance()
		case ch == '.' && !seenDot:
			seenDot = true
			sb.WriteRune(ch)
			l.advance()
		default:
			return sb.String()
		}
	}
	return sb.String()
}

// readIdentifier consumes an identifier: leading letter or underscore, then
// letters, digits, underscores, and hyphens.
func (l *Lexer) readIdentifier() string {
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.current()
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '-' {
			sb.WriteRune(ch)
			l.advance()
			continue
		}
		break
	}
	return sb.String()
}
