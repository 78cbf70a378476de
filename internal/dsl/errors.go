package dsl

import "fmt"

// LexicalError reports a character the lexer does not recognize.
// Line and Column are 1-based and point at the offending character.
type LexicalError struct {
	Message string
	Line    int
	Column  int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// SyntaxError reports the first token mismatch during parsing.
//
// Two shapes share the type: a failed expectation (Expected and Actual both
// set) and an out-of-place token (Expected left as KindInvalid, e.g. a
// statement starting with something other than a statement keyword). Line
// and Column are 1-based and point at the offending token.
type SyntaxError struct {
	Expected Kind
	Actual   Kind
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message())
}

// Message returns the mismatch description without the position prefix.
func (e *SyntaxError) Message() string {
	if e.Expected == KindInvalid {
		return fmt.Sprintf("unexpected %q", e.Actual.String())
	}
	return fmt.Sprintf("expected %q, got %q", e.Expected.String(), e.Actual.String())
}
