package expr

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed expression: an unknown character during
// lexing, unbalanced parentheses or an operator missing its operands.
// Structural errors are fatal to the evaluation and never retried.
type SyntaxError struct {
	Source  string
	Pos     int // byte offset, -1 when not tied to a position
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("syntax error at offset %d in %q: %s", e.Pos, e.Source, e.Message)
	}
	return fmt.Sprintf("syntax error in %q: %s", e.Source, e.Message)
}

// MissingReferenceError reports references that were not present in the
// variable set handed to the evaluator. Names lists every missing
// identifier, not just the first.
type MissingReferenceError struct {
	Names []string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("missing references: %s", strings.Join(e.Names, ", "))
}

// LengthMismatchError reports a referenced variable whose array length
// differs from the evaluation fill length.
type LengthMismatchError struct {
	Name string
	Len  int
	Want int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("variable %s has length %d, want %d", e.Name, e.Len, e.Want)
}
