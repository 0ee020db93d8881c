package expr

import "sort"

// Expression is an ordered, immutable token sequence. Build one with Parse;
// the zero value is an empty expression that evaluates to nothing.
type Expression struct {
	source string
	tokens []Token
}

// Parse tokenizes src into an Expression. Parenthesis balance and operand
// placement are checked at compile/evaluation time, not here.
func Parse(src string) (Expression, error) {
	tokens, err := lex(src)
	if err != nil {
		return Expression{}, err
	}
	return Expression{source: src, tokens: tokens}, nil
}

// MustParse is Parse for static expressions in tests and defaults.
func MustParse(src string) Expression {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// Source returns the original expression text.
func (e Expression) Source() string { return e.source }

// Tokens returns the token sequence. The slice is shared; callers must not
// modify it.
func (e Expression) Tokens() []Token { return e.tokens }

// IsZero reports whether the expression is empty.
func (e Expression) IsZero() bool { return len(e.tokens) == 0 }

// Variables returns the sorted set of reference names the expression
// depends on, without duplicates.
func (e Expression) Variables() []string {
	seen := map[string]bool{}
	var names []string
	for _, tok := range e.tokens {
		if tok.Kind == KindReference && !seen[tok.Text] {
			seen[tok.Text] = true
			names = append(names, tok.Text)
		}
	}
	sort.Strings(names)
	return names
}

// Equal reports structural equality: same token kinds and texts in the same
// order. Source formatting (whitespace, comments) does not participate.
func (e Expression) Equal(o Expression) bool {
	if len(e.tokens) != len(o.tokens) {
		return false
	}
	for i := range e.tokens {
		if e.tokens[i].Kind != o.tokens[i].Kind || e.tokens[i].Text != o.tokens[i].Text {
			return false
		}
	}
	return true
}

// missingVariables returns the references absent from vars, in first-use
// order without duplicates.
func (e Expression) missingVariables(vars map[string][]float64) []string {
	seen := map[string]bool{}
	var missing []string
	for _, tok := range e.tokens {
		if tok.Kind != KindReference || seen[tok.Text] {
			continue
		}
		seen[tok.Text] = true
		if _, ok := vars[tok.Text]; !ok {
			missing = append(missing, tok.Text)
		}
	}
	return missing
}
