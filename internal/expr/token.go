package expr

import "math"

// Kind classifies a token.
type Kind int

const (
	// KindNumber is a numeric literal such as 2 or 0.95.
	KindNumber Kind = iota
	// KindOperator is an arithmetic or comparison operator.
	KindOperator
	// KindReference names a time-series variable, e.g. SIM1;GAS_PROD.
	KindReference
	// KindLeftParen and KindRightParen group sub-expressions.
	KindLeftParen
	KindRightParen
)

// String returns a short name for the kind, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindOperator:
		return "operator"
	case KindReference:
		return "reference"
	case KindLeftParen:
		return "left paren"
	case KindRightParen:
		return "right paren"
	default:
		return "unknown"
	}
}

// Token is one lexical unit of an expression. Text holds the literal,
// operator symbol (without braces) or reference name.
type Token struct {
	Kind Kind
	Text string
	Pos  int // byte offset in the source, for error messages
}

// opInfo describes one operator in the shared precedence table.
type opInfo struct {
	precedence int
	rightAssoc bool
	apply      func(a, b float64) float64
}

// operators is the single operator table shared by both evaluators.
// Higher precedence binds tighter. Power is right-associative, all other
// operators are left-associative. Comparisons yield 1 or 0.
var operators = map[string]opInfo{
	"^": {precedence: 4, rightAssoc: true, apply: math.Pow},
	"*": {precedence: 3, apply: func(a, b float64) float64 { return a * b }},
	"/": {precedence: 3, apply: func(a, b float64) float64 { return a / b }},
	"+": {precedence: 2, apply: func(a, b float64) float64 { return a + b }},
	"-": {precedence: 2, apply: func(a, b float64) float64 { return a - b }},

	"==": {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a == b) }},
	"!=": {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a != b) }},
	"<":  {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a < b) }},
	">":  {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a > b) }},
	"<=": {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a <= b) }},
	">=": {precedence: 1, apply: func(a, b float64) float64 { return boolToFloat(a >= b) }},
}

// tiers lists operator groups from tightest to loosest binding, for the
// reduction evaluator. Derived from the same table the tree evaluator uses.
var tiers = [][]string{
	{"^"},
	{"*", "/"},
	{"+", "-"},
	{"==", "!=", "<", ">", "<=", ">="},
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// applyOp applies op elementwise over two equal-length arrays. Operands are
// normalized NaN-to-zero before every application, matching the vector
// semantics of the tree evaluator exactly.
func applyOp(op string, a, b []float64) []float64 {
	info := operators[op]
	out := make([]float64, len(a))
	for i := range a {
		x, y := a[i], b[i]
		if math.IsNaN(x) {
			x = 0
		}
		if math.IsNaN(y) {
			y = 0
		}
		out[i] = info.apply(x, y)
	}
	return out
}

// fill returns an array of length n with every element set to v.
func fill(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
