package expr

import "strconv"

// evalItem is one slot of the reduction work list: either a resolved value
// array or a structural token (operator or parenthesis).
type evalItem struct {
	value []float64 // non-nil once resolved
	tok   Token
}

// Evaluate computes the expression against named equal-length variables,
// returning an array of length fillLen. Numeric literals broadcast to the
// fill length. This is the direct strategy: repeated left-to-right reduction
// within each precedence tier, operating on the token list itself.
//
// Evaluate and the compiled tree (Compile + Node.Eval) share one operator
// table and one elementwise apply function, so their results are identical.
func Evaluate(e Expression, vars map[string][]float64, fillLen int) ([]float64, error) {
	if e.IsZero() {
		return nil, &SyntaxError{Source: e.source, Pos: -1, Message: "empty expression"}
	}
	if missing := e.missingVariables(vars); len(missing) > 0 {
		return nil, &MissingReferenceError{Names: missing}
	}

	items := make([]evalItem, 0, len(e.tokens))
	for _, tok := range e.tokens {
		switch tok.Kind {
		case KindNumber:
			items = append(items, evalItem{value: fill(mustParseFloat(tok.Text), fillLen)})
		case KindReference:
			v := vars[tok.Text]
			if len(v) != fillLen {
				return nil, &LengthMismatchError{Name: tok.Text, Len: len(v), Want: fillLen}
			}
			items = append(items, evalItem{value: v})
		default:
			items = append(items, evalItem{tok: tok})
		}
	}

	out, err := reduceParens(e.source, items)
	if err != nil {
		return nil, err
	}
	// The result may alias a caller-owned variable array (single-reference
	// expressions); copy so callers can treat it as freshly allocated.
	return append([]float64(nil), out...), nil
}

// reduceParens resolves parenthesized groups innermost-first, then hands the
// flat list to reduceFlat.
func reduceParens(src string, items []evalItem) ([]float64, error) {
	for {
		// Find the first closing paren and its matching opener.
		close := -1
		for i, it := range items {
			if it.value == nil && it.tok.Kind == KindRightParen {
				close = i
				break
			}
		}
		if close < 0 {
			break
		}
		open := -1
		for i := close - 1; i >= 0; i-- {
			if items[i].value == nil && items[i].tok.Kind == KindLeftParen {
				open = i
				break
			}
		}
		if open < 0 {
			return nil, &SyntaxError{Source: src, Pos: items[close].tok.Pos, Message: "unbalanced parentheses"}
		}
		inner, err := reduceFlat(src, items[open+1:close])
		if err != nil {
			return nil, err
		}
		rest := append([]evalItem{}, items[:open]...)
		rest = append(rest, evalItem{value: inner})
		rest = append(rest, items[close+1:]...)
		items = rest
	}
	for _, it := range items {
		if it.value == nil && it.tok.Kind == KindLeftParen {
			return nil, &SyntaxError{Source: src, Pos: it.tok.Pos, Message: "unbalanced parentheses"}
		}
	}
	return reduceFlat(src, items)
}

// reduceFlat reduces a paren-free item list tier by tier. Left-associative
// tiers scan left-to-right, the right-associative power tier right-to-left.
func reduceFlat(src string, items []evalItem) ([]float64, error) {
	work := append([]evalItem{}, items...)
	for _, tier := range tiers {
		rightAssoc := operators[tier[0]].rightAssoc
		if rightAssoc {
			for i := len(work) - 1; i >= 0; i-- {
				if !isTierOp(work[i], tier) {
					continue
				}
				var err error
				work, err = applyAt(src, work, i)
				if err != nil {
					return nil, err
				}
			}
		} else {
			for i := 0; i < len(work); i++ {
				if !isTierOp(work[i], tier) {
					continue
				}
				var err error
				work, err = applyAt(src, work, i)
				if err != nil {
					return nil, err
				}
				i-- // the reduced value now sits at i-1
			}
		}
	}
	if len(work) != 1 || work[0].value == nil {
		pos := -1
		if len(work) > 0 && work[0].value == nil {
			pos = work[0].tok.Pos
		}
		return nil, &SyntaxError{Source: src, Pos: pos, Message: "expression does not reduce to a single value"}
	}
	return work[0].value, nil
}

func isTierOp(it evalItem, tier []string) bool {
	if it.value != nil || it.tok.Kind != KindOperator {
		return false
	}
	for _, op := range tier {
		if it.tok.Text == op {
			return true
		}
	}
	return false
}

// applyAt replaces work[i-1:i+2] (lhs, op, rhs) with the applied value.
func applyAt(src string, work []evalItem, i int) ([]evalItem, error) {
	if i == 0 || i == len(work)-1 || work[i-1].value == nil || work[i+1].value == nil {
		return nil, &SyntaxError{Source: src, Pos: work[i].tok.Pos, Message: "operator " + work[i].tok.Text + " missing operand"}
	}
	v := applyOp(work[i].tok.Text, work[i-1].value, work[i+1].value)
	out := append([]evalItem{}, work[:i-1]...)
	out = append(out, evalItem{value: v})
	out = append(out, work[i+2:]...)
	return out, nil
}

// mustParseFloat converts a literal the lexer already validated.
func mustParseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic("lexer admitted unparseable number " + s)
	}
	return v
}
