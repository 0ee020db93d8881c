package expr

// nodeKind discriminates tree node types.
type nodeKind int

const (
	nodeLiteral nodeKind = iota
	nodeReference
	nodeOperator
)

// Node is one node of a compiled binary expression tree. Leaves are
// literals or references; interior nodes are operators.
type Node struct {
	kind  nodeKind
	value float64 // literal
	ref   string  // reference name
	op    string  // operator symbol
	left  *Node
	right *Node
}

// Compile converts the expression to a binary tree: shunting-yard to
// postfix, then a stack build. This is the second execution strategy; it
// shares the operator table with Evaluate and produces identical results.
//
// Unbalanced parentheses and missing operands surface here as SyntaxError.
func Compile(e Expression) (*Node, error) {
	if e.IsZero() {
		return nil, &SyntaxError{Source: e.source, Pos: -1, Message: "empty expression"}
	}

	// Shunting-yard: tokens to postfix order.
	var output []Token
	var stack []Token
	for _, tok := range e.tokens {
		switch tok.Kind {
		case KindNumber, KindReference:
			output = append(output, tok)
		case KindOperator:
			info := operators[tok.Text]
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind != KindOperator {
					break
				}
				topInfo := operators[top.Text]
				if topInfo.precedence > info.precedence ||
					(topInfo.precedence == info.precedence && !info.rightAssoc) {
					output = append(output, top)
					stack = stack[:len(stack)-1]
					continue
				}
				break
			}
			stack = append(stack, tok)
		case KindLeftParen:
			stack = append(stack, tok)
		case KindRightParen:
			matched := false
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == KindLeftParen {
					matched = true
					break
				}
				output = append(output, top)
			}
			if !matched {
				return nil, &SyntaxError{Source: e.source, Pos: tok.Pos, Message: "unbalanced parentheses"}
			}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind == KindLeftParen {
			return nil, &SyntaxError{Source: e.source, Pos: top.Pos, Message: "unbalanced parentheses"}
		}
		output = append(output, top)
	}

	// Stack build of the tree from postfix order.
	var nodes []*Node
	for _, tok := range output {
		switch tok.Kind {
		case KindNumber:
			nodes = append(nodes, &Node{kind: nodeLiteral, value: mustParseFloat(tok.Text)})
		case KindReference:
			nodes = append(nodes, &Node{kind: nodeReference, ref: tok.Text})
		case KindOperator:
			if len(nodes) < 2 {
				return nil, &SyntaxError{Source: e.source, Pos: tok.Pos, Message: "operator " + tok.Text + " missing operand"}
			}
			right := nodes[len(nodes)-1]
			left := nodes[len(nodes)-2]
			nodes = nodes[:len(nodes)-2]
			nodes = append(nodes, &Node{kind: nodeOperator, op: tok.Text, left: left, right: right})
		}
	}
	if len(nodes) != 1 {
		return nil, &SyntaxError{Source: e.source, Pos: -1, Message: "expression does not reduce to a single value"}
	}
	return nodes[0], nil
}

// Eval evaluates the tree over arrays of length fillLen. Operands are
// normalized NaN-to-zero at every operator application.
func (n *Node) Eval(vars map[string][]float64, fillLen int) ([]float64, error) {
	if missing := n.missingReferences(vars, nil, map[string]bool{}); len(missing) > 0 {
		return nil, &MissingReferenceError{Names: missing}
	}
	out, err := n.eval(vars, fillLen)
	if err != nil {
		return nil, err
	}
	return append([]float64(nil), out...), nil
}

func (n *Node) eval(vars map[string][]float64, fillLen int) ([]float64, error) {
	switch n.kind {
	case nodeLiteral:
		return fill(n.value, fillLen), nil
	case nodeReference:
		v := vars[n.ref]
		if len(v) != fillLen {
			return nil, &LengthMismatchError{Name: n.ref, Len: len(v), Want: fillLen}
		}
		return v, nil
	default:
		left, err := n.left.eval(vars, fillLen)
		if err != nil {
			return nil, err
		}
		right, err := n.right.eval(vars, fillLen)
		if err != nil {
			return nil, err
		}
		return applyOp(n.op, left, right), nil
	}
}

// missingReferences walks the tree collecting references absent from vars.
func (n *Node) missingReferences(vars map[string][]float64, missing []string, seen map[string]bool) []string {
	if n == nil {
		return missing
	}
	if n.kind == nodeReference && !seen[n.ref] {
		seen[n.ref] = true
		if _, ok := vars[n.ref]; !ok {
			missing = append(missing, n.ref)
		}
	}
	missing = n.left.missingReferences(vars, missing, seen)
	missing = n.right.missingReferences(vars, missing, seen)
	return missing
}
