package expr

import (
	"strconv"
	"strings"
)

// bracedOps are the arithmetic symbols accepted inside {..}.
const bracedOps = "^*/+-"

// isRefStart reports whether c can start a reference.
func isRefStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

// isRefRune reports whether c can continue a reference. Bare +-*/ are legal
// inside identifiers, which is why arithmetic operators are braced.
func isRefRune(c byte) bool {
	return isRefStart(c) || c >= '0' && c <= '9' || strings.IndexByte("_:;+*/-", c) >= 0
}

func isNumberRune(c byte) bool {
	return c >= '0' && c <= '9' || c == '.'
}

// lex tokenizes src. Whitespace and #-comments are discarded.
func lex(src string) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '(':
			tokens = append(tokens, Token{Kind: KindLeftParen, Text: "(", Pos: i})
			i++
		case c == ')':
			tokens = append(tokens, Token{Kind: KindRightParen, Text: ")", Pos: i})
			i++
		case c == '{':
			if i+2 >= len(src) || src[i+2] != '}' || strings.IndexByte(bracedOps, src[i+1]) < 0 {
				return nil, &SyntaxError{Source: src, Pos: i, Message: "malformed braced operator"}
			}
			tokens = append(tokens, Token{Kind: KindOperator, Text: string(src[i+1]), Pos: i})
			i += 3
		case c == '=' || c == '!' || c == '<' || c == '>':
			start := i
			op := string(c)
			if i+1 < len(src) && src[i+1] == '=' {
				op += "="
				i++
			}
			i++
			if _, ok := operators[op]; !ok {
				return nil, &SyntaxError{Source: src, Pos: start, Message: "unknown operator " + strconv.Quote(op)}
			}
			tokens = append(tokens, Token{Kind: KindOperator, Text: op, Pos: start})
		case isNumberRune(c):
			start := i
			for i < len(src) && isNumberRune(src[i]) {
				i++
			}
			text := src[start:i]
			if _, err := strconv.ParseFloat(text, 64); err != nil {
				return nil, &SyntaxError{Source: src, Pos: start, Message: "malformed number " + strconv.Quote(text)}
			}
			tokens = append(tokens, Token{Kind: KindNumber, Text: text, Pos: start})
		case isRefStart(c):
			start := i
			for i < len(src) && isRefRune(src[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: KindReference, Text: src[start:i], Pos: start})
		default:
			return nil, &SyntaxError{Source: src, Pos: i, Message: "unexpected character " + strconv.Quote(string(c))}
		}
	}
	return tokens, nil
}
