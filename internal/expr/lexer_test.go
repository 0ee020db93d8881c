package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex_BracedOperatorsAndLiterals(t *testing.T) {
	e, err := Parse("2 {+} 2 {^} 4 {*} 2")
	require.NoError(t, err)

	toks := e.Tokens()
	require.Len(t, toks, 7)
	assert.Equal(t, KindNumber, toks[0].Kind)
	assert.Equal(t, "+", toks[1].Text)
	assert.Equal(t, "^", toks[3].Text)
	assert.Equal(t, "*", toks[5].Text)
}

// Identifiers may contain ; : _ and bare + - * / characters, which is the
// reason arithmetic operators are braced.
func TestLex_NamespacedReferences(t *testing.T) {
	e, err := Parse("SIM1;GAS_PROD {*} SIM2;OIL-RATE:TOTAL/DAY")
	require.NoError(t, err)

	assert.Equal(t, []string{"SIM1;GAS_PROD", "SIM2;OIL-RATE:TOTAL/DAY"}, e.Variables())
	require.Len(t, e.Tokens(), 3)
	assert.Equal(t, KindOperator, e.Tokens()[1].Kind)
}

func TestLex_ComparisonsAreBare(t *testing.T) {
	e, err := Parse("RATE >= 100")
	require.NoError(t, err)

	toks := e.Tokens()
	require.Len(t, toks, 3)
	assert.Equal(t, KindOperator, toks[1].Kind)
	assert.Equal(t, ">=", toks[1].Text)
}

func TestLex_CommentsAndWhitespaceDiscarded(t *testing.T) {
	withComment, err := Parse("2 {+} 3 # trailing note\n")
	require.NoError(t, err)
	plain, err := Parse("2{+}3")
	require.NoError(t, err)

	assert.True(t, withComment.Equal(plain))
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bare ampersand", "2 & 3"},
		{"malformed braced op", "2 {%} 3"},
		{"unterminated brace", "2 {+ 3"},
		{"lone equals", "A = 3"},
		{"malformed number", "1.2.3 {+} 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestExpression_Equal(t *testing.T) {
	a := MustParse("(A {+} B) {*} 2")
	b := MustParse("( A {+} B ) {*} 2 # same tokens")
	c := MustParse("A {+} B {*} 2")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
