package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evalBoth runs the reduction evaluator and the compiled tree over the same
// inputs and requires them to agree before returning the result.
func evalBoth(t *testing.T, src string, vars map[string][]float64, fillLen int) []float64 {
	t.Helper()
	e := MustParse(src)

	direct, err := Evaluate(e, vars, fillLen)
	require.NoError(t, err, "reduction evaluator")

	tree, err := Compile(e)
	require.NoError(t, err, "tree compile")
	viaTree, err := tree.Eval(vars, fillLen)
	require.NoError(t, err, "tree evaluator")

	require.Equal(t, len(direct), len(viaTree))
	for i := range direct {
		assert.InDelta(t, direct[i], viaTree[i], 1e-12, "strategies disagree at index %d for %q", i, src)
	}
	return direct
}

func TestEvaluate_LiteralBroadcastsToFillLength(t *testing.T) {
	got := evalBoth(t, "7.5", nil, 4)
	assert.Equal(t, []float64{7.5, 7.5, 7.5, 7.5}, got)
}

func TestEvaluate_PrecedenceAndAssociativity(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"2 {+} 2 {^} 4 {*} 2", 34}, // 2 + (2^4)*2
		{"(5 {+} 4) {*} 2", 18},
		{"(5 {+} 4) == 9", 1},
		{"2 {^} 3 {^} 2", 512}, // right-assoc: 2^(3^2)
		{"10 {-} 3 {-} 2", 5},  // left-assoc
		{"8 {/} 4 {/} 2", 1},
		{"1 {+} 2 == 3", 1}, // comparison binds loosest
		{"1 {+} 2 != 3", 0},
		{"2 {*} 3 > 5", 1},
		{"2 {*} 3 <= 5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := evalBoth(t, tt.src, nil, 3)
			for i, v := range got {
				assert.InDelta(t, tt.want, v, 1e-12, "index %d", i)
			}
		})
	}
}

func TestEvaluate_Vectorized(t *testing.T) {
	vars := map[string][]float64{
		"RATE":  {100, 200, 0},
		"SCALE": {1, 0.5, 2},
	}
	got := evalBoth(t, "RATE {*} SCALE {+} 10", vars, 3)
	assert.Equal(t, []float64{110, 110, 10}, got)
}

func TestEvaluate_NaNOperandsTreatedAsZero(t *testing.T) {
	vars := map[string][]float64{"X": {math.NaN(), 2}}
	got := evalBoth(t, "X {+} 5", vars, 2)
	assert.Equal(t, []float64{5, 7}, got)
}

func TestEvaluate_MissingReferencesListsAllNames(t *testing.T) {
	e := MustParse("A {+} B {*} C")
	vars := map[string][]float64{"B": {1, 1}}

	_, err := Evaluate(e, vars, 2)
	var missingErr *MissingReferenceError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"A", "C"}, missingErr.Names)

	tree, err := Compile(e)
	require.NoError(t, err)
	_, err = tree.Eval(vars, 2)
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"A", "C"}, missingErr.Names)
}

func TestEvaluate_VariableLengthMismatch(t *testing.T) {
	e := MustParse("X {+} 1")
	vars := map[string][]float64{"X": {1, 2, 3}}

	_, err := Evaluate(e, vars, 2)
	var lenErr *LengthMismatchError
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, &LengthMismatchError{Name: "X", Len: 3, Want: 2}, lenErr)
	assert.Contains(t, err.Error(), "length 3, want 2")

	tree, err := Compile(e)
	require.NoError(t, err)
	_, err = tree.Eval(vars, 2)
	require.ErrorAs(t, err, &lenErr)
	assert.Equal(t, &LengthMismatchError{Name: "X", Len: 3, Want: 2}, lenErr)
}

func TestEvaluate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"dangling operator", "2 {+}"},
		{"leading operator", "{*} 2"},
		{"adjacent operators", "2 {+} {*} 3"},
		{"unbalanced open", "(2 {+} 3"},
		{"unbalanced close", "2 {+} 3)"},
		{"adjacent values", "2 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := MustParse(tt.src)

			var syntaxErr *SyntaxError
			_, err := Evaluate(e, nil, 2)
			assert.ErrorAs(t, err, &syntaxErr, "reduction evaluator")

			_, err = Compile(e)
			if err == nil {
				tree, _ := Compile(e)
				_, err = tree.Eval(nil, 2)
			}
			assert.ErrorAs(t, err, &syntaxErr, "tree evaluator")
		})
	}
}

// Agreement corpus: mixed arithmetic/comparison chains where independently
// maintained precedence tables could plausibly drift apart.
func TestEvaluate_StrategiesAgreeOnMixedChains(t *testing.T) {
	vars := map[string][]float64{
		"A": {0, 1, 2.5, -3, 100},
		"B": {1, 1, 0, 2, -0.5},
	}
	corpus := []string{
		"A {+} B {*} A {-} B",
		"A {^} 2 {-} B {^} 2",
		"A {*} B == A",
		"A {+} B >= B {+} A",
		"(A {+} 1) {*} (B {-} 1) < A {^} 2",
		"A {/} (B {+} 1) {+} A {*} 2 != A",
		"1 {+} A == 1 {+} B",
		"A {-} B {-} A {-} B",
		"2 {^} A {^} B",
		"(A == B) {+} (A != B)",
	}
	for _, src := range corpus {
		t.Run(src, func(t *testing.T) {
			evalBoth(t, src, vars, 5)
		})
	}
}
