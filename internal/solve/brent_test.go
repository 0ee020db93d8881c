package solve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrentRoot_LinearFunction(t *testing.T) {
	s := BrentRoot{Tolerance: 1e-8, MaxIterations: 100}

	got, err := s.FindRoot(Boundary{Min: 0, Max: 10}, func(x float64) float64 { return x - 5 })
	require.NoError(t, err)
	assert.InDelta(t, 5, got, 1e-6)
}

func TestBrentRoot_NonlinearFunctions(t *testing.T) {
	s := BrentRoot{Tolerance: 1e-10, MaxIterations: 100}

	tests := []struct {
		name string
		f    func(float64) float64
		b    Boundary
		want float64
	}{
		{"cubic", func(x float64) float64 { return x*x*x - 2*x - 5 }, Boundary{Min: 2, Max: 3}, 2.0945514815423265},
		{"exponential", func(x float64) float64 { return math.Exp(x) - 10 }, Boundary{Min: 0, Max: 5}, math.Log(10)},
		{"cosine", math.Cos, Boundary{Min: 1, Max: 2}, math.Pi / 2},
		{"root at lower end", func(x float64) float64 { return x }, Boundary{Min: 0, Max: 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FindRoot(tt.b, tt.f)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-7)
		})
	}
}

func TestBrentRoot_NoSignChange(t *testing.T) {
	s := BrentRoot{Tolerance: 1e-8, MaxIterations: 100}

	_, err := s.FindRoot(Boundary{Min: 1, Max: 2}, func(x float64) float64 { return x * x })
	var ncErr *NotConvergedError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, "no sign change across the boundary", ncErr.Reason)
	assert.Contains(t, ncErr.Error(), "sign change")
}

func TestBrentRoot_IterationBudgetExhausted(t *testing.T) {
	s := BrentRoot{Tolerance: 1e-15, MaxIterations: 2}

	_, err := s.FindRoot(Boundary{Min: 0, Max: 10}, func(x float64) float64 { return math.Tanh(x - 4.7) })
	var ncErr *NotConvergedError
	require.ErrorAs(t, err, &ncErr)
	assert.Equal(t, 2, ncErr.Iterations)
	assert.Equal(t, 1e-15, ncErr.Tolerance)
}
