package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enflow/enflow/internal/thermo"
)

func TestSpeedSolver_TargetBracketedSucceeds(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 30)

	sol, err := solver.Solve(Conditions{MassRate: 100000, SuctionPressure: 20})
	require.NoError(t, err)
	require.True(t, sol.Success)

	assert.InDelta(t, 30, sol.Point.OutletPressure, 0.05, "discharge pressure meets target")
	assert.Greater(t, sol.Point.Speed, 5000.0)
	assert.Less(t, sol.Point.Speed, 8000.0)
	assert.Greater(t, sol.Point.Power, 0.0)
}

func TestSpeedSolver_TargetAboveMaxSpeedFails(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 60)

	sol, err := solver.Solve(Conditions{MassRate: 100000, SuctionPressure: 20})
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.Equal(t, 8000.0, sol.Point.Speed, "failure carries the attempted max-speed configuration")
	assert.Greater(t, sol.Point.OutletPressure, 20.0)
	assert.Less(t, sol.Point.OutletPressure, 60.0)
}

func TestSpeedSolver_TargetBelowMinSpeedFails(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 21)

	sol, err := solver.Solve(Conditions{MassRate: 100000, SuctionPressure: 20})
	require.NoError(t, err)
	assert.False(t, sol.Success)
	assert.InDelta(t, 5000, sol.Point.Speed, 1, "failure reports the minimum feasible speed")
	assert.Greater(t, sol.Point.OutletPressure, 21.0, "even the minimum speed overshoots the target")
}

// When the process rate exceeds chart capacity at minimum speed, the solver
// bisects upward for the lowest feasible speed before root-finding.
func TestSpeedSolver_BisectsForFeasibleMinSpeed(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 30)

	// ~7990 Am3/h at suction: over the 5000 rpm line, inside higher lines.
	sol, err := solver.Solve(Conditions{MassRate: 121000, SuctionPressure: 20})
	require.NoError(t, err)
	require.True(t, sol.Success)

	assert.InDelta(t, 30, sol.Point.OutletPressure, 0.05)
	assert.Greater(t, sol.Point.Speed, 5700.0, "solution above the capacity edge")
}

func TestSpeedSolver_StructuralFailureYieldsFailedSolution(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 30)

	// Zero mass rate is a structural process error, not a solver error.
	sol, err := solver.Solve(Conditions{MassRate: 0, SuctionPressure: 20})
	require.NoError(t, err)
	assert.False(t, sol.Success)
}

func TestSpeedSolver_SequentialMutationThroughSetter(t *testing.T) {
	tr := variableSpeedTrain(t)
	solver := NewSpeedSolver(tr, thermo.ReferenceEngine{}, 30)

	sol, err := solver.Solve(Conditions{MassRate: 100000, SuctionPressure: 20})
	require.NoError(t, err)
	require.True(t, sol.Success)
	assert.Equal(t, sol.Point.Speed, tr.Speed(),
		"the train is left at the solved operating point")
}
