package compressor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/enflow/enflow/internal/thermo"
)

// testGas is a methane-like export gas used across the compressor tests.
var testGas = thermo.Fluid{Name: "testgas", MolarMass: 0.0187, Cp: 2200}

// twoSpeedChart builds a variable-speed chart with speed lines at 5000 and
// 8000 rpm. Head scales roughly with speed squared, rate with speed.
func twoSpeedChart(t *testing.T) Chart {
	t.Helper()
	chart, err := NewChart([]SpeedCurve{
		{
			Speed: 5000,
			Points: []CurvePoint{
				{Rate: 3000, Head: 40000, Efficiency: 0.72},
				{Rate: 5000, Head: 32000, Efficiency: 0.78},
				{Rate: 7000, Head: 20000, Efficiency: 0.74},
			},
		},
		{
			Speed: 8000,
			Points: []CurvePoint{
				{Rate: 4800, Head: 102400, Efficiency: 0.72},
				{Rate: 8000, Head: 81920, Efficiency: 0.78},
				{Rate: 11200, Head: 51200, Efficiency: 0.74},
			},
		},
	})
	require.NoError(t, err)
	return chart
}

// singleSpeedChart builds a one-line chart at 5000 rpm.
func singleSpeedChart(t *testing.T) Chart {
	t.Helper()
	chart, err := NewChart([]SpeedCurve{
		{
			Speed: 5000,
			Points: []CurvePoint{
				{Rate: 3000, Head: 40000, Efficiency: 0.72},
				{Rate: 5000, Head: 32000, Efficiency: 0.78},
				{Rate: 7000, Head: 20000, Efficiency: 0.74},
			},
		},
	})
	require.NoError(t, err)
	return chart
}

// variableSpeedTrain is a one-stage variable-speed train on the reference
// engine, suction conditions 20 bara / 300 K.
func variableSpeedTrain(t *testing.T) *Train {
	t.Helper()
	return &Train{
		Kind:       VariableSpeed,
		Fluid:      testGas,
		MinFlowASV: true,
		Stages: []Stage{
			{Chart: twoSpeedChart(t), InletTemperature: 300},
		},
	}
}

func singleSpeedTrain(t *testing.T) *Train {
	t.Helper()
	tr := &Train{
		Kind:  SingleSpeed,
		Fluid: testGas,
		Stages: []Stage{
			{Chart: singleSpeedChart(t), InletTemperature: 300},
		},
	}
	tr.SetSpeed(5000)
	return tr
}

// inletStreamAt flashes the test gas at suction conditions.
func inletStreamAt(t *testing.T, pressure, temperature float64) thermo.Stream {
	t.Helper()
	s, err := thermo.ReferenceEngine{}.FlashPT(testGas, pressure, temperature)
	require.NoError(t, err)
	return s
}
