package engine

import (
	"fmt"

	"github.com/enflow/enflow/internal/compressor"
	"github.com/enflow/enflow/internal/expr"
	"github.com/enflow/enflow/internal/timeline"
)

// ConsumerKind is the closed set of consumer types.
type ConsumerKind int

const (
	// DirectFuel consumers burn fuel at a rate given directly by an
	// expression (flares, heaters, generator sets with a known curve).
	DirectFuel ConsumerKind = iota
	// CompressorTrain consumers compute shaft power by solving a train's
	// operating point per timestep.
	CompressorTrain
)

func (k ConsumerKind) String() string {
	switch k {
	case DirectFuel:
		return "direct_fuel"
	case CompressorTrain:
		return "compressor_train"
	default:
		return "unknown"
	}
}

// ConsumerConfig is the physical configuration of a consumer during one
// temporal period. Exactly the fields for its Kind are set.
type ConsumerConfig struct {
	Kind ConsumerKind

	// DirectFuel: fuel rate per timestep, Sm3/day.
	Fuel expr.Expression

	// CompressorTrain inputs.
	Train             *compressor.Train
	MaxRecirculation  float64         // kg/h, anti-surge valve capacity
	Rate              expr.Expression // process mass rate, kg/h
	SuctionPressure   expr.Expression // bara
	DischargePressure expr.Expression // target, bara
}

// Validate checks that the configuration carries what its kind needs.
func (c ConsumerConfig) Validate() error {
	switch c.Kind {
	case DirectFuel:
		if c.Fuel.IsZero() {
			return fmt.Errorf("direct fuel consumer requires a fuel expression")
		}
	case CompressorTrain:
		if c.Train == nil {
			return fmt.Errorf("compressor train consumer requires a train")
		}
		if c.Rate.IsZero() || c.SuctionPressure.IsZero() || c.DischargePressure.IsZero() {
			return fmt.Errorf("compressor train consumer requires rate, suction and discharge expressions")
		}
	default:
		return fmt.Errorf("unknown consumer kind %d", c.Kind)
	}
	return nil
}

// Unit returns the energy-usage unit reported for this configuration.
func (c ConsumerConfig) Unit() string {
	if c.Kind == DirectFuel {
		return "Sm3/day"
	}
	return "MW"
}

// Consumer is one energy consumer with a time-partitioned configuration.
type Consumer struct {
	Name  string
	Model *timeline.TemporalModel[ConsumerConfig]
}
