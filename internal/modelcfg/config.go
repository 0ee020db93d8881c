package modelcfg

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the YAML document shape. Field names mirror the on-disk keys;
// semantic interpretation happens in Build.
type File struct {
	// Times is the ordered evaluation time vector, one entry per timestep.
	Times []string `yaml:"times"`
	// End closes the evaluation horizon.
	End string `yaml:"end"`
	// DefaultsToZero turns uncovered consumer sub-periods into zero usage
	// instead of a model error.
	DefaultsToZero bool `yaml:"defaults_to_zero"`

	// Variables are the shared time-series arrays expressions reference.
	Variables map[string][]float64 `yaml:"variables"`

	Fluids    map[string]FluidConfig `yaml:"fluids"`
	Trains    map[string]TrainConfig `yaml:"trains"`
	Consumers []ConsumerEntry        `yaml:"consumers"`
}

// FluidConfig describes a process gas.
type FluidConfig struct {
	MolarMass float64 `yaml:"molar_mass"` // kg/mol
	Cp        float64 `yaml:"cp"`         // J/(kg K)
}

// TrainConfig describes a compressor train.
type TrainConfig struct {
	Kind   string        `yaml:"kind"`  // single_speed or variable_speed
	Fluid  string        `yaml:"fluid"` // key into fluids
	Speed  float64       `yaml:"speed"` // rpm, single_speed only
	Stages []StageConfig `yaml:"stages"`
}

// StageConfig describes one compression stage.
type StageConfig struct {
	InletTemperature  float64     `yaml:"inlet_temperature"`   // K
	PressureDropAhead float64     `yaml:"pressure_drop_ahead"` // bar
	RemoveLiquid      bool        `yaml:"remove_liquid"`
	Chart             ChartConfig `yaml:"chart"`
}

// ChartConfig is a set of speed curves.
type ChartConfig struct {
	Curves []CurveConfig `yaml:"curves"`
}

// CurveConfig is one speed line of a chart.
type CurveConfig struct {
	Speed  float64       `yaml:"speed"` // rpm
	Points []PointConfig `yaml:"points"`
}

// PointConfig is one chart point.
type PointConfig struct {
	Rate       float64 `yaml:"rate"`       // Am3/h
	Head       float64 `yaml:"head"`       // J/kg
	Efficiency float64 `yaml:"efficiency"` // polytropic, 0..1
}

// ConsumerEntry is one consumer with its time-partitioned configuration.
// Temporal maps activation dates to configurations; each configuration is
// active until the next key, the last until the horizon end.
type ConsumerEntry struct {
	Name     string                         `yaml:"name"`
	Temporal map[string]ConsumerModelConfig `yaml:"temporal"`
}

// ConsumerModelConfig is a consumer's configuration for one period.
type ConsumerModelConfig struct {
	Kind string `yaml:"kind"` // direct_fuel or compressor_train

	// direct_fuel
	Fuel string `yaml:"fuel"` // expression, Sm3/day

	// compressor_train
	Train             string  `yaml:"train"`              // key into trains
	MaxRecirculation  float64 `yaml:"max_recirculation"`  // kg/h
	Rate              string  `yaml:"rate"`               // expression, kg/h
	SuctionPressure   string  `yaml:"suction_pressure"`   // expression, bara
	DischargePressure string  `yaml:"discharge_pressure"` // expression, bara
}

// timeLayouts are accepted timestamp formats, tried in order.
var timeLayouts = []string{time.RFC3339, "2006-01-02"}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp %q (want RFC3339 or YYYY-MM-DD)", s)
}

// Load reads, validates and builds a model file.
func Load(path string) (*BuildResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes validates and builds a model from raw YAML.
func LoadBytes(data []byte) (*BuildResult, error) {
	// Decode twice: once generically for schema validation, once into the
	// typed shape for building. yaml.v3 keeps both views consistent.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding model file: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding model file: %w", err)
	}
	return Build(&file)
}
