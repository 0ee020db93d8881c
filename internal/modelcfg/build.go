package modelcfg

import (
	"fmt"
	"sort"
	"time"

	"github.com/enflow/enflow/internal/compressor"
	"github.com/enflow/enflow/internal/engine"
	"github.com/enflow/enflow/internal/expr"
	"github.com/enflow/enflow/internal/thermo"
	"github.com/enflow/enflow/internal/timeline"
)

// BuildResult is a built model plus the named trains, kept for commands
// that render chart geometry.
type BuildResult struct {
	Model  *engine.Model
	Trains map[string]*compressor.Train
}

// BuildError is a semantic model error with the offending element.
type BuildError struct {
	Element string
	Message string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("model: %s: %s", e.Element, e.Message)
}

func buildErrorf(element, format string, args ...any) *BuildError {
	return &BuildError{Element: element, Message: fmt.Sprintf(format, args...)}
}

// Build turns a decoded file into a domain model. The file is assumed
// schema-valid; Build enforces the semantic rules on top.
func Build(file *File) (*BuildResult, error) {
	times, end, err := buildHorizon(file)
	if err != nil {
		return nil, err
	}

	for name, values := range file.Variables {
		if len(values) != len(times) {
			return nil, buildErrorf("variables."+name,
				"has %d values, want %d (one per timestep)", len(values), len(times))
		}
	}

	fluids := make(map[string]thermo.Fluid, len(file.Fluids))
	for name, fc := range file.Fluids {
		fluids[name] = thermo.Fluid{Name: name, MolarMass: fc.MolarMass, Cp: fc.Cp}
	}

	trains := make(map[string]*compressor.Train, len(file.Trains))
	for name, tc := range file.Trains {
		train, err := buildTrain(name, tc, fluids)
		if err != nil {
			return nil, err
		}
		trains[name] = train
	}

	model := &engine.Model{
		Times:          times,
		End:            end,
		Variables:      file.Variables,
		DefaultsToZero: file.DefaultsToZero,
	}
	if model.Variables == nil {
		model.Variables = map[string][]float64{}
	}

	seen := make(map[string]bool, len(file.Consumers))
	for _, entry := range file.Consumers {
		if seen[entry.Name] {
			return nil, buildErrorf("consumers."+entry.Name, "duplicate consumer name")
		}
		seen[entry.Name] = true

		consumer, err := buildConsumer(entry, trains, end)
		if err != nil {
			return nil, err
		}
		model.Consumers = append(model.Consumers, consumer)
	}

	return &BuildResult{Model: model, Trains: trains}, nil
}

func buildHorizon(file *File) ([]time.Time, time.Time, error) {
	times := make([]time.Time, len(file.Times))
	for i, s := range file.Times {
		t, err := parseTime(s)
		if err != nil {
			return nil, time.Time{}, buildErrorf("times", "%v", err)
		}
		if i > 0 && !t.After(times[i-1]) {
			return nil, time.Time{}, buildErrorf("times", "not strictly ascending at index %d (%s)", i, s)
		}
		times[i] = t
	}

	end, err := parseTime(file.End)
	if err != nil {
		return nil, time.Time{}, buildErrorf("end", "%v", err)
	}
	if !end.After(times[len(times)-1]) {
		return nil, time.Time{}, buildErrorf("end", "%s does not cover the last evaluation time", file.End)
	}
	return times, end, nil
}

func buildTrain(name string, tc TrainConfig, fluids map[string]thermo.Fluid) (*compressor.Train, error) {
	element := "trains." + name

	fluid, ok := fluids[tc.Fluid]
	if !ok {
		return nil, buildErrorf(element, "unknown fluid %q", tc.Fluid)
	}

	train := &compressor.Train{Fluid: fluid}
	switch tc.Kind {
	case "single_speed":
		train.Kind = compressor.SingleSpeed
		if tc.Speed <= 0 {
			return nil, buildErrorf(element, "single-speed train requires a positive speed")
		}
		train.SetSpeed(tc.Speed)
	case "variable_speed":
		train.Kind = compressor.VariableSpeed
		train.MinFlowASV = true
		if tc.Speed != 0 {
			return nil, buildErrorf(element, "variable-speed train must not fix a speed")
		}
	default:
		return nil, buildErrorf(element, "unknown train kind %q", tc.Kind)
	}

	for i, sc := range tc.Stages {
		curves := make([]compressor.SpeedCurve, len(sc.Chart.Curves))
		for j, cc := range sc.Chart.Curves {
			points := make([]compressor.CurvePoint, len(cc.Points))
			for k, pc := range cc.Points {
				points[k] = compressor.CurvePoint{Rate: pc.Rate, Head: pc.Head, Efficiency: pc.Efficiency}
			}
			curves[j] = compressor.SpeedCurve{Speed: cc.Speed, Points: points}
		}
		chart, err := compressor.NewChart(curves)
		if err != nil {
			return nil, buildErrorf(element, "stage %d chart: %v", i+1, err)
		}
		train.Stages = append(train.Stages, compressor.Stage{
			Chart:             chart,
			InletTemperature:  sc.InletTemperature,
			PressureDropAhead: sc.PressureDropAhead,
			RemoveLiquid:      sc.RemoveLiquid,
		})
	}
	return train, nil
}

func buildConsumer(entry ConsumerEntry, trains map[string]*compressor.Train, end time.Time) (engine.Consumer, error) {
	element := "consumers." + entry.Name

	kinds := map[string]bool{}
	for _, cfg := range entry.Temporal {
		kinds[cfg.Kind] = true
	}
	if len(kinds) > 1 {
		return engine.Consumer{}, buildErrorf(element,
			"temporal configurations mix consumer kinds; a consumer keeps one kind over the horizon")
	}

	configs := make(map[time.Time]engine.ConsumerConfig, len(entry.Temporal))
	for key, cfg := range entry.Temporal {
		at, err := parseTime(key)
		if err != nil {
			return engine.Consumer{}, buildErrorf(element, "temporal key %q: %v", key, err)
		}
		built, err := buildConsumerConfig(element+".temporal."+key, cfg, trains)
		if err != nil {
			return engine.Consumer{}, err
		}
		configs[at] = built
	}

	tm, err := timeline.NewTemporalModel(configs, end)
	if err != nil {
		return engine.Consumer{}, buildErrorf(element, "%v", err)
	}
	return engine.Consumer{Name: entry.Name, Model: tm}, nil
}

func buildConsumerConfig(element string, cfg ConsumerModelConfig, trains map[string]*compressor.Train) (engine.ConsumerConfig, error) {
	var built engine.ConsumerConfig

	switch cfg.Kind {
	case "direct_fuel":
		built.Kind = engine.DirectFuel
		fuel, err := expr.Parse(cfg.Fuel)
		if err != nil {
			return built, buildErrorf(element, "fuel: %v", err)
		}
		built.Fuel = fuel

	case "compressor_train":
		built.Kind = engine.CompressorTrain
		train, ok := trains[cfg.Train]
		if !ok {
			return built, buildErrorf(element, "unknown train %q", cfg.Train)
		}
		built.Train = train
		built.MaxRecirculation = cfg.MaxRecirculation

		for _, field := range []struct {
			name   string
			source string
			dst    *expr.Expression
		}{
			{"rate", cfg.Rate, &built.Rate},
			{"suction_pressure", cfg.SuctionPressure, &built.SuctionPressure},
			{"discharge_pressure", cfg.DischargePressure, &built.DischargePressure},
		} {
			parsed, err := expr.Parse(field.source)
			if err != nil {
				return built, buildErrorf(element, "%s: %v", field.name, err)
			}
			*field.dst = parsed
		}

	default:
		return built, buildErrorf(element, "unknown consumer kind %q", cfg.Kind)
	}

	if err := built.Validate(); err != nil {
		return built, buildErrorf(element, "%v", err)
	}
	return built, nil
}

// VariableNames returns the referenced variable names of every expression
// in the model file, sorted and deduplicated. Used by validation output.
func VariableNames(file *File) []string {
	set := map[string]bool{}
	collect := func(source string) {
		if source == "" {
			return
		}
		e, err := expr.Parse(source)
		if err != nil {
			return
		}
		for _, v := range e.Variables() {
			set[v] = true
		}
	}
	for _, entry := range file.Consumers {
		for _, cfg := range entry.Temporal {
			collect(cfg.Fuel)
			collect(cfg.Rate)
			collect(cfg.SuctionPressure)
			collect(cfg.DischargePressure)
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
