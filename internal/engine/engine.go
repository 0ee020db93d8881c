package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/enflow/enflow/internal/compressor"
	"github.com/enflow/enflow/internal/expr"
	"github.com/enflow/enflow/internal/solve"
	"github.com/enflow/enflow/internal/thermo"
	"github.com/enflow/enflow/internal/timeline"
)

// Model is a fully built process model, ready to evaluate. Instances are
// produced once by the configuration layer and read-only afterwards.
type Model struct {
	// Times is the global ordered evaluation time vector.
	Times []time.Time
	// End closes the evaluation horizon [Times[0], End).
	End time.Time
	// Variables are the shared time-series arrays expressions reference,
	// each of length len(Times).
	Variables map[string][]float64
	// Consumers in declaration order.
	Consumers []Consumer
	// DefaultsToZero makes sub-periods no configuration covers evaluate to
	// zero usage instead of failing the run.
	DefaultsToZero bool
}

// Horizon returns the evaluation period.
func (m *Model) Horizon() timeline.Period {
	return timeline.Period{Start: m.Times[0], End: m.End}
}

// ConsumerUsage is the per-timestep energy usage of one consumer. Valid is
// false where the operating-point search failed: the usage there is zero
// and the timestep must be treated as outside the equipment envelope.
type ConsumerUsage struct {
	Name  string
	Unit  string
	Usage []float64
	Valid []bool
}

// RunUsage is the complete result of evaluating a model.
type RunUsage struct {
	Times     []time.Time
	Consumers []ConsumerUsage
}

// Engine evaluates models. It holds the injected thermodynamic engine and
// no other state; a single Engine value serves any number of sequential
// runs.
type Engine struct {
	thermo thermo.Engine
	log    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger directs engine diagnostics to log.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine on the given thermodynamic property engine.
func New(t thermo.Engine, opts ...Option) *Engine {
	e := &Engine{thermo: t, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates every consumer over the model horizon.
func (e *Engine) Run(m *Model) (*RunUsage, error) {
	if len(m.Times) == 0 {
		return nil, fmt.Errorf("model has no evaluation times")
	}
	if !m.End.After(m.Times[len(m.Times)-1]) {
		return nil, fmt.Errorf("horizon end %s does not cover the last evaluation time", m.End.Format(time.RFC3339))
	}

	out := &RunUsage{Times: m.Times}
	for _, consumer := range m.Consumers {
		usage, err := e.runConsumer(m, consumer)
		if err != nil {
			return nil, fmt.Errorf("consumer %s: %w", consumer.Name, err)
		}
		out.Consumers = append(out.Consumers, usage)
	}
	return out, nil
}

func (e *Engine) runConsumer(m *Model, consumer Consumer) (ConsumerUsage, error) {
	fillLen := len(m.Times)
	usage := ConsumerUsage{
		Name:  consumer.Name,
		Usage: make([]float64, fillLen),
		Valid: make([]bool, fillLen),
	}
	for i := range usage.Valid {
		usage.Valid[i] = true
	}

	horizon := m.Horizon()
	entries := consumer.Model.Clip(horizon)
	if err := e.checkCoverage(m, consumer, entries, horizon); err != nil {
		return ConsumerUsage{}, err
	}

	for _, entry := range entries {
		unit := entry.Value.Unit()
		if usage.Unit == "" {
			usage.Unit = unit
		} else if usage.Unit != unit {
			// A consumer reports one unit over the whole horizon; mixed
			// kinds are rejected here for models assembled in code (the
			// configuration loader rejects them earlier).
			return ConsumerUsage{}, fmt.Errorf("configuration at %s switches unit from %s to %s",
				entry.Period.Start.Format(time.RFC3339), usage.Unit, unit)
		}
		lo, hi := timeline.Subset(m.Times, entry.Period)
		if lo == hi {
			continue
		}
		if err := e.runPeriod(m, entry.Value, &usage, lo, hi); err != nil {
			return ConsumerUsage{}, fmt.Errorf("period %s: %w", entry.Period, err)
		}
	}
	return usage, nil
}

// checkCoverage enforces the gap policy: uncovered sub-periods are either a
// configured zero default or a model error.
func (e *Engine) checkCoverage(m *Model, consumer Consumer, entries []timeline.Entry[ConsumerConfig], horizon timeline.Period) error {
	covered := timeline.Period{Start: horizon.Start, End: horizon.Start}
	for _, entry := range entries {
		if entry.Period.Start.After(covered.End) {
			break
		}
		if entry.Period.End.After(covered.End) {
			covered.End = entry.Period.End
		}
	}
	if covered.End.Equal(horizon.End) || covered.End.After(horizon.End) {
		return nil
	}
	if m.DefaultsToZero {
		e.log.Debug("sub-period without configuration defaults to zero usage",
			"consumer", consumer.Name,
			"from", covered.End.Format(time.RFC3339),
			"until", horizon.End.Format(time.RFC3339))
		return nil
	}
	return fmt.Errorf("no configuration covers %s from %s", consumer.Name, covered.End.Format(time.RFC3339))
}

// runPeriod evaluates one configuration over the timestep range [lo, hi).
// Expressions evaluate vectorized over the full fill length; only the
// period's index range is consumed.
func (e *Engine) runPeriod(m *Model, cfg ConsumerConfig, usage *ConsumerUsage, lo, hi int) error {
	fillLen := len(m.Times)

	switch cfg.Kind {
	case DirectFuel:
		fuel, err := expr.Evaluate(cfg.Fuel, m.Variables, fillLen)
		if err != nil {
			return fmt.Errorf("fuel expression: %w", err)
		}
		copy(usage.Usage[lo:hi], fuel[lo:hi])
		return nil

	case CompressorTrain:
		rate, err := expr.Evaluate(cfg.Rate, m.Variables, fillLen)
		if err != nil {
			return fmt.Errorf("rate expression: %w", err)
		}
		suction, err := expr.Evaluate(cfg.SuctionPressure, m.Variables, fillLen)
		if err != nil {
			return fmt.Errorf("suction pressure expression: %w", err)
		}
		discharge, err := expr.Evaluate(cfg.DischargePressure, m.Variables, fillLen)
		if err != nil {
			return fmt.Errorf("discharge pressure expression: %w", err)
		}

		for i := lo; i < hi; i++ {
			if rate[i] <= 0 {
				// Nothing to compress this timestep.
				continue
			}
			sol, err := e.solveTimestep(cfg, compressor.Conditions{
				MassRate:        rate[i],
				SuctionPressure: suction[i],
			}, discharge[i])
			if err != nil {
				var ncErr *solve.NotConvergedError
				if errors.As(err, &ncErr) {
					e.log.Warn("operating-point search did not converge, flagging timestep invalid",
						"consumer", usage.Name, "time", m.Times[i].Format(time.RFC3339), "error", err)
					usage.Valid[i] = false
					continue
				}
				return err
			}
			if !sol.Success {
				e.log.Debug("operating point outside equipment envelope",
					"consumer", usage.Name, "time", m.Times[i].Format(time.RFC3339))
				usage.Valid[i] = false
				continue
			}
			usage.Usage[i] = sol.Point.Power / 1e6 // W to MW
		}
		return nil

	default:
		return fmt.Errorf("unknown consumer kind %d", cfg.Kind)
	}
}

// solveTimestep dispatches on the closed set of train variants.
func (e *Engine) solveTimestep(cfg ConsumerConfig, cond compressor.Conditions, targetPressure float64) (compressor.Solution, error) {
	switch cfg.Train.Kind {
	case compressor.VariableSpeed:
		solver := compressor.NewSpeedSolver(cfg.Train, e.thermo, targetPressure)
		solver.Log = e.log
		return solver.Solve(cond)
	case compressor.SingleSpeed:
		solver := compressor.NewRecircSolver(cfg.Train, e.thermo, cfg.MaxRecirculation, &targetPressure)
		solver.Log = e.log
		return solver.Solve(cond)
	default:
		return compressor.Solution{}, fmt.Errorf("unknown train kind %d", cfg.Train.Kind)
	}
}
