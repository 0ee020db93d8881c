package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/enflow/enflow/internal/modelcfg"
	"github.com/enflow/enflow/internal/results"
)

// NewPlotCommand creates the plot command group.
func NewPlotCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render runs and charts as PNG images",
	}
	cmd.AddCommand(newPlotUsageCommand(opts))
	cmd.AddCommand(newPlotChartCommand(opts))
	return cmd
}

// newPlotUsageCommand plots a persisted run's usage series, one line per
// consumer.
func newPlotUsageCommand(opts *RootOptions) *cobra.Command {
	var (
		storePath string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "usage <run-id>",
		Short: "Plot a persisted run's usage over time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "parsing run ID", err)
			}

			store, err := results.Open(storePath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening run store", err)
			}
			defer store.Close()

			run, err := store.LoadRun(id)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading run", err)
			}

			p := plot.New()
			p.Title.Text = fmt.Sprintf("run %s", id)
			p.X.Label.Text = "time"
			p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
			p.Y.Label.Text = "usage"

			for i, c := range run.Usage.Consumers {
				xys := make(plotter.XYs, len(c.Usage))
				for j := range c.Usage {
					xys[j].X = float64(run.Usage.Times[j].Unix())
					xys[j].Y = c.Usage[j]
				}
				line, err := plotter.NewLine(xys)
				if err != nil {
					return WrapExitError(ExitCommandError, "building usage line", err)
				}
				line.Color = plotutil.Color(i)
				p.Add(line)
				p.Legend.Add(fmt.Sprintf("%s [%s]", c.Name, c.Unit), line)
			}

			if err := p.Save(20*vg.Centimeter, 10*vg.Centimeter, output); err != nil {
				return WrapExitError(ExitCommandError, "saving plot", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "enflow.db", "run store database path")
	cmd.Flags().StringVarP(&output, "output", "o", "usage.png", "output image path")
	return cmd
}

// newPlotChartCommand plots a train's compressor chart, one head-vs-rate
// line per speed curve.
func newPlotChartCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "chart <model.yaml> <train>",
		Short: "Plot a train's compressor chart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			built, err := modelcfg.Load(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "loading model", err)
			}
			train, ok := built.Trains[args[1]]
			if !ok {
				return NewExitError(ExitCommandError, fmt.Sprintf("model has no train %q", args[1]))
			}

			p := plot.New()
			p.Title.Text = args[1]
			p.X.Label.Text = "rate [Am3/h]"
			p.Y.Label.Text = "head [J/kg]"

			for stageIdx, stage := range train.Stages {
				for curveIdx, curve := range stage.Chart.Curves() {
					xys := make(plotter.XYs, len(curve.Points))
					for j, pt := range curve.Points {
						xys[j].X = pt.Rate
						xys[j].Y = pt.Head
					}
					line, err := plotter.NewLine(xys)
					if err != nil {
						return WrapExitError(ExitCommandError, "building chart line", err)
					}
					line.Color = plotutil.Color(curveIdx)
					p.Add(line)
					p.Legend.Add(fmt.Sprintf("stage %d, %.0f rpm", stageIdx+1, curve.Speed), line)
				}
			}

			if err := p.Save(20*vg.Centimeter, 14*vg.Centimeter, output); err != nil {
				return WrapExitError(ExitCommandError, "saving plot", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "chart.png", "output image path")
	return cmd
}
