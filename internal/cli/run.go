package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/enflow/enflow/internal/engine"
	"github.com/enflow/enflow/internal/modelcfg"
	"github.com/enflow/enflow/internal/results"
	"github.com/enflow/enflow/internal/thermo"
)

// RunFlags holds flags for the run command.
type RunFlags struct {
	Store      string // run store path, empty disables persistence
	Output     string // report path, "-" for stdout, empty disables
	ReportKind string // csv | json
	FlashCache string // flash cache path, empty disables
}

// NewRunCommand creates the run command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	flags := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "run <model.yaml>",
		Short: "Evaluate a model over its horizon",
		Long: `Loads a model file, evaluates every consumer over the evaluation
horizon and prints a per-consumer summary. The run can be persisted to a
run store and rendered as a CSV or JSON report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.Store, "store", "", "run store database path (omit to skip persisting)")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "report file path, - for stdout")
	cmd.Flags().StringVar(&flags.ReportKind, "report", "csv", "report format (csv|json)")
	cmd.Flags().StringVar(&flags.FlashCache, "flash-cache", "", "flash cache database path (omit to flash uncached)")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RootOptions, flags *RunFlags, modelPath string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	built, err := modelcfg.Load(modelPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "loading model", err)
	}
	formatter.VerboseLog("loaded %s: %d consumers, %d timesteps",
		modelPath, len(built.Model.Consumers), len(built.Model.Times))

	var props thermo.Engine = thermo.ReferenceEngine{}
	if flags.FlashCache != "" {
		cache, err := thermo.NewFlashCache(props, flags.FlashCache)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening flash cache", err)
		}
		defer func() {
			hits, misses := cache.Stats()
			formatter.VerboseLog("flash cache: %d hits, %d misses", hits, misses)
			cache.Close()
		}()
		props = cache
	}

	usage, err := engine.New(props).Run(built.Model)
	if err != nil {
		return WrapExitError(ExitFailure, "evaluating model", err)
	}

	if flags.Store != "" {
		store, err := results.Open(flags.Store)
		if err != nil {
			return WrapExitError(ExitCommandError, "opening run store", err)
		}
		defer store.Close()
		id, err := store.SaveRun(modelPath, usage)
		if err != nil {
			return WrapExitError(ExitCommandError, "persisting run", err)
		}
		formatter.VerboseLog("saved run %s", id)
	}

	if flags.Output != "" {
		if err := writeReport(cmd, flags.Output, flags.ReportKind, usage); err != nil {
			return WrapExitError(ExitCommandError, "writing report", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(runSummary(usage))
	}
	printSummary(cmd, usage)
	return nil
}

// writeReport renders usage to path in the requested format. "-" writes to
// the command's stdout.
func writeReport(cmd *cobra.Command, path, kind string, usage *engine.RunUsage) error {
	var out io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	switch kind {
	case "csv":
		return results.WriteCSV(out, usage)
	case "json":
		return results.WriteJSON(out, usage)
	default:
		return fmt.Errorf("unknown report format %q (want csv or json)", kind)
	}
}

type consumerSummary struct {
	Name    string  `json:"name"`
	Unit    string  `json:"unit"`
	Total   float64 `json:"total"`
	Invalid int     `json:"invalid_timesteps"`
}

func runSummary(usage *engine.RunUsage) []consumerSummary {
	summaries := make([]consumerSummary, 0, len(usage.Consumers))
	for _, c := range usage.Consumers {
		s := consumerSummary{Name: c.Name, Unit: c.Unit}
		for i, v := range c.Usage {
			s.Total += v
			if !c.Valid[i] {
				s.Invalid++
			}
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// printSummary writes the human-readable per-consumer totals with grouped
// thousands so large fuel volumes stay readable.
func printSummary(cmd *cobra.Command, usage *engine.RunUsage) {
	p := message.NewPrinter(language.English)
	w := cmd.OutOrStdout()
	for _, s := range runSummary(usage) {
		p.Fprintf(w, "%s: %.2f %s total over %d timesteps", s.Name, s.Total, s.Unit, len(usage.Times))
		if s.Invalid > 0 {
			p.Fprintf(w, " (%d invalid)", s.Invalid)
		}
		p.Fprintln(w)
	}
}
