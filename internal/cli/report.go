package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/enflow/enflow/internal/results"
)

// NewReportCommand creates the report command.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var (
		storePath  string
		output     string
		reportKind string
	)

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Render a persisted run as CSV or JSON",
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

			if err := writeReport(cmd, output, reportKind, run.Usage); err != nil {
				return WrapExitError(ExitCommandError, "writing report", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "enflow.db", "run store database path")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "report file path, - for stdout")
	cmd.Flags().StringVar(&reportKind, "report", "csv", "report format (csv|json)")
	return cmd
}
