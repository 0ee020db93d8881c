package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/enflow/enflow/internal/results"
)

// runListing is the runs command's output payload.
type runListing struct {
	Runs []runListEntry `json:"runs"`
}

type runListEntry struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	Model     string `json:"model"`
}

func (l runListing) String() string {
	if len(l.Runs) == 0 {
		return "no runs"
	}
	var b strings.Builder
	for i, r := range l.Runs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s  %s", r.ID, r.CreatedAt, r.Model)
	}
	return b.String()
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(opts *RootOptions) *cobra.Command {
	var storePath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			store, err := results.Open(storePath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening run store", err)
			}
			defer store.Close()

			infos, err := store.ListRuns()
			if err != nil {
				return WrapExitError(ExitCommandError, "listing runs", err)
			}

			listing := runListing{Runs: []runListEntry{}}
			for _, info := range infos {
				listing.Runs = append(listing.Runs, runListEntry{
					ID:        info.ID.String(),
					CreatedAt: info.CreatedAt.Format(time.RFC3339),
					Model:     info.ModelPath,
				})
			}
			return formatter.Success(listing)
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "enflow.db", "run store database path")
	return cmd
}
