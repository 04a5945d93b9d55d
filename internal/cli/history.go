package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/config"
	"github.com/relforge/relforge/internal/ledger"
)

// HistoryOptions holds flags for the history command
type HistoryOptions struct {
	Limit int    // Number of runs to show
	Run   string // Show per-variant results for one run ID
}

// NewHistoryCmd creates the history command
func NewHistoryCmd(app *App) *cobra.Command {
	opts := HistoryOptions{Limit: 10}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past release runs from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(wd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := ledger.Open(cfg.Ledger.Path)
			if err != nil {
				return fmt.Errorf("failed to open ledger: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if opts.Run != "" {
				results, err := store.Results(opts.Run)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintf(out, "no results for run %s\n", opts.Run)
					return nil
				}
				for _, res := range results {
					if res.Status == ledger.ResultStatusSuccess {
						fmt.Fprintf(out, "  ✓ %-26s %s (%s)\n", res.Variant, res.Ref, res.Duration.Round(time.Millisecond))
					} else {
						fmt.Fprintf(out, "  ✗ %-26s %s: %s\n", res.Variant, res.FailureClass, res.Error)
					}
				}
				return nil
			}

			runs, err := store.ListRuns(opts.Limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "no recorded runs")
				return nil
			}
			for _, run := range runs {
				line := fmt.Sprintf("%s  %-10s version=%s  %s",
					run.StartedAt.Format(time.RFC3339), run.Status, run.Version, run.ID)
				if run.Error != "" {
					line += "  error=" + run.Error
				}
				fmt.Fprintln(out, line)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of runs to show")
	cmd.Flags().StringVar(&opts.Run, "run", "", "Show per-variant results for the given run ID")

	return cmd
}
