package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "relforge version %s\n", app.versionInfo.Version)
			fmt.Fprintf(out, "commit: %s\n", app.versionInfo.Commit)
			fmt.Fprintf(out, "built: %s\n", app.versionInfo.Date)
			return nil
		},
	}

	return cmd
}
