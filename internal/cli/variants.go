package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/config"
)

// NewVariantsCmd creates the variants command
func NewVariantsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "List the registered image variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(wd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, spec := range cfg.VariantSpecs() {
				fmt.Fprintf(out, "%-26s context=%s tag=%s\n",
					spec.Name, spec.ContextPath, spec.TagTemplate)
			}

			return nil
		},
	}

	return cmd
}
