package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relforge/relforge/internal/config"
	"github.com/relforge/relforge/internal/orchestrator"
	"github.com/relforge/relforge/internal/version"
)

// NewPlanCmd creates the plan command
func NewPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a release would push, without building",
		Long: `Plan resolves the release version and prints the tag each variant
would be pushed under. No images are built or pushed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg, err := config.LoadConfig(wd)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			orch := orchestrator.New(orchestrator.Config{}, cfg.VariantSpecs(), orchestrator.Dependencies{
				Resolver: &version.Resolver{
					Command: cfg.Version.Command,
					Args:    cfg.Version.Args,
					Dir:     wd,
				},
			})

			resolved, specs, err := orch.Plan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Version: %s\n\n", resolved)
			for _, spec := range specs {
				fmt.Fprintf(out, "  %-26s %s/%s:%s\n",
					spec.Name, cfg.Registry.Host, cfg.Registry.Repository, spec.Tag(resolved))
			}

			return nil
		},
	}

	return cmd
}
