package cli

import (
	"github.com/spf13/cobra"
)

// VersionInfo holds build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose bool

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{
		versionInfo: VersionInfo{Version: "dev", Commit: "unknown", Date: "unknown"},
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets build metadata for the version command.
// Empty values keep the dev defaults, so a binary built without
// ldflags still reports something sensible.
func (a *App) SetVersion(version, commit, date string) {
	if version != "" {
		a.versionInfo.Version = version
	}
	if commit != "" {
		a.versionInfo.Commit = commit
	}
	if date != "" {
		a.versionInfo.Date = date
	}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "relforge",
		Short: "Release image build orchestrator",
		Long: `Relforge resolves the project release version once, then builds and
pushes every registered image variant to the container registry under
<variant>-release-<version> tags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.AddCommand(NewReleaseCmd(a))
	a.rootCmd.AddCommand(NewPlanCmd(a))
	a.rootCmd.AddCommand(NewVariantsCmd(a))
	a.rootCmd.AddCommand(NewHistoryCmd(a))
	a.rootCmd.AddCommand(NewVersionCmd(a))
}
