package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/relforge/relforge/internal/builder"
	"github.com/relforge/relforge/internal/cli/tui"
	"github.com/relforge/relforge/internal/config"
	"github.com/relforge/relforge/internal/events"
	"github.com/relforge/relforge/internal/ledger"
	"github.com/relforge/relforge/internal/orchestrator"
	"github.com/relforge/relforge/internal/variant"
	"github.com/relforge/relforge/internal/version"
)

// ReleaseOptions holds flags for the release command
type ReleaseOptions struct {
	Parallelism int  // Max concurrent variant builds (0 = from config)
	Strict      bool // Any variant failure makes the exit non-zero
	NoTUI       bool // Disable TUI even when stdout is a TTY
	NoHistory   bool // Skip recording the run in the ledger
}

// Validate checks ReleaseOptions for validity
func (opts ReleaseOptions) Validate() error {
	if opts.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", opts.Parallelism)
	}
	return nil
}

// NewReleaseCmd creates the release command
func NewReleaseCmd(app *App) *cobra.Command {
	opts := ReleaseOptions{}

	cmd := &cobra.Command{
		Use:   "release",
		Short: "Build and push all release image variants",
		Long: `Release resolves the project version, then builds every registered
image variant and pushes it under its <variant>-release-<version> tag.

Variant failures are independent: one failed build never blocks its
siblings, and every variant's outcome appears in the final report.
A failed version resolution aborts the run before any build starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}
			return app.RunRelease(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "p", 0, "Max concurrent variant builds (default: from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when any variant fails")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI (use event log output)")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "Do not record this run in the history ledger")

	return cmd
}

// RunRelease executes one orchestrated release run
func (a *App) RunRelease(ctx context.Context, opts ReleaseOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := NewSignalHandler(cancel)
	handler.OnShutdown(func() {
		fmt.Fprintln(os.Stderr, "\nShutting down, letting in-flight builds finish...")
	})
	handler.Start()
	defer handler.Stop()

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfig(wd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parallelism := cfg.Build.Parallelism
	if opts.Parallelism > 0 {
		parallelism = opts.Parallelism
	}

	runtime := cfg.Build.Runtime
	if runtime == "auto" {
		runtime, err = builder.DetectRuntime()
		if err != nil {
			return err
		}
	}

	eventBus := events.NewBus(1000)
	defer eventBus.Close()

	specs := cfg.VariantSpecs()
	useTUI := !opts.NoTUI && term.IsTerminal(int(os.Stdout.Fd()))

	var session *tuiSession
	if useTUI {
		model := tui.NewModel(variantNames(specs), parallelism)
		session = startTUISession(tea.NewProgram(model))
		eventBus.Subscribe(session.bridge.Handler())
	} else {
		eventBus.Subscribe(events.LogHandler(events.LogConfig{
			IncludePayload: a.verbose,
		}))
	}

	deps := orchestrator.Dependencies{
		Bus: eventBus,
		Resolver: &version.Resolver{
			Command: cfg.Version.Command,
			Args:    cfg.Version.Args,
			Dir:     wd,
		},
		Executor: builder.New(runtime, builder.RegistryOpts{
			Host:       cfg.Registry.Host,
			Repository: cfg.Registry.Repository,
			Username:   cfg.Registry.Username(),
			Password:   cfg.Registry.Password(),
		}),
	}

	if !opts.NoHistory {
		store, err := ledger.Open(cfg.Ledger.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: run history disabled: %v\n", err)
		} else {
			defer store.Close()
			deps.Recorder = store
		}
	}

	orch := orchestrator.New(orchestrator.Config{Parallelism: parallelism}, specs, deps)

	report, runErr := orch.Run(ctx)

	if session != nil {
		session.Finish()
	}

	if report != nil && report.RecordErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", report.RecordErr)
	}

	// Version resolution failure is fatal: no builds were attempted.
	if runErr != nil {
		return runErr
	}

	fmt.Print(RenderReport(report, useTUI))

	// Per-variant failures are reported but only fail the process in
	// strict mode; successes are never suppressed by a sibling failure.
	failures := len(report.Results) - report.Successes()
	if opts.Strict && failures > 0 {
		return fmt.Errorf("%d of %d variants failed", failures, len(report.Results))
	}

	return nil
}

// tuiSession owns the TUI program goroutine for one release run
type tuiSession struct {
	bridge *tui.Bridge
	done   chan struct{}
}

// startTUISession starts the program loop in the background
func startTUISession(program *tea.Program) *tuiSession {
	s := &tuiSession{
		bridge: tui.NewBridge(program),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		}
	}()
	return s
}

// Finish tells the program to quit and waits for its loop to exit so
// later stdout writes do not interleave with TUI teardown
func (s *tuiSession) Finish() {
	s.bridge.SendDone()
	<-s.done
}

// variantNames returns the names of the given specs in order
func variantNames(specs []variant.Spec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}
