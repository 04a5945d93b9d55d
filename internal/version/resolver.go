package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"sync"
)

// tagToken matches version strings legal in a container tag
var tagToken = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ResolutionError indicates the release version could not be obtained
// or failed validation. It is fatal: no builds run without a version.
type ResolutionError struct {
	Source string // the metadata command that was queried
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve version via %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("resolve version via %s: %s", e.Source, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Runner executes the metadata command.
type Runner interface {
	Exec(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// osRunner executes real commands via exec.CommandContext.
type osRunner struct{}

func (osRunner) Exec(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w\nstderr: %s",
			name, strings.Join(args, " "), err, stderr.String())
	}

	return stdout.String(), nil
}

var (
	defaultRunner Runner = osRunner{}
	runnerMu      sync.RWMutex
)

// SetDefaultRunner replaces the default runner. Intended for tests.
func SetDefaultRunner(runner Runner) {
	runnerMu.Lock()
	defer runnerMu.Unlock()
	if runner == nil {
		defaultRunner = osRunner{}
		return
	}
	defaultRunner = runner
}

// Resolver obtains the release version from project build metadata.
// Resolve is called exactly once per orchestration run; the
// orchestrator caches the result so all variants share one version.
type Resolver struct {
	// Command is the metadata binary (e.g. "python")
	Command string

	// Args are passed to Command (e.g. "setup.py", "--version")
	Args []string

	// Dir is the working directory for the query ("" = current)
	Dir string
}

// Resolve queries the metadata source and validates the returned
// token. The token must be a single non-empty line matching
// [A-Za-z0-9_.-]+ so it is usable in a container tag.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	source := r.Command
	if len(r.Args) > 0 {
		source = source + " " + strings.Join(r.Args, " ")
	}

	runnerMu.RLock()
	runner := defaultRunner
	runnerMu.RUnlock()

	out, err := runner.Exec(ctx, r.Dir, r.Command, r.Args...)
	if err != nil {
		return "", &ResolutionError{Source: source, Reason: "metadata query failed", Err: err}
	}

	token := strings.TrimSpace(out)
	if token == "" {
		return "", &ResolutionError{Source: source, Reason: "metadata query returned no output"}
	}
	if strings.ContainsAny(token, "\r\n") {
		return "", &ResolutionError{
			Source: source,
			Reason: fmt.Sprintf("expected a single line, got %d", 1+strings.Count(token, "\n")),
		}
	}
	if !tagToken.MatchString(token) {
		return "", &ResolutionError{
			Source: source,
			Reason: fmt.Sprintf("version %q contains characters illegal in a tag", token),
		}
	}

	return token, nil
}
