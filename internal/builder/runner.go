package builder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Runner executes container runtime commands.
type Runner interface {
	Exec(ctx context.Context, args ...string) (string, error)
	ExecWithStdin(ctx context.Context, stdin string, args ...string) (string, error)
}

// osRunner executes real runtime commands via exec.CommandContext.
type osRunner struct {
	runtime string
}

func (r osRunner) Exec(ctx context.Context, args ...string) (string, error) {
	return r.run(ctx, nil, args)
}

func (r osRunner) ExecWithStdin(ctx context.Context, stdin string, args ...string) (string, error) {
	return r.run(ctx, strings.NewReader(stdin), args)
}

func (r osRunner) run(ctx context.Context, stdin *strings.Reader, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, r.runtime, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s %s failed: %w\nstderr: %s",
			r.runtime, strings.Join(args, " "), err, stderr.String())
	}

	return stdout.String(), nil
}

var (
	runnerFactory = func(runtime string) Runner { return osRunner{runtime: runtime} }
	factoryMu     sync.RWMutex
)

// SetRunnerFactory replaces how runners are constructed. Intended for tests.
func SetRunnerFactory(factory func(runtime string) Runner) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if factory == nil {
		runnerFactory = func(runtime string) Runner { return osRunner{runtime: runtime} }
		return
	}
	runnerFactory = factory
}

func newRunner(runtime string) Runner {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	return runnerFactory(runtime)
}
