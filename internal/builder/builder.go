package builder

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/relforge/relforge/internal/variant"
)

// FailureClass categorizes why a variant's build did not publish.
type FailureClass string

const (
	FailureBuild       FailureClass = "build-failed"
	FailurePush        FailureClass = "push-failed"
	FailureAuth        FailureClass = "auth-rejected"
	FailureTagConflict FailureClass = "tag-conflict"
)

// Result is the outcome of building and pushing one variant.
// Immutable once produced; the orchestrator aggregates these.
type Result struct {
	Spec    variant.Spec
	Version string

	// Tag is the resolved tag (template with version substituted)
	Tag string

	// Ref is the full push reference: host/repository:tag
	Ref string

	OK      bool
	Failure FailureClass
	Err     string

	Duration time.Duration
}

// failure builds a Result for a failed step
func failure(spec variant.Spec, version, tag, ref string, class FailureClass, err error) Result {
	return Result{
		Spec:    spec,
		Version: version,
		Tag:     tag,
		Ref:     ref,
		Failure: class,
		Err:     err.Error(),
	}
}

// RegistryOpts identifies the push target and its credentials.
// Credentials are read-only, shared configuration for the whole run.
type RegistryOpts struct {
	// Host is the registry host (e.g. "docker.io")
	Host string

	// Repository is the target repository (e.g. "acme/trainer")
	Repository string

	// Username and Password authenticate the push.
	// When both are empty, login is skipped and ambient runtime
	// credentials are used.
	Username string
	Password string
}

// Executor builds one image variant and pushes it under its release
// tag. All step failures are converted to a Failure outcome in the
// Result; Execute never aborts sibling variants. No retries are
// performed here; retry policy belongs to the caller.
type Executor struct {
	runtime string
	reg     RegistryOpts
	runner  Runner

	loginOnce sync.Once
	loginErr  error
}

// New creates an executor for the given runtime ("docker" or
// "podman"; use DetectRuntime to find one).
func New(runtime string, reg RegistryOpts) *Executor {
	return &Executor{
		runtime: runtime,
		reg:     reg,
		runner:  newRunner(runtime),
	}
}

// Execute builds spec's image from its build context and pushes it
// under the version tag. Steps: validate context, login (once per
// executor), build, push.
func (e *Executor) Execute(ctx context.Context, spec variant.Spec, version string) Result {
	start := time.Now()
	tag := spec.Tag(version)
	ref := fmt.Sprintf("%s/%s:%s", e.reg.Host, e.reg.Repository, tag)

	res := e.execute(ctx, spec, version, tag, ref)
	res.Duration = time.Since(start)
	return res
}

func (e *Executor) execute(ctx context.Context, spec variant.Spec, version, tag, ref string) Result {
	if _, err := os.Stat(spec.DockerfilePath()); err != nil {
		return failure(spec, version, tag, ref, FailureBuild,
			fmt.Errorf("build context missing: %w", err))
	}

	if err := e.login(ctx); err != nil {
		return failure(spec, version, tag, ref, FailureAuth, err)
	}

	if _, err := e.runner.Exec(ctx,
		"build", "-f", spec.DockerfilePath(), "-t", ref, spec.ContextPath); err != nil {
		return failure(spec, version, tag, ref, FailureBuild, err)
	}

	if _, err := e.runner.Exec(ctx, "push", ref); err != nil {
		return failure(spec, version, tag, ref, classifyPushError(err), err)
	}

	return Result{Spec: spec, Version: version, Tag: tag, Ref: ref, OK: true}
}

// login authenticates to the registry once per executor lifetime.
// Credentials are shared read-only across all variants of a run, so
// one session covers every push.
func (e *Executor) login(ctx context.Context) error {
	e.loginOnce.Do(func() {
		if e.reg.Username == "" && e.reg.Password == "" {
			return
		}
		_, err := e.runner.ExecWithStdin(ctx, e.reg.Password,
			"login", "-u", e.reg.Username, "--password-stdin", e.reg.Host)
		if err != nil {
			e.loginErr = fmt.Errorf("registry login: %w", err)
		}
	})
	return e.loginErr
}

// classifyPushError maps a push failure to its reason class by
// inspecting the runtime's stderr. Tag conflicts (registry forbids
// overwrite) and auth rejections are reported distinctly so a retry
// with the same version is diagnosable, never silently ignored.
func classifyPushError(err error) FailureClass {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "tag is immutable"),
		strings.Contains(msg, "cannot overwrite"),
		strings.Contains(msg, "already exists"):
		return FailureTagConflict
	case strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "authentication required"),
		strings.Contains(msg, "denied"):
		return FailureAuth
	default:
		return FailurePush
	}
}
