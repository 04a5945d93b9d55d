package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/relforge/relforge/internal/builder"
	"github.com/relforge/relforge/internal/events"
	"github.com/relforge/relforge/internal/ledger"
	"github.com/relforge/relforge/internal/variant"
)

// State is the orchestrator's position in the run lifecycle
type State string

const (
	StateIdle             State = "idle"
	StateResolvingVersion State = "resolving-version"
	StateBuilding         State = "building"
	StateReporting        State = "reporting"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Resolver obtains the release version. Called exactly once per run.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Executor builds and pushes one variant
type Executor interface {
	Execute(ctx context.Context, spec variant.Spec, version string) builder.Result
}

// Recorder persists a completed run for the history ledger
type Recorder interface {
	RecordRun(run ledger.Run, results []ledger.Result) error
}

// Config holds orchestrator-specific configuration
type Config struct {
	// Parallelism is the maximum concurrent variant builds
	Parallelism int
}

// Dependencies bundles external dependencies for injection
type Dependencies struct {
	Bus      *events.Bus
	Resolver Resolver
	Executor Executor

	// Recorder is optional; nil disables run history
	Recorder Recorder
}

// Report is the outcome of one orchestration run.
// Results are ordered by the variant registry regardless of the
// order builds finished in.
type Report struct {
	ID       string
	Version  string
	Results  []builder.Result
	Started  time.Time
	Finished time.Time

	// Err is set only for fatal failures (version resolution);
	// per-variant failures live in Results
	Err error

	// RecordErr notes a failed history write; non-fatal
	RecordErr error
}

// Successes counts variants that published
func (r *Report) Successes() int {
	n := 0
	for _, res := range r.Results {
		if res.OK {
			n++
		}
	}
	return n
}

// TotalFailure reports whether every variant failed.
// A completed run with zero successes is flagged prominently.
func (r *Report) TotalFailure() bool {
	return len(r.Results) > 0 && r.Successes() == 0
}

// Orchestrator drives one release run: resolve the version once, then
// build every registered variant, then report. Runs are serialized
// process-wide through the gate; a concurrent trigger queues, it does
// not cancel the active run.
type Orchestrator struct {
	cfg      Config
	bus      *events.Bus
	resolver Resolver
	executor Executor
	recorder Recorder
	specs    []variant.Spec
	gate     *Gate

	mu    sync.Mutex
	state State
}

// New creates an orchestrator for the given variant specs
func New(cfg Config, specs []variant.Spec, deps Dependencies) *Orchestrator {
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &Orchestrator{
		cfg:      cfg,
		bus:      deps.Bus,
		resolver: deps.Resolver,
		executor: deps.Executor,
		recorder: deps.Recorder,
		specs:    specs,
		gate:     NewGate(),
		state:    StateIdle,
	}
}

// State returns the current lifecycle state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run executes one orchestration run. The call queues behind any
// in-flight run; ctx cancellation while queued drops the run without
// side effects. Version resolution failure is fatal and produces no
// build attempts; individual variant failures never abort siblings.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	if err := o.gate.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("run cancelled while queued: %w", err)
	}
	defer o.gate.Release()
	defer o.setStateTerminal()

	// Cancellation only drops a queued run. Once the gate is held the
	// run completes: in-flight builds are never killed mid-push.
	ctx = context.WithoutCancel(ctx)

	report := &Report{
		ID:      uuid.NewString(),
		Started: time.Now(),
	}

	o.setState(StateResolvingVersion)
	o.emit(events.NewEvent(events.RunStarted, "").WithPayload(map[string]any{
		"run_id":   report.ID,
		"variants": len(o.specs),
	}))

	version, err := o.resolver.Resolve(ctx)
	if err != nil {
		o.setState(StateFailed)
		report.Err = err
		report.Finished = time.Now()
		o.emit(events.NewEvent(events.RunFailed, "").WithError(err))
		o.record(report)
		return report, err
	}
	report.Version = version
	o.emit(events.NewEvent(events.RunVersionResolved, "").WithPayload(map[string]any{
		"version": version,
	}))

	o.setState(StateBuilding)
	report.Results = o.buildAll(ctx, version)

	o.setState(StateReporting)
	report.Finished = time.Now()
	o.record(report)
	o.emit(events.NewEvent(events.RunCompleted, "").WithPayload(map[string]any{
		"run_id":    report.ID,
		"version":   version,
		"successes": report.Successes(),
		"failures":  len(report.Results) - report.Successes(),
	}))

	o.setState(StateDone)
	return report, nil
}

// buildAll executes every spec exactly once, bounded by Parallelism.
// Results land at the spec's registry position so reporting order is
// stable no matter which build finishes first.
func (o *Orchestrator) buildAll(ctx context.Context, version string) []builder.Result {
	results := make([]builder.Result, len(o.specs))
	sem := make(chan struct{}, o.cfg.Parallelism)
	var wg sync.WaitGroup

	for i, spec := range o.specs {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, spec variant.Spec) {
			defer func() {
				<-sem
				wg.Done()
			}()

			o.emit(events.NewEvent(events.BuildStarted, spec.Name).WithPayload(map[string]any{
				"tag": spec.Tag(version),
			}))

			res := o.executor.Execute(ctx, spec, version)
			results[i] = res

			if res.OK {
				o.emit(events.NewEvent(events.BuildSucceeded, spec.Name).WithPayload(map[string]any{
					"ref": res.Ref,
				}))
			} else {
				o.emit(events.NewEvent(events.BuildFailed, spec.Name).
					WithPayload(map[string]any{"failure_class": string(res.Failure)}).
					WithError(fmt.Errorf("%s", res.Err)))
			}
		}(i, spec)
	}

	wg.Wait()
	return results
}

// Plan resolves the version and returns what a run would push,
// without building anything.
func (o *Orchestrator) Plan(ctx context.Context) (string, []variant.Spec, error) {
	version, err := o.resolver.Resolve(ctx)
	if err != nil {
		return "", nil, err
	}
	return version, o.specs, nil
}

func (o *Orchestrator) record(report *Report) {
	if o.recorder == nil {
		return
	}

	run := ledger.Run{
		ID:          report.ID,
		Version:     report.Version,
		Status:      ledger.RunStatusCompleted,
		StartedAt:   report.Started,
		CompletedAt: report.Finished,
	}
	if report.Err != nil {
		run.Status = ledger.RunStatusFailed
		run.Error = report.Err.Error()
	}

	results := make([]ledger.Result, 0, len(report.Results))
	for _, res := range report.Results {
		lr := ledger.Result{
			RunID:    report.ID,
			Variant:  res.Spec.Name,
			Tag:      res.Tag,
			Ref:      res.Ref,
			Status:   ledger.ResultStatusSuccess,
			Duration: res.Duration,
		}
		if !res.OK {
			lr.Status = ledger.ResultStatusFailure
			lr.FailureClass = string(res.Failure)
			lr.Error = res.Err
		}
		results = append(results, lr)
	}

	if err := o.recorder.RecordRun(run, results); err != nil {
		report.RecordErr = fmt.Errorf("record run history: %w", err)
	}
}

// setStateTerminal resets to Idle unless a terminal state was reached
func (o *Orchestrator) setStateTerminal() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateDone && o.state != StateFailed {
		o.state = StateIdle
	}
}

func (o *Orchestrator) emit(e events.Event) {
	if o.bus != nil {
		o.bus.Emit(e)
	}
}
