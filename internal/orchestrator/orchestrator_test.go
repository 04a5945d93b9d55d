package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relforge/relforge/internal/builder"
	"github.com/relforge/relforge/internal/ledger"
	"github.com/relforge/relforge/internal/variant"
)

// fakeResolver returns a fixed version and counts calls
type fakeResolver struct {
	mu      sync.Mutex
	version string
	err     error
	calls   int
	started chan struct{} // closed on first call when non-nil
}

func (f *fakeResolver) Resolve(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	calls := f.calls
	f.mu.Unlock()
	if f.started != nil && calls == 1 {
		close(f.started)
	}
	return f.version, f.err
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeExecutor succeeds by default; failVariants lists names that fail
type fakeExecutor struct {
	mu           sync.Mutex
	calls        []string
	failVariants map[string]builder.FailureClass
	block        chan struct{} // when non-nil, Execute blocks until closed
}

func (f *fakeExecutor) Execute(ctx context.Context, spec variant.Spec, version string) builder.Result {
	f.mu.Lock()
	f.calls = append(f.calls, spec.Name)
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}

	tag := spec.Tag(version)
	ref := fmt.Sprintf("docker.io/acme/trainer:%s", tag)
	if class, ok := f.failVariants[spec.Name]; ok {
		return builder.Result{
			Spec: spec, Version: version, Tag: tag, Ref: ref,
			Failure: class, Err: "injected failure",
		}
	}
	return builder.Result{Spec: spec, Version: version, Tag: tag, Ref: ref, OK: true}
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestOrchestrator(resolver Resolver, executor Executor) *Orchestrator {
	return New(Config{Parallelism: 4}, variant.List(), Dependencies{
		Resolver: resolver,
		Executor: executor,
	})
}

func TestRun_AllVariantsSucceed(t *testing.T) {
	executor := &fakeExecutor{}
	orch := newTestOrchestrator(&fakeResolver{version: "1.2.3"}, executor)

	report, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	wantTags := []string{
		"cpu-release-1.2.3",
		"gpu-release-1.2.3",
		"gpu-deepspeed-release-1.2.3",
		"gpu-fp8-transformerengine-release-1.2.3",
	}
	for i, res := range report.Results {
		assert.True(t, res.OK, "variant %s failed", res.Spec.Name)
		assert.Equal(t, wantTags[i], res.Tag)
	}
	assert.Equal(t, 4, report.Successes())
	assert.Equal(t, StateDone, orch.State())
}

func TestRun_ResolutionFailureSkipsBuilds(t *testing.T) {
	executor := &fakeExecutor{}
	orch := newTestOrchestrator(&fakeResolver{err: errors.New("setup.py missing")}, executor)

	report, err := orch.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 0, executor.callCount(), "no builds may run without a version")
	assert.Empty(t, report.Results)
	assert.Equal(t, StateFailed, orch.State())
}

func TestRun_VersionResolvedOnce(t *testing.T) {
	resolver := &fakeResolver{version: "1.2.3"}
	orch := newTestOrchestrator(resolver, &fakeExecutor{})

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolver.callCount())
}

func TestRun_IndependentFailure(t *testing.T) {
	executor := &fakeExecutor{
		failVariants: map[string]builder.FailureClass{
			"gpu-deepspeed": builder.FailureBuild,
		},
	}
	orch := newTestOrchestrator(&fakeResolver{version: "1.2.3"}, executor)

	report, err := orch.Run(context.Background())
	require.NoError(t, err, "per-variant failure must not fail the run")

	require.Len(t, report.Results, 4)
	assert.Equal(t, 3, report.Successes())
	for _, res := range report.Results {
		if res.Spec.Name == "gpu-deepspeed" {
			assert.False(t, res.OK)
			assert.Equal(t, builder.FailureBuild, res.Failure)
		} else {
			assert.True(t, res.OK, "sibling %s should have succeeded", res.Spec.Name)
		}
	}
	assert.False(t, report.TotalFailure())
}

func TestRun_TotalFailureFlagged(t *testing.T) {
	executor := &fakeExecutor{
		failVariants: map[string]builder.FailureClass{
			"cpu":                       builder.FailurePush,
			"gpu":                       builder.FailurePush,
			"gpu-deepspeed":             builder.FailurePush,
			"gpu-fp8-transformerengine": builder.FailurePush,
		},
	}
	orch := newTestOrchestrator(&fakeResolver{version: "1.2.3"}, executor)

	report, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.TotalFailure())
}

func TestRun_EachSpecAttemptedExactlyOnce(t *testing.T) {
	executor := &fakeExecutor{}
	orch := newTestOrchestrator(&fakeResolver{version: "1.2.3"}, executor)

	_, err := orch.Run(context.Background())
	require.NoError(t, err)

	seen := map[string]int{}
	executor.mu.Lock()
	for _, name := range executor.calls {
		seen[name]++
	}
	executor.mu.Unlock()

	for _, spec := range variant.List() {
		assert.Equal(t, 1, seen[spec.Name], "variant %s attempt count", spec.Name)
	}
}

func TestRun_SerializedAcrossConcurrentTriggers(t *testing.T) {
	block := make(chan struct{})
	executor := &fakeExecutor{block: block}
	resolver := &fakeResolver{version: "1.2.3"}
	orch := newTestOrchestrator(resolver, executor)

	firstDone := make(chan struct{})
	go func() {
		orch.Run(context.Background())
		close(firstDone)
	}()

	// Wait for the first run to be mid-build
	require.Eventually(t, func() bool { return executor.callCount() > 0 },
		time.Second, 5*time.Millisecond)

	secondDone := make(chan struct{})
	go func() {
		orch.Run(context.Background())
		close(secondDone)
	}()

	// The queued run must not resolve while the first is building
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, resolver.callCount(),
		"second run resolved version before first run finished")

	close(block)
	<-firstDone
	<-secondDone

	assert.Equal(t, 2, resolver.callCount())
}

// interruptingExecutor cancels the parent context on its first call
// and records whether the context handed to each build was still live
type interruptingExecutor struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	deadCtxs  int
	callCount int
}

func (f *interruptingExecutor) Execute(ctx context.Context, spec variant.Spec, version string) builder.Result {
	f.mu.Lock()
	f.callCount++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if ctx.Err() != nil {
		f.deadCtxs++
	}
	f.mu.Unlock()

	return builder.Result{Spec: spec, Version: version, Tag: spec.Tag(version), OK: true}
}

func TestRun_InterruptLetsActiveBuildsFinish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	executor := &interruptingExecutor{cancel: cancel}
	orch := newTestOrchestrator(&fakeResolver{version: "1.2.3"}, executor)

	report, err := orch.Run(ctx)
	require.NoError(t, err, "cancel after the run started must not fail it")

	require.Len(t, report.Results, 4)
	assert.Equal(t, 4, report.Successes())

	executor.mu.Lock()
	defer executor.mu.Unlock()
	assert.Equal(t, 4, executor.callCount, "every variant must still be attempted")
	assert.Equal(t, 0, executor.deadCtxs, "builds must not see a cancelled context")
}

func TestRun_QueuedRunDroppedOnCancel(t *testing.T) {
	block := make(chan struct{})
	executor := &fakeExecutor{block: block}
	resolver := &fakeResolver{version: "1.2.3"}
	orch := newTestOrchestrator(resolver, executor)

	firstDone := make(chan struct{})
	go func() {
		orch.Run(context.Background())
		close(firstDone)
	}()
	require.Eventually(t, func() bool { return executor.callCount() > 0 },
		time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := orch.Run(ctx)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("queued run did not return after cancel")
	}

	close(block)
	<-firstDone
	assert.Equal(t, 1, resolver.callCount(), "dropped run must not resolve")
}

// recordingStore captures RecordRun calls
type recordingStore struct {
	mu      sync.Mutex
	runs    []ledger.Run
	results [][]ledger.Result
}

func (r *recordingStore) RecordRun(run ledger.Run, results []ledger.Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, run)
	r.results = append(r.results, results)
	return nil
}

func TestRun_RecordsHistory(t *testing.T) {
	store := &recordingStore{}
	orch := New(Config{Parallelism: 4}, variant.List(), Dependencies{
		Resolver: &fakeResolver{version: "1.2.3"},
		Executor: &fakeExecutor{failVariants: map[string]builder.FailureClass{"gpu": builder.FailureTagConflict}},
		Recorder: store,
	})

	report, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, report.RecordErr)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.runs, 1)
	assert.Equal(t, report.ID, store.runs[0].ID)
	assert.Equal(t, ledger.RunStatusCompleted, store.runs[0].Status)
	require.Len(t, store.results[0], 4)

	var gpu ledger.Result
	for _, res := range store.results[0] {
		if res.Variant == "gpu" {
			gpu = res
		}
	}
	assert.Equal(t, ledger.ResultStatusFailure, gpu.Status)
	assert.Equal(t, "tag-conflict", gpu.FailureClass)
}

func TestPlan_NoBuilds(t *testing.T) {
	executor := &fakeExecutor{}
	orch := newTestOrchestrator(&fakeResolver{version: "2.0.0"}, executor)

	version, specs, err := orch.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", version)
	assert.Len(t, specs, 4)
	assert.Equal(t, 0, executor.callCount())
}
