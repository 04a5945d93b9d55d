package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string) (Run, []Result) {
	started := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	run := Run{
		ID:          id,
		Version:     "1.2.3",
		Status:      RunStatusCompleted,
		StartedAt:   started,
		CompletedAt: started.Add(time.Minute),
	}
	results := []Result{
		{RunID: id, Variant: "cpu", Tag: "cpu-release-1.2.3",
			Ref: "docker.io/acme/trainer:cpu-release-1.2.3", Status: ResultStatusSuccess, Duration: 40 * time.Second},
		{RunID: id, Variant: "gpu", Tag: "gpu-release-1.2.3",
			Ref: "docker.io/acme/trainer:gpu-release-1.2.3", Status: ResultStatusFailure,
			FailureClass: "push-failed", Error: "connection reset", Duration: 55 * time.Second},
	}
	return run, results
}

func TestRecordRun_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	run, results := sampleRun("run-1")
	require.NoError(t, s.RecordRun(run, results))

	got, err := s.GetRun("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1.2.3", got.Version)
	assert.Equal(t, RunStatusCompleted, got.Status)

	gotResults, err := s.Results("run-1")
	require.NoError(t, err)
	require.Len(t, gotResults, 2)
	assert.Equal(t, "cpu", gotResults[0].Variant)
	assert.Equal(t, ResultStatusSuccess, gotResults[0].Status)
	assert.Equal(t, "push-failed", gotResults[1].FailureClass)
	assert.Equal(t, 55*time.Second, gotResults[1].Duration)
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetRun("missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	old, oldResults := sampleRun("run-old")
	old.StartedAt = old.StartedAt.Add(-time.Hour)
	require.NoError(t, s.RecordRun(old, oldResults))

	recent, recentResults := sampleRun("run-new")
	require.NoError(t, s.RecordRun(recent, recentResults))

	runs, err := s.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].ID)
	assert.Equal(t, "run-old", runs[1].ID)
}

func TestListRuns_Limit(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		run, results := sampleRun(id)
		require.NoError(t, s.RecordRun(run, results))
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecordRun_DuplicateVariantRejected(t *testing.T) {
	s := openTestStore(t)

	run, results := sampleRun("run-dup")
	results[1].Variant = results[0].Variant

	err := s.RecordRun(run, results)
	require.Error(t, err)

	// Transaction rolled back: run must not be visible
	got, getErr := s.GetRun("run-dup")
	require.NoError(t, getErr)
	assert.Nil(t, got)
}
