package ledger

import (
	"database/sql"
	"fmt"
	"time"
)

// Run statuses persisted in the ledger
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Result statuses persisted in the ledger
const (
	ResultStatusSuccess = "success"
	ResultStatusFailure = "failure"
)

// Run is one recorded orchestration run
type Run struct {
	ID          string
	Version     string
	Status      string
	StartedAt   time.Time
	CompletedAt time.Time
	Error       string
}

// Result is one recorded variant outcome
type Result struct {
	RunID        string
	Variant      string
	Tag          string
	Ref          string
	Status       string
	FailureClass string
	Error        string
	Duration     time.Duration
}

// RecordRun inserts a run and all of its variant results in one
// transaction so history never shows a partial run.
func (s *Store) RecordRun(run Run, results []Result) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, version, status, started_at, completed_at, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Version, run.Status, run.StartedAt, run.CompletedAt, run.Error)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, r := range results {
		_, err = tx.Exec(`
			INSERT INTO results (run_id, variant, tag, ref, status, failure_class, error, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, r.Variant, r.Tag, r.Ref, r.Status, r.FailureClass, r.Error, r.Duration.Milliseconds())
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", r.Variant, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	rows, err := s.conn.Query(`
		SELECT id, version, status, started_at, completed_at, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Version, &run.Status,
			&run.StartedAt, &run.CompletedAt, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by its ID.
// Returns nil, nil if the run does not exist.
func (s *Store) GetRun(id string) (*Run, error) {
	run := &Run{}
	err := s.conn.QueryRow(`
		SELECT id, version, status, started_at, completed_at, error
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Version, &run.Status,
		&run.StartedAt, &run.CompletedAt, &run.Error)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// Results returns a run's variant outcomes in insertion order.
func (s *Store) Results(runID string) ([]Result, error) {
	rows, err := s.conn.Query(`
		SELECT run_id, variant, tag, ref, status, failure_class, error, duration_ms
		FROM results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var durationMS int64
		if err := rows.Scan(&r.RunID, &r.Variant, &r.Tag, &r.Ref,
			&r.Status, &r.FailureClass, &r.Error, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}
