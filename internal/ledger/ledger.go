package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection holding release run history
type Store struct {
	conn *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It enables WAL mode, foreign keys, and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{conn: conn}

	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// migrate creates or updates the database schema
func (s *Store) migrate() error {
	schema := `
-- Runs table: one row per orchestration run
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    version         TEXT,
    status          TEXT NOT NULL,
    started_at      DATETIME,
    completed_at    DATETIME,
    error           TEXT
);

-- Results table: per-variant outcomes within a run
CREATE TABLE IF NOT EXISTS results (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    variant         TEXT NOT NULL,
    tag             TEXT,
    ref             TEXT,
    status          TEXT NOT NULL,
    failure_class   TEXT,
    error           TEXT,
    duration_ms     INTEGER,
    UNIQUE(run_id, variant)
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id);
`

	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
