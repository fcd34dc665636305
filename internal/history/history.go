// Package history records pipeline runs in a SQLite database under the state
// directory, queryable through the history command.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed (or failed) phase execution.
type Record struct {
	ID          int64
	RunID       string
	Phase       string
	Status      string // "success" or "failed"
	Error       string
	Fingerprint string
	Duration    time.Duration
	StartedAt   time.Time
}

// Store persists phase run records.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating on demand) the history database. Use ":memory:" for an
// in-memory database in tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS phase_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		phase TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		fingerprint TEXT,
		duration_ms INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_id ON phase_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_started_at ON phase_runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append adds one phase run record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO phase_runs (run_id, phase, status, error, fingerprint, duration_ms, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.RunID, rec.Phase, rec.Status, rec.Error, rec.Fingerprint,
		rec.Duration.Milliseconds(), rec.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert phase run: %w", err)
	}
	return nil
}

// Recent returns the most recent records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_id, phase, status, error, fingerprint, duration_ms, started_at FROM phase_runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query phase runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			durationMS int64
			startedAt  int64
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Phase, &rec.Status, &rec.Error,
			&rec.Fingerprint, &durationMS, &startedAt); err != nil {
			return nil, fmt.Errorf("scan phase run: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.StartedAt = time.Unix(startedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
