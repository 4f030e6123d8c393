package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bkyoung/diffcover/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for an in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

func (s *Store) createSchema() error {
	schema := `
	-- One row per diff-coverage invocation
	CREATE TABLE IF NOT EXISTS runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp INTEGER NOT NULL,
		repository TEXT NOT NULL,
		base_ref TEXT NOT NULL,
		target_ref TEXT NOT NULL,
		base_sha TEXT,
		head_sha TEXT,
		total_lines INTEGER NOT NULL,
		missing_lines INTEGER NOT NULL,
		percent INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun stores one completed run.
func (s *Store) SaveRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (timestamp, repository, base_ref, target_ref, base_sha, head_sha, total_lines, missing_lines, percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.Timestamp.Unix(),
		run.Repository,
		run.BaseRef,
		run.TargetRef,
		run.BaseSHA,
		run.HeadSHA,
		run.TotalLines,
		run.MissingLines,
		run.Percent,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, timestamp, repository, base_ref, target_ref, base_sha, head_sha, total_lines, missing_lines, percent
		FROM runs
		ORDER BY timestamp DESC, run_id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var ts int64
		if err := rows.Scan(
			&run.ID,
			&ts,
			&run.Repository,
			&run.BaseRef,
			&run.TargetRef,
			&run.BaseSHA,
			&run.HeadSHA,
			&run.TotalLines,
			&run.MissingLines,
			&run.Percent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Timestamp = time.Unix(ts, 0).UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
