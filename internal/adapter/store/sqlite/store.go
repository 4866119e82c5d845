// Package sqlite persists run history in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codereviewbot/reviewbot/internal/store"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements the store.Store interface using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a new SQLite store at the given path.
// Use ":memory:" for in-memory database (useful for testing).
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db}

	if err := s.createSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// createSchema creates all tables and indexes if they don't exist.
func (s *Store) createSchema() error {
	schema := `
	-- Metadata about each review run
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		repository TEXT NOT NULL,
		pull_number INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		comment_count INTEGER DEFAULT 0,
		batch_count INTEGER DEFAULT 0
	);

	-- Review batches submitted for each run
	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		batch_index INTEGER NOT NULL,
		review_id INTEGER NOT NULL,
		size INTEGER NOT NULL,
		submitted_at INTEGER NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_batches_run ON batches(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_repository ON runs(repository, pull_number);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateRun stores a new review run.
func (s *Store) CreateRun(ctx context.Context, run store.Run) error {
	query := `
		INSERT INTO runs (run_id, timestamp, repository, pull_number, provider, model, comment_count, batch_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Timestamp.Unix(),
		run.Repository,
		run.PullNumber,
		run.Provider,
		run.Model,
		run.CommentCount,
		run.BatchCount,
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// FinishRun records the final counts for a run.
func (s *Store) FinishRun(ctx context.Context, runID string, commentCount, batchCount int) error {
	query := `UPDATE runs SET comment_count = ?, batch_count = ? WHERE run_id = ?`

	result, err := s.db.ExecContext(ctx, query, commentCount, batchCount, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (store.Run, error) {
	query := `
		SELECT run_id, timestamp, repository, pull_number, provider, model, comment_count, batch_count
		FROM runs
		WHERE run_id = ?
	`

	var run store.Run
	var timestamp int64

	err := s.db.QueryRowContext(ctx, query, runID).Scan(
		&run.RunID,
		&timestamp,
		&run.Repository,
		&run.PullNumber,
		&run.Provider,
		&run.Model,
		&run.CommentCount,
		&run.BatchCount,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return store.Run{}, fmt.Errorf("run not found: %s", runID)
		}
		return store.Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	run.Timestamp = time.Unix(timestamp, 0)
	return run, nil
}

// ListRuns retrieves the most recent runs, limited by the given count.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `
		SELECT run_id, timestamp, repository, pull_number, provider, model, comment_count, batch_count
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var run store.Run
		var timestamp int64

		if err := rows.Scan(
			&run.RunID,
			&timestamp,
			&run.Repository,
			&run.PullNumber,
			&run.Provider,
			&run.Model,
			&run.CommentCount,
			&run.BatchCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Timestamp = time.Unix(timestamp, 0)
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// SaveBatch stores one submitted batch record.
func (s *Store) SaveBatch(ctx context.Context, batch store.BatchRecord) error {
	query := `
		INSERT INTO batches (run_id, batch_index, review_id, size, submitted_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		batch.RunID,
		batch.BatchIndex,
		batch.ReviewID,
		batch.Size,
		batch.SubmittedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}

	return nil
}

// GetBatchesByRun retrieves all batches for a run in submission order.
func (s *Store) GetBatchesByRun(ctx context.Context, runID string) ([]store.BatchRecord, error) {
	query := `
		SELECT run_id, batch_index, review_id, size, submitted_at
		FROM batches
		WHERE run_id = ?
		ORDER BY batch_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batches: %w", err)
	}
	defer rows.Close()

	var batches []store.BatchRecord
	for rows.Next() {
		var batch store.BatchRecord
		var submittedAt int64

		if err := rows.Scan(
			&batch.RunID,
			&batch.BatchIndex,
			&batch.ReviewID,
			&batch.Size,
			&submittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}

		batch.SubmittedAt = time.Unix(submittedAt, 0)
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}

	return batches, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
