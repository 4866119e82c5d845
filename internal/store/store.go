// Package store defines the persistence port for run history.
package store

import (
	"context"
	"time"
)

// Store records review runs and the batches submitted for them.
// Persistence is best-effort: callers log failures and continue.
type Store interface {
	CreateRun(ctx context.Context, run Run) error
	FinishRun(ctx context.Context, runID string, commentCount, batchCount int) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	SaveBatch(ctx context.Context, batch BatchRecord) error
	GetBatchesByRun(ctx context.Context, runID string) ([]BatchRecord, error)

	Close() error
}

// Run represents a single review execution against one pull request.
type Run struct {
	RunID        string
	Timestamp    time.Time
	Repository   string
	PullNumber   int
	Provider     string
	Model        string
	CommentCount int
	BatchCount   int
}

// BatchRecord stores one submitted review batch.
type BatchRecord struct {
	RunID       string
	BatchIndex  int
	ReviewID    int64
	Size        int
	SubmittedAt time.Time
}
