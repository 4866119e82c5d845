// Package review orchestrates the pipeline from parsed diff to
// review comments: prompt per hunk, reviewer verdicts, bounds
// validation, and line resolution.
package review

import (
	"context"

	"github.com/codereviewbot/reviewbot/internal/domain"
)

// Reviewer defines the outbound port for LLM reviews. One prompt
// covers one hunk; the reviewer answers with diff-relative findings.
type Reviewer interface {
	Review(ctx context.Context, prompt string) ([]domain.Finding, error)
}

// ContentFetcher retrieves a file's post-change content so findings
// can be anchored to absolute line numbers.
type ContentFetcher interface {
	GetFileContent(ctx context.Context, path string) (string, error)
}

// Logger provides structured logging for the review use case.
// This interface allows the orchestrator to log warnings and info messages
// with structured fields for better observability in production.
type Logger interface {
	// LogWarning logs a warning message with structured fields.
	// Fields typically include error details, IDs, and context.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs an informational message with structured fields.
	// Fields typically include operation details and metadata.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}

// TokenEstimator approximates the token cost of a prompt, for log
// visibility only.
type TokenEstimator func(text string) int
