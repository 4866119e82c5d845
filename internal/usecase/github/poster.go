// Package github provides the use case for submitting review
// comments back to a pull request in batches.
package github

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codereviewbot/reviewbot/internal/adapter/github"
	"github.com/codereviewbot/reviewbot/internal/domain"
)

// DefaultBatchSize caps how many inline comments go into one review
// submission.
const DefaultBatchSize = 10

// ReviewClient defines the interface for creating GitHub reviews.
// This interface allows for mocking in tests.
type ReviewClient interface {
	CreateReview(ctx context.Context, owner, repo string, pullNumber int, input github.CreateReviewRequest) (*github.CreateReviewResponse, error)
}

// Poster submits accumulated review comments as batched PR reviews.
type Poster struct {
	client    ReviewClient
	batchSize int
	caser     cases.Caser
}

// NewPoster creates a Poster. A non-positive batchSize falls back to
// the default.
func NewPoster(client ReviewClient, batchSize int) *Poster {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Poster{
		client:    client,
		batchSize: batchSize,
		caser:     cases.Title(language.English),
	}
}

// BatchResult records one submitted batch.
type BatchResult struct {
	ReviewID int64
	Size     int
}

// PostResult summarizes a full submission.
type PostResult struct {
	Batches        []BatchResult
	CommentsPosted int
}

// PostComments submits the comments in batches, one review per batch.
// 23 comments at batch size 10 produce three reviews of 10, 10 and 3.
// A batch failure stops submission and returns the batches posted so
// far alongside the error.
func (p *Poster) PostComments(ctx context.Context, pr domain.PRDetails, comments []domain.Comment) (*PostResult, error) {
	result := &PostResult{}
	if len(comments) == 0 {
		return result, nil
	}

	total := (len(comments) + p.batchSize - 1) / p.batchSize

	for i := 0; i < len(comments); i += p.batchSize {
		end := i + p.batchSize
		if end > len(comments) {
			end = len(comments)
		}
		batch := comments[i:end]
		index := i/p.batchSize + 1

		input := github.CreateReviewRequest{
			Event:    github.EventComment,
			Body:     p.batchBody(index, total, batch),
			Comments: buildReviewComments(batch),
		}

		resp, err := p.client.CreateReview(ctx, pr.Owner, pr.Repo, pr.PullNumber, input)
		if err != nil {
			return result, fmt.Errorf("submit batch %d/%d: %w", index, total, err)
		}

		result.Batches = append(result.Batches, BatchResult{ReviewID: resp.ID, Size: len(batch)})
		result.CommentsPosted += len(batch)
	}

	return result, nil
}

// batchBody renders the review summary listing each comment's anchor.
func (p *Poster) batchBody(index, total int, batch []domain.Comment) string {
	var builder strings.Builder

	builder.WriteString(p.caser.String("automated code review"))
	builder.WriteString(fmt.Sprintf(" (batch %d/%d)\n\n", index, total))
	for _, c := range batch {
		builder.WriteString(fmt.Sprintf("- `%s` line %d\n", c.Path, c.AbsoluteLine))
	}

	return builder.String()
}

func buildReviewComments(batch []domain.Comment) []github.ReviewComment {
	out := make([]github.ReviewComment, 0, len(batch))
	for _, c := range batch {
		out = append(out, github.ReviewComment{
			Path:     c.Path,
			Position: c.DiffPosition,
			Body:     c.Body,
		})
	}
	return out
}
