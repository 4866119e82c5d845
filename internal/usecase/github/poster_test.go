package github_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/codereviewbot/reviewbot/internal/adapter/github"
	"github.com/codereviewbot/reviewbot/internal/domain"
	usecase "github.com/codereviewbot/reviewbot/internal/usecase/github"
)

// fakeClient records CreateReview calls.
type fakeClient struct {
	calls  []adapter.CreateReviewRequest
	err    error
	nextID int64
}

func (f *fakeClient) CreateReview(ctx context.Context, owner, repo string, pullNumber int, input adapter.CreateReviewRequest) (*adapter.CreateReviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, input)
	f.nextID++
	return &adapter.CreateReviewResponse{ID: f.nextID, State: "COMMENTED"}, nil
}

func makeComments(n int) []domain.Comment {
	comments := make([]domain.Comment, n)
	for i := range comments {
		comments[i] = domain.Comment{
			Path:         fmt.Sprintf("file%d.go", i),
			Body:         fmt.Sprintf("comment %d", i),
			DiffPosition: i + 1,
			AbsoluteLine: i + 10,
		}
	}
	return comments
}

func testPR() domain.PRDetails {
	return domain.PRDetails{Owner: "octocat", Repo: "hello", PullNumber: 7}
}

func TestPostComments_BatchSizes(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 10)

	result, err := poster.PostComments(context.Background(), testPR(), makeComments(23))

	require.NoError(t, err)
	require.Len(t, client.calls, 3)
	assert.Len(t, client.calls[0].Comments, 10)
	assert.Len(t, client.calls[1].Comments, 10)
	assert.Len(t, client.calls[2].Comments, 3)
	assert.Equal(t, 23, result.CommentsPosted)
	require.Len(t, result.Batches, 3)
	assert.Equal(t, 3, result.Batches[2].Size)
}

func TestPostComments_SingleBatch(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 10)

	result, err := poster.PostComments(context.Background(), testPR(), makeComments(4))

	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Contains(t, client.calls[0].Body, "batch 1/1")
	assert.Equal(t, 4, result.CommentsPosted)
}

func TestPostComments_Empty(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 10)

	result, err := poster.PostComments(context.Background(), testPR(), nil)

	require.NoError(t, err)
	assert.Empty(t, client.calls)
	assert.Equal(t, 0, result.CommentsPosted)
}

func TestPostComments_BodyAndComments(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 10)

	comments := []domain.Comment{
		{Path: "a.txt", Body: "Check this", DiffPosition: 2, AbsoluteLine: 11},
	}

	_, err := poster.PostComments(context.Background(), testPR(), comments)

	require.NoError(t, err)
	call := client.calls[0]
	assert.Equal(t, adapter.EventComment, call.Event)
	assert.Contains(t, call.Body, "Automated Code Review")
	assert.Contains(t, call.Body, "`a.txt` line 11")
	require.Len(t, call.Comments, 1)
	assert.Equal(t, "a.txt", call.Comments[0].Path)
	assert.Equal(t, 2, call.Comments[0].Position)
	assert.Equal(t, "Check this", call.Comments[0].Body)
}

func TestPostComments_FailureReturnsPartial(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 2)

	// Fail on the second batch.
	failing := &failAfter{inner: client, failOn: 2}
	poster = usecase.NewPoster(failing, 2)

	result, err := poster.PostComments(context.Background(), testPR(), makeComments(5))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2/3")
	assert.Equal(t, 2, result.CommentsPosted)
	assert.Len(t, result.Batches, 1)
}

func TestNewPoster_DefaultBatchSize(t *testing.T) {
	client := &fakeClient{}
	poster := usecase.NewPoster(client, 0)

	_, err := poster.PostComments(context.Background(), testPR(), makeComments(15))

	require.NoError(t, err)
	assert.Len(t, client.calls, 2)
}

// failAfter fails the Nth call and delegates otherwise.
type failAfter struct {
	inner  *fakeClient
	failOn int
	n      int
}

func (f *failAfter) CreateReview(ctx context.Context, owner, repo string, pullNumber int, input adapter.CreateReviewRequest) (*adapter.CreateReviewResponse, error) {
	f.n++
	if f.n == f.failOn {
		return nil, errors.New("rate limited")
	}
	return f.inner.CreateReview(ctx, owner, repo, pullNumber, input)
}
