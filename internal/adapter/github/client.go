package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	llmhttp "github.com/codereviewbot/reviewbot/internal/adapter/llm/http"
	"github.com/codereviewbot/reviewbot/internal/domain"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	acceptJSON = "application/vnd.github+json"
	acceptDiff = "application/vnd.github.v3.diff"
)

// Client is an HTTP client for the GitHub REST API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	retryConf  llmhttp.RetryConfig
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a GitHub personal access token or GITHUB_TOKEN from Actions.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryConf:  llmhttp.DefaultRetryConfig(),
	}
}

// SetBaseURL sets a custom base URL (GitHub Enterprise, or testing).
func (c *Client) SetBaseURL(base string) {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRetryConfig replaces the retry policy.
func (c *Client) SetRetryConfig(conf llmhttp.RetryConfig) {
	c.retryConf = conf
}

// GetPRDetails fetches the title and description of a pull request.
func (c *Client) GetPRDetails(ctx context.Context, owner, repo string, pullNumber int) (domain.PRDetails, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, pullNumber)

	body, err := c.send(ctx, "GET", endpoint, nil, acceptJSON)
	if err != nil {
		return domain.PRDetails{}, err
	}

	var pull pullResponse
	if err := json.Unmarshal(body, &pull); err != nil {
		return domain.PRDetails{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return domain.PRDetails{
		Owner:       owner,
		Repo:        repo,
		PullNumber:  pullNumber,
		Title:       pull.Title,
		Description: pull.Body,
	}, nil
}

// GetPRHeadSHA fetches the head commit SHA of a pull request, used
// as the ref when fetching post-change file contents.
func (c *Client) GetPRHeadSHA(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, pullNumber)

	body, err := c.send(ctx, "GET", endpoint, nil, acceptJSON)
	if err != nil {
		return "", err
	}

	var pull pullResponse
	if err := json.Unmarshal(body, &pull); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return pull.Head.SHA, nil
}

// GetDiff fetches a pull request's unified diff. The diff media type
// makes GitHub return the raw patch text instead of JSON.
func (c *Client) GetDiff(ctx context.Context, owner, repo string, pullNumber int) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, owner, repo, pullNumber)

	body, err := c.send(ctx, "GET", endpoint, nil, acceptDiff)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// GetFileContent fetches a file's content at the given ref via the
// contents API and decodes it from base64. Callers treat a failure
// here as "file unavailable" and degrade, so the error carries the
// path for the log line.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, owner, repo, escapePath(path))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}

	body, err := c.send(ctx, "GET", endpoint, nil, acceptJSON)
	if err != nil {
		return "", fmt.Errorf("fetch contents of %s: %w", path, err)
	}

	var contents contentsResponse
	if err := json.Unmarshal(body, &contents); err != nil {
		return "", fmt.Errorf("fetch contents of %s: %w", path, err)
	}

	if contents.Encoding != "base64" {
		return contents.Content, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(contents.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("decode contents of %s: %w", path, err)
	}
	return string(decoded), nil
}

// CreateReview posts a pull request review with inline comments.
// Returns an error if the request fails after all retries.
func (c *Client) CreateReview(ctx context.Context, owner, repo string, pullNumber int, input CreateReviewRequest) (*CreateReviewResponse, error) {
	jsonData, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/reviews", c.baseURL, owner, repo, pullNumber)

	body, err := c.send(ctx, "POST", endpoint, jsonData, acceptJSON)
	if err != nil {
		return nil, err
	}

	var reviewResp CreateReviewResponse
	if err := json.Unmarshal(body, &reviewResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &reviewResp, nil
}

// send executes one request with the retry policy and returns the
// response body on success.
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, accept string) ([]byte, error) {
	var resp *http.Response
	err := llmhttp.RetryWithBackoff(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, reqErr := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if reqErr != nil {
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeUnknown,
				Message:   reqErr.Error(),
				Retryable: false,
				Provider:  providerName,
			}
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", accept)
		req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		var callErr error
		resp, callErr = c.httpClient.Do(req)
		if callErr != nil {
			// Could be timeout or network error
			return &llmhttp.Error{
				Type:      llmhttp.ErrTypeTimeout,
				Message:   llmhttp.RedactURLSecrets(callErr.Error()),
				Retryable: true,
				Provider:  providerName,
			}
		}

		if resp.StatusCode >= 400 {
			bodyBytes, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return &llmhttp.Error{
					Type:       llmhttp.ErrTypeUnknown,
					Message:    fmt.Sprintf("HTTP %d (failed to read response: %v)", resp.StatusCode, readErr),
					StatusCode: resp.StatusCode,
					Retryable:  resp.StatusCode >= 500,
					Provider:   providerName,
				}
			}
			return MapHTTPError(resp.StatusCode, bodyBytes)
		}

		return nil
	}, c.retryConf)

	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// escapePath escapes each path segment while keeping the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
