package gemini

import (
	"context"

	llmhttp "github.com/codereviewbot/reviewbot/internal/adapter/llm/http"
	"github.com/codereviewbot/reviewbot/internal/domain"
)

// Generation parameters for code review calls.
const (
	reviewTemperature = 0.8
	reviewTopP        = 0.95
	reviewMaxTokens   = 8192
)

// Provider adapts the Gemini HTTP client to the review use case. It
// sends one prompt per hunk and parses the model's JSON verdict.
type Provider struct {
	client *HTTPClient
	logger llmhttp.Logger
}

// NewProvider creates a review provider backed by the given client.
func NewProvider(client *HTTPClient) *Provider {
	return &Provider{client: client}
}

// SetLogger sets the logger for this provider and its client.
func (p *Provider) SetLogger(logger llmhttp.Logger) {
	p.logger = logger
	p.client.SetLogger(logger)
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Review sends the prompt to Gemini and returns the findings it
// reported. A response without findings is not an error: the model
// answering "nothing to flag" comes back as an empty slice.
func (p *Provider) Review(ctx context.Context, prompt string) ([]domain.Finding, error) {
	resp, err := p.client.Call(ctx, prompt, CallOptions{
		Temperature: reviewTemperature,
		TopP:        reviewTopP,
		MaxTokens:   reviewMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	findings, dropped := llmhttp.ParseFindings(resp.Text)
	if dropped > 0 && p.logger != nil {
		p.logger.LogWarning(ctx, "dropped malformed review entries", map[string]interface{}{
			"provider": providerName,
			"dropped":  dropped,
		})
	}

	return findings, nil
}
