// Package static provides a canned reviewer that never calls a live
// API. It backs --dry-run and is useful for exercising the pipeline
// end to end in tests.
package static

import (
	"context"

	"github.com/codereviewbot/reviewbot/internal/domain"
)

const providerName = "static"

// Provider implements the review use case's Reviewer port with fixed
// findings.
type Provider struct {
	findings []domain.Finding
}

// NewProvider constructs a static Provider returning the given
// findings for every prompt. With no findings it reviews everything
// as clean.
func NewProvider(findings ...domain.Finding) *Provider {
	return &Provider{findings: findings}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// Review ignores the prompt and returns the canned findings.
func (p *Provider) Review(ctx context.Context, prompt string) ([]domain.Finding, error) {
	out := make([]domain.Finding, len(p.findings))
	copy(out, p.findings)
	return out, nil
}
