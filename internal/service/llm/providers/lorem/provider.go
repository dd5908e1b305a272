package lorem

import (
	"context"
	"strings"

	loremgen "github.com/bozaro/golorem"

	domainllm "chathistory/internal/domain/services/llm"
)

// Provider is a mock LLM provider that generates lorem ipsum text.
// Used for development and tests without requiring real API keys.
type Provider struct {
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// GenerateResponse generates a lorem ipsum response sized to the requested
// token budget. 1 token is estimated as 4 characters.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	targetChars := maxTokens * 4

	var b strings.Builder
	for b.Len() < targetChars {
		b.WriteString(p.generator.Sentence(5, 12))
		b.WriteString(" ")
	}

	return &domainllm.GenerateResponse{
		Text:  strings.TrimSpace(b.String()),
		Model: req.Model,
	}, nil
}
