package llm

import (
	"fmt"

	"chathistory/internal/config"
	domainllm "chathistory/internal/domain/services/llm"
	"chathistory/internal/service/llm/providers/anthropic"
	"chathistory/internal/service/llm/providers/gemini"
	"chathistory/internal/service/llm/providers/lorem"
)

// ProviderFactory creates LLM provider instances
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "gemini" - Google Gemini models (default)
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case "gemini":
		return f.createGeminiProvider()

	case "anthropic":
		return f.createAnthropicProvider()

	case "lorem":
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

// createGeminiProvider creates a Gemini provider instance
func (f *ProviderFactory) createGeminiProvider() (domainllm.LLMProvider, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	provider, err := gemini.NewProvider(f.config.GeminiAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
	}

	return provider, nil
}

// createAnthropicProvider creates an Anthropic provider instance
func (f *ProviderFactory) createAnthropicProvider() (domainllm.LLMProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return provider, nil
}
