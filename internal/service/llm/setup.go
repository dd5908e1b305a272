package llm

import (
	"fmt"
	"log/slog"

	"chathistory/internal/config"
)

// SetupProviders wires the provider factory and registry and fails fast on
// an unusable default provider configuration.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	factory := NewProviderFactory(cfg)
	registry := NewProviderRegistry(factory)

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	// Eagerly create the default provider so missing credentials surface
	// at startup instead of on the first turn
	if _, err := registry.GetProvider(cfg.DefaultProvider); err != nil {
		return nil, fmt.Errorf("default provider %q: %w", cfg.DefaultProvider, err)
	}

	logger.Info("LLM providers initialized",
		"default_provider", cfg.DefaultProvider,
		"default_model", cfg.DefaultModel,
	)

	return registry, nil
}
