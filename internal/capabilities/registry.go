package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// fallbackDefaults applies when neither the model nor the provider carries
// an entry.
var fallbackDefaults = GenerationDefaults{MaxOutputTokens: 2048}

// Registry manages generation defaults across all providers
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry creates a new registry and loads the embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	for _, provider := range []string{"gemini", "anthropic", "lorem"} {
		if err := r.loadProviderFile(provider); err != nil {
			return nil, fmt.Errorf("failed to load %s capabilities: %w", provider, err)
		}
	}

	return r, nil
}

// loadProviderFile loads a provider's capability YAML file
func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	r.providers[provider] = &providerCaps
	r.mu.Unlock()

	return nil
}

// GetDefaults returns the generation defaults for a model, falling back to
// the provider-wide defaults and then to the package fallback.
func (r *Registry) GetDefaults(provider, model string) GenerationDefaults {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return fallbackDefaults
	}

	if modelDefaults, ok := caps.Models[model]; ok {
		// Model entries may leave fields unset to inherit provider defaults
		if modelDefaults.MaxOutputTokens == 0 {
			modelDefaults.MaxOutputTokens = caps.Defaults.MaxOutputTokens
		}
		if modelDefaults.Temperature == nil {
			modelDefaults.Temperature = caps.Defaults.Temperature
		}
		if modelDefaults.MaxOutputTokens == 0 {
			modelDefaults.MaxOutputTokens = fallbackDefaults.MaxOutputTokens
		}
		return modelDefaults
	}

	if caps.Defaults.MaxOutputTokens == 0 {
		return fallbackDefaults
	}
	return caps.Defaults
}

// Providers returns the names of all configured providers
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
