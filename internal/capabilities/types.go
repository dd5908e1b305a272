package capabilities

// GenerationDefaults are the per-model generation parameters applied when a
// request does not override them.
type GenerationDefaults struct {
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature"`
}

// ProviderCapabilities is one provider's YAML config file.
type ProviderCapabilities struct {
	Provider string                        `yaml:"provider"`
	Defaults GenerationDefaults            `yaml:"defaults"`
	Models   map[string]GenerationDefaults `yaml:"models"`
}
