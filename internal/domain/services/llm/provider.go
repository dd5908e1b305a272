package llm

import "context"

// Message is one turn of the transcript sent to an external model, using
// the stored role vocabulary ("user" / "assistant"). Provider adapters own
// the translation to each API's own role names.
type Message struct {
	Role string
	Text string
}

// GenerateRequest carries the full ordered transcript for one model call.
// Messages ends with the new user input; order is significant and must not
// be re-sorted or deduplicated.
type GenerateRequest struct {
	Model           string
	Messages        []Message
	MaxOutputTokens int
	Temperature     *float64
}

// GenerateResponse is the provider-agnostic result of a model call.
type GenerateResponse struct {
	Text  string
	Model string
}

// LLMProvider is the interface every model provider implements.
type LLMProvider interface {
	// Name returns the provider name (e.g. "gemini", "anthropic", "lorem")
	Name() string

	// GenerateResponse performs one opaque, potentially slow remote call.
	// No internal retry or timeout is imposed; cancellation comes from ctx.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// ProviderResolver resolves a provider by name.
type ProviderResolver interface {
	GetProvider(name string) (LLMProvider, error)
}
