// Package provider implements generative-language backends for pecha.
//
// The app supports multiple backends (local Ollama, OpenAI, Anthropic)
// through the common model.Provider interface. The UI and business logic stay
// provider-agnostic; this package owns every provider-specific type and the
// conversions to and from pecha's own turn types.
//
// # Architecture
//
//   - model.Provider defines the contract (in the model package, to avoid
//     import cycles: implementations here import model, never the reverse)
//   - provider.OllamaProvider talks to a local Ollama server
//   - provider.OpenAIProvider talks to the OpenAI API (also speech synthesis)
//   - provider.AnthropicProvider talks to the Anthropic API (also citations)
//   - provider.NewProvider() factory creates providers from config
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.1",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	err = p.Chat(ctx, turns, callback)
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic (unused for Ollama)
}
