package config

// Default continuation sentinels. The system prompt instructs the generator to
// end with the continue marker when a reply is truncated and with the done
// marker when it is complete; both are stripped before display.
const (
	DefaultContinueMarker = "[[CONTINUE]]"
	DefaultDoneMarker     = "[[DONE]]"
	DefaultContinuePrompt = "Please continue exactly where you left off. Do not repeat earlier text."
	DefaultMaxReplyChars  = 60000
)

// DefaultSystemPrompt primes the assistant for bilingual document work.
const DefaultSystemPrompt = "You are a document assistant for Tibetan, Chinese and English texts. " +
	"Answer in the language of the question unless asked otherwise. " +
	"If a long answer is cut short, end your reply with " + DefaultContinueMarker + ". " +
	"When your answer is complete, end it with " + DefaultDoneMarker + "."

// DefaultConfig returns the built-in configuration used when no settings file
// exists yet. Ollama is the only provider enabled out of the box because it
// needs no API key.
func DefaultConfig() *Config {
	return &Config{
		DataDirectory:       "~/.local/share/pecha",
		DefaultProvider:     "ollama",
		DefaultSystemPrompt: DefaultSystemPrompt,
		Assistant: AssistantConfig{
			ContinueMarker: DefaultContinueMarker,
			DoneMarker:     DefaultDoneMarker,
			ContinuePrompt: DefaultContinuePrompt,
			MaxReplyChars:  DefaultMaxReplyChars,
		},
		Providers: DefaultProviders(),
	}
}

// DefaultProviders returns the built-in provider entries.
func DefaultProviders() []ProviderEntry {
	return []ProviderEntry{
		{ID: "ollama", Enabled: true, BaseURL: "http://localhost:11434", DefaultModel: "llama3.1:latest"},
		{ID: "openai", Enabled: false, BaseURL: "https://api.openai.com/v1", DefaultModel: "gpt-4o-mini"},
		{ID: "anthropic", Enabled: false, BaseURL: "https://api.anthropic.com", DefaultModel: "claude-sonnet-4-5-20250929"},
	}
}
