package provider

import (
	"testing"

	"pecha/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name: "ollama provider with defaults",
			config: Config{
				Type: ProviderTypeOllama,
			},
		},
		{
			name: "ollama provider with custom config",
			config: Config{
				Type:    ProviderTypeOllama,
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
		},
		{
			name: "openai provider",
			config: Config{
				Type:    ProviderTypeOpenAI,
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				APIKey:  "test-key",
			},
		},
		{
			name: "anthropic provider",
			config: Config{
				Type:    ProviderTypeAnthropic,
				BaseURL: "https://api.anthropic.com",
				Model:   "claude-sonnet-4-5-20250929",
				APIKey:  "test-key",
			},
		},
		{
			name: "unknown provider type",
			config: Config{
				Type:  ProviderType("unknown"),
				Model: "test",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if provider != nil {
					t.Error("expected nil provider on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider == nil {
				t.Fatal("expected non-nil provider")
			}
			var _ model.Provider = provider
		})
	}
}

func TestFactoryDispatchesConcreteTypes(t *testing.T) {
	ollama, err := NewProvider(Config{Type: ProviderTypeOllama, BaseURL: "http://localhost:11434", Model: "llama3.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ollama.(*OllamaProvider); !ok {
		t.Errorf("expected *OllamaProvider, got %T", ollama)
	}

	oa, err := NewProvider(Config{Type: ProviderTypeOpenAI, APIKey: "k", Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := oa.(*OpenAIProvider); !ok {
		t.Errorf("expected *OpenAIProvider, got %T", oa)
	}

	ant, err := NewProvider(Config{Type: ProviderTypeAnthropic, APIKey: "k", Model: "claude-sonnet-4-5-20250929"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ant.(*AnthropicProvider); !ok {
		t.Errorf("expected *AnthropicProvider, got %T", ant)
	}
}

func TestMapProviderIDToType(t *testing.T) {
	tests := []struct {
		id   string
		want ProviderType
	}{
		{"ollama", ProviderTypeOllama},
		{"openai", ProviderTypeOpenAI},
		{"anthropic", ProviderTypeAnthropic},
		{"custom", ProviderType("custom")},
	}
	for _, tt := range tests {
		if got := MapProviderIDToType(tt.id); got != tt.want {
			t.Errorf("MapProviderIDToType(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
