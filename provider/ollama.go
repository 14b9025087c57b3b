package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"pecha/model"
)

// OllamaProvider implements model.Provider against a local Ollama server
// using the official Ollama API client.
type OllamaProvider struct {
	client  *api.Client
	model   string
	baseURL string
}

// NewOllamaProvider creates a new Ollama provider instance.
//
// Parameters:
//   - baseURL: The Ollama server URL. Defaults to "http://localhost:11434".
//   - model: The model name to use. Defaults to "llama3.1:latest".
//
// Returns an error if the baseURL is not a valid URL.
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &OllamaProvider{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat implements model.Provider.Chat with streaming support.
// Ollama has no grounding data, so citations are always nil.
func (p *OllamaProvider) Chat(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error {
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: ConvertToOllamaMessages(turns),
		Stream:   func(b bool) *bool { return &b }(true),
	}

	respFunc := func(resp api.ChatResponse) error {
		if callback != nil && resp.Message.Content != "" {
			return callback(resp.Message.Content, nil)
		}
		return nil
	}

	if err := p.client.Chat(ctx, req, respFunc); err != nil {
		return fmt.Errorf("Ollama chat failed: %w", err)
	}
	return nil
}

// Generate implements model.Provider.Generate as a non-streaming call.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   func(b bool) *bool { return &b }(false),
	}

	var result strings.Builder
	respFunc := func(resp api.ChatResponse) error {
		result.WriteString(resp.Message.Content)
		return nil
	}

	if err := p.client.Chat(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("Ollama generate failed: %w", err)
	}
	return result.String(), nil
}

// ListModels implements model.Provider.ListModels.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	resp, err := p.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]model.ModelInfo, 0, len(resp.Models))
	for _, m := range resp.Models {
		models = append(models, model.ModelInfo{
			Name:         m.Name,
			InternalName: m.Name,
			Size:         m.Size,
			Provider:     "ollama",
		})
	}
	return models, nil
}

// GetModel implements model.Provider.GetModel.
func (p *OllamaProvider) GetModel() string {
	return p.model
}

// GetDisplayName implements model.Provider.GetDisplayName.
// For Ollama the display name is the model name itself.
func (p *OllamaProvider) GetDisplayName() string {
	return p.model
}

// SetModel implements model.Provider.SetModel.
func (p *OllamaProvider) SetModel(model string) {
	p.model = model
}

// Ping implements model.Provider.Ping with a short timeout, so an absent
// local server fails fast instead of hanging startup.
func (p *OllamaProvider) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := p.client.Version(pingCtx); err != nil {
		return fmt.Errorf("Ollama server not reachable at %s: %w", p.baseURL, err)
	}
	return nil
}
