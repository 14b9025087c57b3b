package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"pecha/model"
)

// AnthropicProvider implements model.Provider using Anthropic's official API.
// It is the one backend that returns grounding data: citation deltas arrive
// interleaved with text deltas and are forwarded through the stream callback.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	apiKey  string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Initial model to use (default: "claude-sonnet-4-5-20250929")
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	anthropicModel := anthropic.ModelClaudeSonnet4_5_20250929
	if model != "" {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Chat implements model.Provider.Chat with streaming support.
//
// Text deltas stream through the callback as they arrive. Citation deltas
// accumulate over the whole reply; each time one arrives the callback
// receives the complete citation set so far, replacing the previous one.
func (p *AnthropicProvider) Chat(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error {
	messages, systemPrompt := convertToAnthropicMessages(turns)

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: 4096,
	}
	if len(systemPrompt) > 0 {
		params.System = systemPrompt
	}

	stream := p.client.Messages.NewStreaming(ctx, params)

	var cites []model.Citation
	for stream.Next() {
		event := stream.Current()

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if callback != nil {
					if err := callback(deltaVariant.Text, nil); err != nil {
						return err
					}
				}
			case anthropic.CitationsDelta:
				cite := citationFromDelta(deltaVariant)
				if cite.URI == "" && cite.Title == "" {
					continue
				}
				cites = appendCitation(cites, cite)
				if callback != nil {
					if err := callback("", cites); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return wrapAnthropicErr(err, "streaming")
	}
	return nil
}

// Generate implements model.Provider.Generate as a one-shot call.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapAnthropicErr(err, "generate")
	}

	var text string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += tb.Text
		}
	}
	return text, nil
}

// ListModels implements model.Provider.ListModels.
// Anthropic has no models list API, so this returns a curated list of known
// models as of the SDK version in use.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	models := []anthropic.Model{
		anthropic.ModelClaudeSonnet4_5_20250929,
		anthropic.ModelClaude3_5Haiku20241022,
		anthropic.ModelClaude_3_Opus_20240229,
		anthropic.ModelClaude_3_Haiku_20240307,
	}

	result := make([]model.ModelInfo, 0, len(models))
	for _, m := range models {
		result = append(result, model.ModelInfo{
			Name:         string(m),
			InternalName: string(m),
			Size:         0,
			Provider:     "anthropic",
		})
	}
	return result, nil
}

// GetModel implements model.Provider.GetModel.
func (p *AnthropicProvider) GetModel() string {
	return string(p.model)
}

// GetDisplayName implements model.Provider.GetDisplayName.
func (p *AnthropicProvider) GetDisplayName() string {
	return string(p.model)
}

// SetModel implements model.Provider.SetModel.
func (p *AnthropicProvider) SetModel(model string) {
	p.model = anthropic.Model(model)
}

// Ping implements model.Provider.Ping with a minimal request, since
// Anthropic has no health endpoint.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return wrapAnthropicErr(err, "ping")
	}
	return nil
}

// convertToAnthropicMessages converts pecha turns to Anthropic format.
// System turns go into the separate system parameter, not the messages array.
func convertToAnthropicMessages(turns []model.Turn) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	messages := make([]anthropic.MessageParam, 0, len(turns))

	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: t.Text})
		case model.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(t.Text)))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		}
	}

	return messages, systemBlocks
}

// citationFromDelta maps an Anthropic citation delta onto pecha's Citation.
// Web results carry a URL and title; document citations carry the document
// title only.
func citationFromDelta(delta anthropic.CitationsDelta) model.Citation {
	c := delta.Citation
	cite := model.Citation{URI: c.URL, Title: c.Title}
	if cite.Title == "" {
		cite.Title = c.DocumentTitle
	}
	return cite
}

// appendCitation adds a citation unless an identical one is already present
func appendCitation(cites []model.Citation, cite model.Citation) []model.Citation {
	for _, existing := range cites {
		if existing == cite {
			return cites
		}
	}
	return append(cites, cite)
}
