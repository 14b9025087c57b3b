package provider

import (
	"context"
	"fmt"
	"io"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pecha/model"
)

// OpenAIProvider implements model.Provider using OpenAI's official API.
// It also implements model.Speaker through the speech endpoint.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: OpenAI API base URL (default: "https://api.openai.com/v1")
//   - apiKey: OpenAI API key (required)
//   - model: Initial model to use (default: "gpt-4o-mini")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   model,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Chat implements model.Provider.Chat with streaming support.
// OpenAI chat completions carry no grounding data, so citations are nil.
func (p *OpenAIProvider) Chat(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error {
	params := openai.ChatCompletionNewParams{
		Messages: ConvertToOpenAIMessages(turns),
		Model:    openai.ChatModel(p.model),
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if callback != nil {
				if err := callback(chunk.Choices[0].Delta.Content, nil); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return wrapOpenAIErr(err, "streaming")
	}
	return nil
}

// Generate implements model.Provider.Generate as a one-shot call.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:    openai.ChatModel(p.model),
	})
	if err != nil {
		return "", wrapOpenAIErr(err, "generate")
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI generate: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}

// Synthesize implements model.Speaker. The PCM response format is raw
// 16-bit little-endian samples at 24kHz, mono, which is exactly what the
// playback layer expects.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := p.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModelGPT4oMiniTTS,
		Input:          text,
		Voice:          openai.AudioSpeechNewParamsVoiceAlloy,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, wrapOpenAIErr(err, "speech")
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("OpenAI speech: reading audio: %w", err)
	}
	return pcm, nil
}

// ListModels implements model.Provider.ListModels.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	modelsPage, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, wrapOpenAIErr(err, "list models")
	}

	result := make([]model.ModelInfo, 0, len(modelsPage.Data))
	for _, m := range modelsPage.Data {
		result = append(result, model.ModelInfo{
			Name:         m.ID,
			InternalName: m.ID,
			Size:         0,
			Provider:     "openai",
		})
	}
	return result, nil
}

// GetModel implements model.Provider.GetModel.
func (p *OpenAIProvider) GetModel() string {
	return p.model
}

// GetDisplayName implements model.Provider.GetDisplayName.
func (p *OpenAIProvider) GetDisplayName() string {
	return p.model
}

// SetModel implements model.Provider.SetModel.
func (p *OpenAIProvider) SetModel(model string) {
	p.model = model
}

// Ping implements model.Provider.Ping by attempting to list models.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return wrapOpenAIErr(err, "ping")
	}
	return nil
}
