package model

import (
	"context"
	"errors"
)

// Provider abstracts generative-language backends (Ollama, OpenAI, Anthropic)
// using provider-agnostic types from pecha's model layer.
//
// This interface is defined in the model package (not the provider package) to
// avoid import cycles: provider implementations can import model, and model
// can use the Provider interface without importing the provider package.
type Provider interface {
	// Chat sends the transcript and streams the reply back via callback,
	// fragment by fragment in arrival order. Citations, when the backend
	// returns grounding data, replace the previously reported set.
	Chat(ctx context.Context, turns []Turn, callback StreamCallback) error

	// Generate performs a one-shot, non-streaming call. Used for the short
	// lookup analyses (explain / translate a selection).
	Generate(ctx context.Context, prompt string) (string, error)

	// ListModels returns available models for this provider.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// GetModel returns the currently selected model name for API calls.
	GetModel() string

	// GetDisplayName returns the model name formatted for UI display.
	GetDisplayName() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the provider is reachable.
	Ping(ctx context.Context) error
}

// StreamCallback is called for each fragment of a streamed reply.
type StreamCallback func(chunk string, cites []Citation) error

// Speaker is implemented by providers that can synthesize speech.
// Synthesize returns raw 16-bit little-endian PCM at 24kHz, mono.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ModelInfo describes one selectable model
type ModelInfo struct {
	Name         string // Display name
	InternalName string // Full API name
	Size         int64  // Bytes on disk for local models, 0 for cloud
	Provider     string // Provider ID: "ollama", "openai", "anthropic"
}

// ErrUnauthorized marks authentication/quota-class failures. Callers must
// prompt for credentials instead of retrying the same request blindly.
var ErrUnauthorized = errors.New("provider rejected credentials or quota")
