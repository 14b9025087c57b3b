package testutil

import (
	"context"

	"pecha/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	ChatFunc       func(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error
	GenerateFunc   func(ctx context.Context, prompt string) (string, error)
	ListModelsFunc func(ctx context.Context) ([]model.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	// State
	currentModel string
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.GenerateFunc = mock.defaultGenerate
	mock.ListModelsFunc = mock.defaultListModels
	mock.PingFunc = mock.defaultPing
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error {
	if len(turns) > 0 && callback != nil {
		return callback("Mock response", nil)
	}
	return nil
}

func (m *MockProvider) defaultGenerate(ctx context.Context, prompt string) (string, error) {
	return "Mock analysis", nil
}

func (m *MockProvider) defaultListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return []model.ModelInfo{
		{Name: "mock-model-1", Size: 1000},
		{Name: "mock-model-2", Size: 2000},
	}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Chat(ctx context.Context, turns []model.Turn, callback model.StreamCallback) error {
	return m.ChatFunc(ctx, turns, callback)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateFunc(ctx, prompt)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) GetDisplayName() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

// MockSpeaker is a MockProvider that also synthesizes speech
type MockSpeaker struct {
	MockProvider
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)
}

func (m *MockSpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	// Two silent samples of 16-bit PCM
	return []byte{0, 0, 0, 0}, nil
}
