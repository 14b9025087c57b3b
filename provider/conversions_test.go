package provider

import (
	"testing"
	"time"

	"github.com/ollama/ollama/api"

	"pecha/model"
)

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name     string
		input    []model.Turn
		expected []api.Message
	}{
		{
			name:     "empty slice",
			input:    []model.Turn{},
			expected: []api.Message{},
		},
		{
			name: "single turn",
			input: []model.Turn{
				{Role: "user", Text: "Hello"},
			},
			expected: []api.Message{
				{Role: "user", Content: "Hello"},
			},
		},
		{
			name: "full transcript",
			input: []model.Turn{
				{Role: "system", Text: "You are a document assistant."},
				{Role: "user", Text: "What does this verse mean?", Timestamp: time.Now()},
				{Role: "assistant", Text: "It speaks of impermanence.", Timestamp: time.Now()},
			},
			expected: []api.Message{
				{Role: "system", Content: "You are a document assistant."},
				{Role: "user", Content: "What does this verse mean?"},
				{Role: "assistant", Content: "It speaks of impermanence."},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOllamaMessages(tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.expected))
			}

			for i, msg := range result {
				if msg.Role != tt.expected[i].Role {
					t.Errorf("message %d role: got %q, want %q", i, msg.Role, tt.expected[i].Role)
				}
				if msg.Content != tt.expected[i].Content {
					t.Errorf("message %d content: got %q, want %q", i, msg.Content, tt.expected[i].Content)
				}
			}
		})
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	input := []model.Turn{
		{Role: model.RoleSystem, Text: "system prompt"},
		{Role: model.RoleUser, Text: "question"},
		{Role: model.RoleAssistant, Text: "answer"},
		{Role: "unknown", Text: "fallback"},
	}

	result := ConvertToOpenAIMessages(input)
	if len(result) != 4 {
		t.Fatalf("length mismatch: got %d, want 4", len(result))
	}

	if result[0].OfSystem == nil {
		t.Error("message 0 should be a system message")
	}
	if result[1].OfUser == nil {
		t.Error("message 1 should be a user message")
	}
	if result[2].OfAssistant == nil {
		t.Error("message 2 should be an assistant message")
	}
	// Unknown roles degrade to user messages
	if result[3].OfUser == nil {
		t.Error("unknown role should convert to a user message")
	}
}
