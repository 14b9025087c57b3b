package provider

import (
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"pecha/model"
)

// ConvertToOllamaMessages converts pecha turns to Ollama API messages.
// Roles map directly; Ollama accepts "system", "user" and "assistant".
func ConvertToOllamaMessages(turns []model.Turn) []api.Message {
	messages := make([]api.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, api.Message{
			Role:    t.Role,
			Content: t.Text,
		})
	}
	return messages
}

// ConvertToOpenAIMessages converts pecha turns to OpenAI chat messages.
// Unknown roles are sent as user messages.
func ConvertToOpenAIMessages(turns []model.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case model.RoleSystem:
			messages = append(messages, openai.SystemMessage(t.Text))
		case model.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(t.Text))
		default:
			messages = append(messages, openai.UserMessage(t.Text))
		}
	}
	return messages
}
