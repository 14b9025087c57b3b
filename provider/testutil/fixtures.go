package testutil

import (
	"time"

	"github.com/google/uuid"

	"pecha/model"
)

// TestTurns returns a sample conversation for testing
func TestTurns() []model.Turn {
	return []model.Turn{
		{
			ID:        uuid.New().String(),
			Role:      model.RoleUser,
			Text:      "What does this passage mean?",
			Timestamp: time.Now(),
		},
		{
			ID:        uuid.New().String(),
			Role:      model.RoleAssistant,
			Text:      "The passage describes the dedication of merit.",
			Timestamp: time.Now(),
		},
		{
			ID:        uuid.New().String(),
			Role:      model.RoleUser,
			Text:      "Can you translate the next line?",
			Timestamp: time.Now(),
		},
	}
}

// SingleUserTurn returns a single user turn for simple tests
func SingleUserTurn(text string) []model.Turn {
	return []model.Turn{
		{
			ID:        uuid.New().String(),
			Role:      model.RoleUser,
			Text:      text,
			Timestamp: time.Now(),
		},
	}
}

// EmptyTurns returns an empty turn slice for edge case testing
func EmptyTurns() []model.Turn {
	return []model.Turn{}
}

// SystemTurn returns a system turn for testing
func SystemTurn(text string) model.Turn {
	return model.Turn{
		ID:        uuid.New().String(),
		Role:      model.RoleSystem,
		Text:      text,
		Timestamp: time.Now(),
	}
}
