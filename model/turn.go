package model

import (
	"time"

	"github.com/google/uuid"
)

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Citation is a source reference attached to generated text
type Citation struct {
	URI   string
	Title string
}

// Turn represents one conversational turn. An assistant turn is created empty
// with IsStreaming set and mutated in place by the accumulator until its
// terminal fragment is processed. A turn's ID is assigned once and never
// reused for a different turn.
type Turn struct {
	ID          string
	Role        string
	Text        string
	Rendered    string // Cached rendered markdown
	IsStreaming bool
	Truncated   bool // reply stopped at the budget while the generator wanted more
	Timestamp   time.Time
	History     []string       // superseded text versions, oldest first; never contains current Text
	Reactions   map[string]int // label -> count; counts only increase
	Grounding   []Citation
}

// NewUserTurn creates a user turn from submitted text
func NewUserTurn(text string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Text:      text,
		Rendered:  text,
		Timestamp: time.Now(),
	}
}

// NewAssistantTurn creates an empty assistant turn ready to receive fragments
func NewAssistantTurn() Turn {
	return Turn{
		ID:          uuid.New().String(),
		Role:        RoleAssistant,
		IsStreaming: true,
		Timestamp:   time.Now(),
	}
}

// NewSystemTurn creates an inline notice (errors, status) shown in the
// transcript but never sent to the generator or persisted.
func NewSystemTurn(text string) Turn {
	return Turn{
		ID:        uuid.New().String(),
		Role:      RoleSystem,
		Text:      text,
		Rendered:  text,
		Timestamp: time.Now(),
	}
}

// React bumps the count for a reaction label
func (t *Turn) React(label string) {
	if label == "" {
		return
	}
	if t.Reactions == nil {
		t.Reactions = make(map[string]int)
	}
	t.Reactions[label]++
}

// Supersede replaces the turn's text, pushing the previous version onto the
// history. A no-op when the text is unchanged, so history never ends up
// holding the current value.
func (t *Turn) Supersede(newText string) {
	if newText == t.Text {
		return
	}
	t.History = append(t.History, t.Text)
	t.Text = newText
	t.Rendered = newText
}

// EditUserTurn edits the user turn at index k: its previous text moves into
// its history, every turn after it is discarded, and a fresh streaming
// assistant turn is appended for the regenerated reply. Returns the new turn
// slice and the ID of the assistant turn, or ok=false when k does not name an
// editable user turn.
func EditUserTurn(turns []Turn, k int, newText string) (result []Turn, assistantID string, ok bool) {
	if k < 0 || k >= len(turns) || turns[k].Role != RoleUser {
		return turns, "", false
	}

	result = make([]Turn, k+1, k+2)
	copy(result, turns[:k+1])
	result[k].Supersede(newText)

	assistant := NewAssistantTurn()
	result = append(result, assistant)
	return result, assistant.ID, true
}

// TurnIndexByID finds a turn by ID, -1 when absent
func TurnIndexByID(turns []Turn, id string) int {
	for i := range turns {
		if turns[i].ID == id {
			return i
		}
	}
	return -1
}
