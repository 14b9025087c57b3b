package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "pecha/model"
	"pecha/stream"
)

// sendMessage submits the textarea content as a new user turn and starts
// streaming the reply. Empty or whitespace-only submissions are rejected
// locally; a second send while a reply is in flight is a no-op.
func (a AppView) sendMessage() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(a.textarea.Value())
	if text == "" {
		return a, nil
	}

	if a.dataModel.Stream.Active() {
		a.statusNote = "A reply is already streaming. Esc cancels it."
		return a, clearStatusAfter(3 * time.Second)
	}

	prior := promptContext(a.dataModel.Turns, len(a.dataModel.Turns))

	userTurn := appmodel.NewUserTurn(text)
	assistant := appmodel.NewAssistantTurn()
	a.dataModel.Turns = append(a.dataModel.Turns, userTurn, assistant)
	a.dataModel.SessionDirty = true

	cmd, err := a.dataModel.StartReply(assistant.ID, text, prior, "")
	if err != nil {
		return a.streamStartFailed(assistant.ID, err)
	}

	a.textarea.Reset()
	a.updateViewportContent(true)
	return a, tea.Batch(cmd, a.loadingSpinner.Tick)
}

// continueTruncatedReply resumes the last budget-capped assistant reply
func (a AppView) continueTruncatedReply() (tea.Model, tea.Cmd) {
	idx := -1
	for i := len(a.dataModel.Turns) - 1; i >= 0; i-- {
		if a.dataModel.Turns[i].Role == appmodel.RoleAssistant {
			idx = i
			break
		}
	}
	if idx < 0 || !a.dataModel.Turns[idx].Truncated || a.dataModel.Turns[idx].IsStreaming {
		return a, nil
	}
	if a.dataModel.Stream.Active() {
		return a, nil
	}

	t := &a.dataModel.Turns[idx]
	base := t.Text
	t.IsStreaming = true
	t.Truncated = false

	continuePrompt := a.dataModel.Config.Assistant.ContinuePrompt
	if continuePrompt == "" {
		continuePrompt = "Please continue exactly where you left off."
	}

	prior := promptContext(a.dataModel.Turns, idx)
	cmd, err := a.dataModel.StartReply(t.ID, continuePrompt, prior, base)
	if err != nil {
		t.IsStreaming = false
		t.Truncated = true
		return a.streamStartFailed(t.ID, err)
	}

	a.updateViewportContent(true)
	return a, tea.Batch(cmd, a.loadingSpinner.Tick)
}

func (a AppView) streamStartFailed(turnID string, err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, stream.ErrBusy) {
		a.statusNote = "A reply is already streaming."
		return a, clearStatusAfter(3 * time.Second)
	}
	idx := appmodel.TurnIndexByID(a.dataModel.Turns, turnID)
	if idx >= 0 {
		a.dataModel.Turns[idx].IsStreaming = false
	}
	a.showInfoModal = true
	a.infoModalTitle = "Could not start reply"
	a.infoModalMsg = err.Error()
	return a, nil
}

// promptContext collects the user/assistant turns before index upto, the
// part of the transcript the generator should see.
func promptContext(turns []appmodel.Turn, upto int) []appmodel.Turn {
	if upto > len(turns) {
		upto = len(turns)
	}
	prior := make([]appmodel.Turn, 0, upto)
	for _, t := range turns[:upto] {
		if t.Role != appmodel.RoleUser && t.Role != appmodel.RoleAssistant {
			continue
		}
		if t.IsStreaming {
			continue
		}
		prior = append(prior, t)
	}
	return prior
}

// copyText puts text on the clipboard and flashes a status note
func (a AppView) copyText(text, note string) (tea.Model, tea.Cmd) {
	if err := clipboard.WriteAll(text); err != nil {
		a.statusNote = fmt.Sprintf("Copy failed: %v", err)
	} else {
		a.statusNote = note
	}
	return a, clearStatusAfter(3 * time.Second)
}

// copyLastReply copies the newest assistant turn to the clipboard
func (a AppView) copyLastReply() (tea.Model, tea.Cmd) {
	for i := len(a.dataModel.Turns) - 1; i >= 0; i-- {
		t := a.dataModel.Turns[i]
		if t.Role == appmodel.RoleAssistant && !t.IsStreaming && t.Text != "" {
			return a.copyText(t.Text, "Reply copied to clipboard")
		}
	}
	return a, nil
}

// adjustFontScale changes the persisted render scale, clamped to 50..200%
func (a AppView) adjustFontScale(delta int) (tea.Model, tea.Cmd) {
	scale := a.dataModel.Workspace.FontScale + delta
	if scale < 50 {
		scale = 50
	}
	if scale > 200 {
		scale = 200
	}
	if scale == a.dataModel.Workspace.FontScale {
		return a, nil
	}
	a.dataModel.Workspace.FontScale = scale

	// Re-render assistant turns at the new width
	var cmds []tea.Cmd
	for i := range a.dataModel.Turns {
		t := a.dataModel.Turns[i]
		if t.Role == appmodel.RoleAssistant && !t.IsStreaming && t.Text != "" {
			cmds = append(cmds, a.renderMarkdownAsync(i, t.Text))
		}
	}
	cmds = append(cmds, a.dataModel.PersistWorkspace())
	return a, tea.Batch(cmds...)
}

// Reaction keys available in selection mode.
var reactionLabels = map[string]string{
	"1": "👍",
	"2": "👎",
	"3": "🔖",
	"r": "👍",
}

// handleSelectionKeys drives turn selection mode: per-turn actions on the
// highlighted transcript turn.
func (a AppView) handleSelectionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if label, ok := reactionLabels[key]; ok {
		t := &a.dataModel.Turns[a.selectedTurnIdx]
		if t.Role == appmodel.RoleUser || t.Role == appmodel.RoleAssistant {
			t.React(label)
			a.dataModel.SessionDirty = true
			a.updateViewportContent(false)
			return a, a.dataModel.AutoSaveSession()
		}
		return a, nil
	}

	switch key {
	case "esc", "enter":
		a.selectionMode = false
		a.textarea.Focus()
		a.updateViewportContent(false)
		return a, nil

	case "j", "down":
		if a.selectedTurnIdx < len(a.dataModel.Turns)-1 {
			a.selectedTurnIdx++
		}
		a.updateViewportContent(false)
		a.scrollToTurn(a.selectedTurnIdx)
		return a, nil

	case "k", "up":
		if a.selectedTurnIdx > 0 {
			a.selectedTurnIdx--
		}
		a.updateViewportContent(false)
		a.scrollToTurn(a.selectedTurnIdx)
		return a, nil

	case "e":
		return a.openEditModal(a.selectedTurnIdx)

	case "h":
		t := a.dataModel.Turns[a.selectedTurnIdx]
		if len(t.History) == 0 {
			a.statusNote = "No earlier versions of this turn"
			return a, clearStatusAfter(3 * time.Second)
		}
		a.showHistoryModal = true
		a.historyTurnIdx = a.selectedTurnIdx
		a.historyIdx = len(t.History) - 1
		return a, nil

	case "y":
		return a.copyText(a.dataModel.Turns[a.selectedTurnIdx].Text, "Turn copied to clipboard")

	case "s":
		t := a.dataModel.Turns[a.selectedTurnIdx]
		if t.Role != appmodel.RoleAssistant || t.Text == "" {
			return a, nil
		}
		a.statusNote = "Synthesizing speech..."
		return a, a.dataModel.SpeakText(t.Text)

	case "x":
		t := a.dataModel.Turns[a.selectedTurnIdx]
		if t.Text == "" {
			return a, nil
		}
		a.lookupPanel.Pending = true
		a.showLookupPanel = true
		return a, a.dataModel.ExplainSelection(t.Text)

	case "t":
		t := a.dataModel.Turns[a.selectedTurnIdx]
		if t.Text == "" {
			return a, nil
		}
		a.lookupPanel.Pending = true
		a.showLookupPanel = true
		return a, a.dataModel.TranslateSelection(t.Text)

	case "g":
		a.selectedTurnIdx = 0
		a.updateViewportContent(false)
		a.viewport.GotoTop()
		return a, nil

	case "G":
		a.selectedTurnIdx = len(a.dataModel.Turns) - 1
		a.updateViewportContent(false)
		a.viewport.GotoBottom()
		return a, nil
	}

	return a, nil
}
