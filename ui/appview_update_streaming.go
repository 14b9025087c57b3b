package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
	appmodel "pecha/model"
)

// handleModelMsg processes messages produced by the model package's
// commands. Returns handled=false for messages the UI does not own.
func (a AppView) handleModelMsg(msg tea.Msg) (bool, tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appmodel.StreamUpdateMsg:
		next, cmd := a.handleStreamUpdate(msg)
		return true, next, cmd

	case appmodel.StreamErrorMsg:
		next, cmd := a.handleStreamError(msg)
		return true, next, cmd

	case appmodel.MarkdownRenderedMsg:
		if msg.TurnIndex >= 0 && msg.TurnIndex < len(a.dataModel.Turns) {
			t := &a.dataModel.Turns[msg.TurnIndex]
			// A turn that started streaming again since the render was
			// requested keeps its live text.
			if !t.IsStreaming {
				t.Rendered = msg.Rendered
				a.updateViewportContent(msg.TurnIndex == len(a.dataModel.Turns)-1)
			}
		}
		return true, a, nil

	default:
		return a.handleSessionMsg(msg)
	}
}

func (a AppView) handleStreamUpdate(msg appmodel.StreamUpdateMsg) (tea.Model, tea.Cmd) {
	idx := appmodel.TurnIndexByID(a.dataModel.Turns, msg.TurnID)
	if idx < 0 {
		// Target turn is gone (conversation was reset); drain the feed.
		return a, a.dataModel.Listen()
	}

	t := &a.dataModel.Turns[idx]
	t.Text = msg.Base + msg.Text
	if len(msg.Citations) > 0 {
		t.Grounding = msg.Citations
	}

	if !msg.Done {
		a.updateViewportContent(true)
		return a, a.dataModel.Listen()
	}

	// Terminal fragment: finalize the turn
	t.IsStreaming = false
	t.Truncated = msg.Truncated
	t.Rendered = t.Text
	a.dataModel.SessionDirty = true
	a.dataModel.FinishStream()
	a.updateViewportContent(true)

	if config.DebugLog != nil {
		config.DebugLog.Printf("Reply finished for turn %s - %d chars, truncated=%v", msg.TurnID, len(t.Text), msg.Truncated)
	}

	return a, tea.Batch(
		a.renderMarkdownAsync(idx, t.Text),
		a.dataModel.AutoSaveSession(),
	)
}

func (a AppView) handleStreamError(msg appmodel.StreamErrorMsg) (tea.Model, tea.Cmd) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("Stream error for turn %s: %v", msg.TurnID, msg.Err)
	}

	a.dataModel.FinishStream()

	idx := appmodel.TurnIndexByID(a.dataModel.Turns, msg.TurnID)
	if idx >= 0 {
		t := &a.dataModel.Turns[idx]
		t.Text = msg.Base + msg.Partial
		t.Rendered = t.Text
		t.IsStreaming = false
		a.dataModel.SessionDirty = true
	}

	if msg.Unauthorized {
		// Credential-class failure: prompt, never blind-retry.
		if a.dataModel.Config.CredentialStore != nil &&
			a.dataModel.Config.CredentialStore.NeedsPassphrase(a.dataModel.Config.DataDir()) {
			a.showPassphraseModal = true
			a.updateViewportContent(true)
			return a, a.passphraseInput.Focus()
		}
		a.showInfoModal = true
		a.infoModalTitle = "Authorization failed"
		a.infoModalMsg = fmt.Sprintf("%s rejected the request.\nCheck the API key in credentials and try again.", a.currentModelName())
		a.updateViewportContent(true)
		return a, nil
	}

	notice := appmodel.NewSystemTurn(fmt.Sprintf("Error: %v\nPartial reply kept. Press Enter to retry your message.", msg.Err))
	a.dataModel.Turns = append(a.dataModel.Turns, notice)
	a.updateViewportContent(true)
	return a, a.dataModel.AutoSaveSession()
}

// cancelStreaming aborts the in-flight reply, keeping the partial text
func (a AppView) cancelStreaming() (tea.Model, tea.Cmd) {
	turnID := a.dataModel.StreamTurnID
	a.dataModel.CancelStream()

	idx := appmodel.TurnIndexByID(a.dataModel.Turns, turnID)
	if idx >= 0 {
		t := &a.dataModel.Turns[idx]
		t.IsStreaming = false
		t.Rendered = t.Text
		a.dataModel.SessionDirty = true
	}
	a.updateViewportContent(true)
	return a, a.dataModel.AutoSaveSession()
}
