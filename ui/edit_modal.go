package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	appmodel "pecha/model"
)

// openEditModal opens the edit modal for the user turn at idx
func (a AppView) openEditModal(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(a.dataModel.Turns) {
		return a, nil
	}
	t := a.dataModel.Turns[idx]
	if t.Role != appmodel.RoleUser {
		a.statusNote = "Only your own messages can be edited"
		return a, clearStatusAfter(3 * time.Second)
	}
	if a.dataModel.Stream.Active() {
		a.statusNote = "Wait for the current reply to finish before editing"
		return a, clearStatusAfter(3 * time.Second)
	}

	a.showEditModal = true
	a.editTurnIdx = idx
	a.editHistoryIdx = -1
	a.editDraft = t.Text
	a.editInput.SetValue(t.Text)
	a.editInput.SetWidth(min(a.width-10, 76))
	a.editInput.CursorEnd()
	return a, a.editInput.Focus()
}

func (a AppView) renderEditModal() string {
	t := a.dataModel.Turns[a.editTurnIdx]

	var body strings.Builder
	body.WriteString(a.editInput.View())

	if n := len(t.History); n > 0 {
		body.WriteString("\n\n")
		if a.editHistoryIdx >= 0 {
			body.WriteString(DimStyle.Render(fmt.Sprintf("Recalled version %d of %d", a.editHistoryIdx+1, n)))
		} else {
			body.WriteString(DimStyle.Render(fmt.Sprintf("%d earlier version(s). Ctrl+Up recalls them.", n)))
		}
	}

	footer := FormatFooter(
		"Enter", "Resend",
		"Alt+Enter", "Newline",
		"Ctrl+Up/Down", "Recall versions",
		"Esc", "Cancel",
	)
	return renderModalBox("Edit message", body.String(), footer, min(a.width-8, 80), a.width, a.height)
}

// handleEditModalKeys edits a user turn. Enter supersedes the turn, discards
// everything after it and regenerates the reply.
func (a AppView) handleEditModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.showEditModal = false
		a.editInput.Blur()
		a.editHistoryIdx = -1
		return a, nil

	case "ctrl+up":
		t := a.dataModel.Turns[a.editTurnIdx]
		if len(t.History) == 0 {
			return a, nil
		}
		if a.editHistoryIdx == -1 {
			// Leaving the live draft: remember it for ctrl+down
			a.editDraft = a.editInput.Value()
			a.editHistoryIdx = len(t.History) - 1
		} else if a.editHistoryIdx > 0 {
			a.editHistoryIdx--
		}
		a.editInput.SetValue(t.History[a.editHistoryIdx])
		a.editInput.CursorEnd()
		return a, nil

	case "ctrl+down":
		t := a.dataModel.Turns[a.editTurnIdx]
		if a.editHistoryIdx == -1 {
			return a, nil
		}
		if a.editHistoryIdx < len(t.History)-1 {
			a.editHistoryIdx++
			a.editInput.SetValue(t.History[a.editHistoryIdx])
		} else {
			a.editHistoryIdx = -1
			a.editInput.SetValue(a.editDraft)
		}
		a.editInput.CursorEnd()
		return a, nil

	case "enter":
		newText := strings.TrimSpace(a.editInput.Value())
		if newText == "" {
			return a, nil
		}

		turns, assistantID, ok := appmodel.EditUserTurn(a.dataModel.Turns, a.editTurnIdx, newText)
		if !ok {
			a.showEditModal = false
			a.editInput.Blur()
			return a, nil
		}
		a.dataModel.Turns = turns
		a.dataModel.SessionDirty = true

		a.showEditModal = false
		a.editInput.Blur()
		a.editHistoryIdx = -1
		a.selectionMode = false
		a.textarea.Focus()

		prior := promptContext(a.dataModel.Turns, a.editTurnIdx)
		startCmd, err := a.dataModel.StartReply(assistantID, newText, prior, "")
		if err != nil {
			return a.streamStartFailed(assistantID, err)
		}

		a.updateViewportContent(true)
		return a, tea.Batch(startCmd, a.loadingSpinner.Tick, a.dataModel.AutoSaveSession())
	}

	a.editInput, cmd = a.editInput.Update(msg)
	return a, cmd
}

// renderHistoryModal shows the superseded versions of a turn, oldest first
func (a AppView) renderHistoryModal() string {
	t := a.dataModel.Turns[a.historyTurnIdx]
	n := len(t.History)
	if n == 0 {
		return renderInfoModal("Message history", "This message has no earlier versions.", a.width, a.height)
	}
	if a.historyIdx < 0 {
		a.historyIdx = 0
	}
	if a.historyIdx >= n {
		a.historyIdx = n - 1
	}

	var body strings.Builder
	body.WriteString(DimStyle.Render(fmt.Sprintf("Version %d of %d (oldest first)", a.historyIdx+1, n)))
	body.WriteString("\n\n")
	body.WriteString(strings.Join(wrapToWidth(t.History[a.historyIdx], min(a.width-14, 72)), "\n"))
	body.WriteString("\n\n")
	body.WriteString(TitleStyle.Render("Current"))
	body.WriteString("\n")
	body.WriteString(strings.Join(wrapToWidth(t.Text, min(a.width-14, 72)), "\n"))

	footer := FormatFooter(
		"j/k", "Older/Newer",
		"y", "Copy version",
		"Esc", "Close",
	)
	return renderModalBox("Message history", body.String(), footer, min(a.width-8, 80), a.width, a.height)
}

func (a AppView) handleHistoryModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := a.dataModel.Turns[a.historyTurnIdx]

	switch msg.String() {
	case "esc", "enter", "h":
		a.showHistoryModal = false
		return a, nil

	case "j", "down":
		if a.historyIdx > 0 {
			a.historyIdx--
		}
		return a, nil

	case "k", "up":
		if a.historyIdx < len(t.History)-1 {
			a.historyIdx++
		}
		return a, nil

	case "y":
		if a.historyIdx >= 0 && a.historyIdx < len(t.History) {
			return a.copyText(t.History[a.historyIdx], "Version copied to clipboard")
		}
		return a, nil
	}

	return a, nil
}
