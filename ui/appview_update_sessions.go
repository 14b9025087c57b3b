package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
	appmodel "pecha/model"
)

// handleSessionMsg processes session, model-list, lookup and workspace
// messages.
func (a AppView) handleSessionMsg(msg tea.Msg) (bool, tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appmodel.SessionsListMsg:
		if msg.Err != nil {
			a.showInfoModal = true
			a.infoModalTitle = "Session list failed"
			a.infoModalMsg = msg.Err.Error()
			return true, a, nil
		}
		a.sessionList = msg.Sessions
		a.filteredSessionList = msg.Sessions
		if a.selectedSessionIdx >= len(msg.Sessions) && len(msg.Sessions) > 0 {
			a.selectedSessionIdx = len(msg.Sessions) - 1
		}
		return true, a, nil

	case appmodel.SessionLoadedMsg:
		if msg.Err != nil {
			a.showInfoModal = true
			a.infoModalTitle = "Could not load session"
			a.infoModalMsg = msg.Err.Error()
			return true, a, nil
		}
		a.closeAllModals()
		a.dataModel.CancelStream()
		a.dataModel.ApplyLoadedSession(msg.Session)
		a.modelListCached = false
		a.updateViewportContent(true)
		a.dataModel.NeedsInitialRender = false

		var renderCmds []tea.Cmd
		for i := range a.dataModel.Turns {
			t := a.dataModel.Turns[i]
			if t.Role == appmodel.RoleAssistant && (t.Rendered == "" || t.Rendered == t.Text) {
				renderCmds = append(renderCmds, a.renderMarkdownAsync(i, t.Text))
			}
		}

		// A cross-session search result jumps to its turn once loaded
		if idx := a.pendingScrollToTurnIdx; idx >= 0 && idx < len(a.dataModel.Turns) {
			a.pendingScrollToTurnIdx = -1
			next, jumpCmd := a.jumpToTurn(idx)
			return true, next, tea.Batch(append(renderCmds, jumpCmd)...)
		}
		a.pendingScrollToTurnIdx = -1
		return true, a, tea.Batch(renderCmds...)

	case appmodel.SessionSavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Session save failed: %v", msg.Err)
		}
		return true, a, nil

	case appmodel.SessionDeletedMsg:
		if msg.Err != nil {
			a.showInfoModal = true
			a.infoModalTitle = "Delete failed"
			a.infoModalMsg = msg.Err.Error()
			return true, a, nil
		}
		a.confirmDeleteSession = nil
		if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.ID == msg.ID {
			a.dataModel.ResetConversation()
			a.updateViewportContent(true)
		}
		return true, a, a.dataModel.FetchSessionList()

	case appmodel.SessionExportedMsg:
		a.sessionExportMode = false
		if msg.Err != nil {
			a.sessionExportSuccess = ""
			a.showInfoModal = true
			a.infoModalTitle = "Export failed"
			a.infoModalMsg = msg.Err.Error()
			return true, a, nil
		}
		a.sessionExportSuccess = msg.Path
		return true, a, nil

	case appmodel.SessionImportedMsg:
		a.sessionImportMode = false
		if msg.Err != nil {
			a.showInfoModal = true
			a.infoModalTitle = "Import failed"
			a.infoModalMsg = msg.Err.Error()
			return true, a, nil
		}
		return true, a, a.dataModel.FetchSessionList()

	case appmodel.ModelsListMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("Model list fetch failed: %v", msg.Err)
			}
			return true, a, nil
		}
		a.modelList = msg.Models
		a.filteredModelList = msg.Models
		a.modelListCached = true
		if a.selectedModelIdx >= len(msg.Models) && len(msg.Models) > 0 {
			a.selectedModelIdx = len(msg.Models) - 1
		}
		return true, a, nil

	case appmodel.GlobalSearchResultsMsg:
		// Stale results from an earlier keystroke are dropped
		if msg.Query != a.globalSearchInput.Value() {
			return true, a, nil
		}
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("Archive search failed: %v", msg.Err)
			}
			return true, a, nil
		}
		a.globalSearchResults = msg.Matches
		a.selectedGlobalIdx = 0
		a.globalSearchScrollIdx = 0
		return true, a, nil

	case appmodel.LookupResultMsg:
		a.lookupPanel.Pending = false
		a.lookupPanel.Kind = msg.Kind
		a.lookupPanel.Query = msg.Query
		if msg.Err != nil {
			a.lookupPanel.Result = ""
			a.lookupPanel.Err = msg.Err.Error()
		} else {
			a.lookupPanel.Result = msg.Result
			a.lookupPanel.Err = ""
		}
		a.showLookupPanel = true
		return true, a, nil

	case appmodel.SpeechSynthesizedMsg:
		if msg.Err != nil {
			a.statusNote = fmt.Sprintf("Speech failed: %v", msg.Err)
		} else {
			a.statusNote = fmt.Sprintf("Audio written to %s", msg.Path)
		}
		return true, a, clearStatusAfter(5 * time.Second)

	case appmodel.WorkspaceSavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Workspace save failed: %v", msg.Err)
		}
		return true, a, nil
	}

	return false, a, nil
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}
