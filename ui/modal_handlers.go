package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	appmodel "pecha/model"
	"pecha/storage"
)

// handleSessionManagerKeys drives the session manager modal and its
// rename/delete/export/import/filter sub-modes.
func (a AppView) handleSessionManagerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.sessionRenameMode {
		switch msg.String() {
		case "esc":
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			return a, nil
		case "enter":
			newName := strings.TrimSpace(a.sessionRenameInput.Value())
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			list := a.getSessionList()
			if newName == "" || a.selectedSessionIdx >= len(list) {
				return a, nil
			}
			return a, a.dataModel.RenameSessionCmd(list[a.selectedSessionIdx].ID, newName)
		}
		a.sessionRenameInput, cmd = a.sessionRenameInput.Update(msg)
		return a, cmd
	}

	if a.sessionExportMode {
		switch msg.String() {
		case "esc":
			a.sessionExportMode = false
			a.sessionExportInput.Blur()
			return a, nil
		case "enter":
			path := strings.TrimSpace(a.sessionExportInput.Value())
			if path == "" {
				return a, nil
			}
			a.sessionExportInput.Blur()
			return a, a.dataModel.ExportSessionCmd(path)
		}
		a.sessionExportInput, cmd = a.sessionExportInput.Update(msg)
		return a, cmd
	}

	if a.sessionImportMode {
		switch msg.String() {
		case "esc":
			a.sessionImportMode = false
			a.sessionImportInput.Blur()
			return a, nil
		case "enter":
			path := strings.TrimSpace(a.sessionImportInput.Value())
			if path == "" {
				return a, nil
			}
			a.sessionImportInput.Blur()
			return a, a.dataModel.ImportSessionCmd(path)
		}
		a.sessionImportInput, cmd = a.sessionImportInput.Update(msg)
		return a, cmd
	}

	if a.sessionFilterMode && a.sessionFilterInput.Focused() {
		switch msg.String() {
		case "esc":
			a.sessionFilterMode = false
			a.sessionFilterInput.SetValue("")
			a.sessionFilterInput.Blur()
			a.selectedSessionIdx = 0
			return a, nil
		case "enter":
			a.sessionFilterInput.Blur()
			return a, nil
		}
		a.sessionFilterInput, cmd = a.sessionFilterInput.Update(msg)
		a.filterSessions()
		return a, cmd
	}

	if a.confirmDeleteSession != nil {
		switch msg.String() {
		case "y", "Y":
			id := a.confirmDeleteSession.ID
			a.confirmDeleteSession = nil
			return a, a.dataModel.DeleteSessionCmd(id)
		default:
			a.confirmDeleteSession = nil
			return a, nil
		}
	}

	list := a.getSessionList()

	switch msg.String() {
	case "esc", "alt+s":
		a.showSessionManager = false
		a.sessionFilterMode = false
		a.sessionFilterInput.SetValue("")
		a.sessionExportSuccess = ""
		return a, nil

	case "j", "down":
		if a.selectedSessionIdx < len(list)-1 {
			a.selectedSessionIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedSessionIdx > 0 {
			a.selectedSessionIdx--
		}
		return a, nil

	case "enter":
		if a.selectedSessionIdx >= len(list) {
			return a, nil
		}
		return a, a.dataModel.LoadSession(list[a.selectedSessionIdx].ID)

	case "n":
		if a.selectedSessionIdx >= len(list) {
			return a, nil
		}
		a.sessionRenameMode = true
		a.sessionRenameInput.SetValue(list[a.selectedSessionIdx].Name)
		a.sessionRenameInput.CursorEnd()
		return a, a.sessionRenameInput.Focus()

	case "d":
		if a.selectedSessionIdx >= len(list) {
			return a, nil
		}
		sel := list[a.selectedSessionIdx]
		a.confirmDeleteSession = &sel
		return a, nil

	case "x":
		a.sessionExportMode = true
		a.sessionExportSuccess = ""
		a.sessionExportInput.SetValue("~/")
		a.sessionExportInput.CursorEnd()
		return a, a.sessionExportInput.Focus()

	case "i":
		a.sessionImportMode = true
		a.sessionImportInput.SetValue("~/")
		a.sessionImportInput.CursorEnd()
		return a, a.sessionImportInput.Focus()

	case "/":
		a.sessionFilterMode = true
		a.sessionFilterInput.SetValue("")
		a.selectedSessionIdx = 0
		return a, a.sessionFilterInput.Focus()
	}

	return a, nil
}

// filterSessions recomputes the fuzzy-filtered session list
func (a *AppView) filterSessions() {
	filterValue := a.sessionFilterInput.Value()
	if filterValue == "" {
		a.filteredSessionList = a.sessionList
		return
	}

	targets := make([]string, len(a.sessionList))
	for i, s := range a.sessionList {
		targets[i] = s.Name
	}
	matches := fuzzy.Find(filterValue, targets)

	filtered := make([]storage.SessionMetadata, len(matches))
	for i, match := range matches {
		filtered[i] = a.sessionList[match.Index]
	}
	a.filteredSessionList = filtered
	if a.selectedSessionIdx >= len(filtered) {
		a.selectedSessionIdx = 0
	}
}

// handleModelSelectorKeys drives the model picker
func (a AppView) handleModelSelectorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if a.modelFilterMode && a.modelFilterInput.Focused() {
		switch msg.String() {
		case "esc":
			a.modelFilterMode = false
			a.modelFilterInput.SetValue("")
			a.modelFilterInput.Blur()
			a.selectedModelIdx = 0
			return a, nil
		case "enter":
			a.modelFilterInput.Blur()
			return a, nil
		}
		a.modelFilterInput, cmd = a.modelFilterInput.Update(msg)
		a.filterModels()
		return a, cmd
	}

	list := a.getModelList()

	switch msg.String() {
	case "esc", "alt+m":
		a.showModelSelector = false
		a.modelFilterMode = false
		a.modelFilterInput.SetValue("")
		return a, nil

	case "j", "down":
		if a.selectedModelIdx < len(list)-1 {
			a.selectedModelIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
		return a, nil

	case "/":
		a.modelFilterMode = true
		a.modelFilterInput.SetValue("")
		a.selectedModelIdx = 0
		return a, a.modelFilterInput.Focus()

	case "enter":
		if a.selectedModelIdx >= len(list) {
			return a, nil
		}
		selected := list[a.selectedModelIdx]

		if selected.Provider != "" {
			a.dataModel.SwitchProvider(selected.Provider)
		}
		if a.dataModel.Provider != nil {
			a.dataModel.Provider.SetModel(selected.InternalName)
		}

		a.showModelSelector = false
		a.modelFilterMode = false
		a.modelFilterInput.SetValue("")
		return a, a.dataModel.AutoSaveSession()
	}

	return a, nil
}

// filterModels recomputes the fuzzy-filtered model list
func (a *AppView) filterModels() {
	filterValue := a.modelFilterInput.Value()
	if filterValue == "" {
		a.filteredModelList = a.modelList
		return
	}

	targets := make([]string, len(a.modelList))
	for i, m := range a.modelList {
		targets[i] = m.Name
	}
	matches := fuzzy.Find(filterValue, targets)

	filtered := make([]appmodel.ModelInfo, len(matches))
	for i, match := range matches {
		filtered[i] = a.modelList[match.Index]
	}
	a.filteredModelList = filtered
	if a.selectedModelIdx >= len(filtered) {
		a.selectedModelIdx = 0
	}
}

// handleGlobalSearchKeys drives the cross-session search modal. Every
// keystroke re-queries the archive; stale responses are dropped on arrival.
func (a AppView) handleGlobalSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc", "alt+g":
		a.showGlobalSearch = false
		a.globalSearchInput.Blur()
		return a, nil

	case "ctrl+n", "down":
		if a.selectedGlobalIdx < len(a.globalSearchResults)-1 {
			a.selectedGlobalIdx++
			visible := a.globalSearchVisibleRows()
			if a.selectedGlobalIdx >= a.globalSearchScrollIdx+visible {
				a.globalSearchScrollIdx = a.selectedGlobalIdx - visible + 1
			}
		}
		return a, nil

	case "ctrl+p", "up":
		if a.selectedGlobalIdx > 0 {
			a.selectedGlobalIdx--
			if a.selectedGlobalIdx < a.globalSearchScrollIdx {
				a.globalSearchScrollIdx = a.selectedGlobalIdx
			}
		}
		return a, nil

	case "enter":
		if a.selectedGlobalIdx >= len(a.globalSearchResults) {
			return a, nil
		}
		match := a.globalSearchResults[a.selectedGlobalIdx]
		a.showGlobalSearch = false
		a.globalSearchInput.Blur()

		if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.ID == match.SessionID {
			return a.jumpToTurn(match.TurnIndex)
		}
		// Loading finishes asynchronously; the jump happens on arrival.
		a.pendingScrollToTurnIdx = match.TurnIndex
		return a, a.dataModel.LoadSession(match.SessionID)
	}

	a.globalSearchInput, cmd = a.globalSearchInput.Update(msg)

	query := strings.TrimSpace(a.globalSearchInput.Value())
	if query == "" {
		a.globalSearchResults = nil
		a.selectedGlobalIdx = 0
		a.globalSearchScrollIdx = 0
		return a, cmd
	}
	return a, tea.Batch(cmd, a.dataModel.SearchArchive(a.globalSearchInput.Value()))
}

func (a AppView) globalSearchVisibleRows() int {
	rows := a.height - 10
	if rows < 3 {
		rows = 3
	}
	return rows
}
