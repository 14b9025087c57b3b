package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
	appmodel "pecha/model"
	"pecha/provider"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Animate the spinner while a reply is streaming and still empty
	if a.dataModel.Stream.Active() {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
			a.updateViewportContent(true)
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title (1), separator (1), textarea (3), status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 6
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)

		if a.dataModel.NeedsInitialRender {
			a.dataModel.NeedsInitialRender = false
			var renderCmds []tea.Cmd
			for i := range a.dataModel.Turns {
				t := a.dataModel.Turns[i]
				if t.Role != appmodel.RoleAssistant {
					continue
				}
				// Skip when the cached render is still usable
				if t.Rendered != "" && t.Rendered != t.Text {
					continue
				}
				renderCmds = append(renderCmds, a.renderMarkdownAsync(i, t.Text))
			}
			return a, tea.Batch(renderCmds...)
		}
		return a, tea.Batch(cmds...)

	case highlightFlashMsg:
		if a.highlightFlashCount > 0 {
			a.highlightFlashCount--
			a.updateViewportContent(false)
			if a.highlightFlashCount > 0 {
				return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
					return highlightFlashMsg{}
				})
			}
			a.highlightedTurnIdx = -1
			a.updateViewportContent(false)
		}
		return a, nil

	case statusClearMsg:
		a.statusNote = ""
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Business-logic messages from the model package
	if handled, next, cmd := a.handleModelMsg(msg); handled {
		if len(cmds) > 0 {
			return next, tea.Batch(append(cmds, cmd)...)
		}
		return next, cmd
	}

	// Forward everything else to the focused components
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handleKey routes key presses by modal priority
func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always-global: quit
	if msg.String() == "alt+q" {
		a.dataModel.Quitting = true
		a.dataModel.CancelStream()
		saveCmd := a.dataModel.AutoSaveSession()
		wsCmd := a.dataModel.PersistWorkspace()
		return a, tea.Sequence(tea.Batch(saveCmd, wsCmd), tea.Quit)
	}

	// Help toggles over everything
	if msg.String() == "alt+h" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		if msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil
	}

	if a.showPassphraseModal {
		return a.handlePassphraseKeys(msg)
	}

	if a.showInfoModal {
		switch msg.String() {
		case "enter", "esc":
			a.showInfoModal = false
		}
		return a, nil
	}

	if a.showEditModal {
		return a.handleEditModalKeys(msg)
	}

	if a.showHistoryModal {
		return a.handleHistoryModalKeys(msg)
	}

	if a.showModelSelector {
		return a.handleModelSelectorKeys(msg)
	}

	if a.showSessionManager {
		return a.handleSessionManagerKeys(msg)
	}

	if a.showGlobalSearch {
		return a.handleGlobalSearchKeys(msg)
	}

	if a.showMessageSearch {
		return a.handleMessageSearchKeys(msg)
	}

	if a.showMemoryPanel && a.memoryPanel.focused {
		return a.handleMemoryPanelKeys(msg)
	}

	if a.selectionMode {
		return a.handleSelectionKeys(msg)
	}

	return a.handleChatKeys(msg)
}

// handleChatKeys handles the main chat screen
func (a AppView) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	if a.showLookupPanel {
		if handled, cmd := a.handleLookupPanelKeys(msg); handled {
			return a, cmd
		}
	}

	switch msg.String() {
	case "enter":
		return a.sendMessage()

	case "alt+n":
		a.closeAllModals()
		a.dataModel.ResetConversation()
		a.textarea.Reset()
		a.updateViewportContent(true)
		return a, nil

	case "alt+s":
		a.closeAllModals()
		a.showSessionManager = true
		a.selectedSessionIdx = 0
		return a, a.dataModel.FetchSessionList()

	case "alt+m":
		a.closeAllModals()
		a.showModelSelector = true
		a.selectedModelIdx = 0
		if a.modelListCached {
			return a, nil
		}
		return a, a.dataModel.FetchModels()

	case "alt+f":
		a.closeAllModals()
		a.showMessageSearch = true
		a.messageSearch.Reset()
		return a, a.messageSearch.Focus()

	case "alt+g":
		a.closeAllModals()
		a.showGlobalSearch = true
		a.globalSearchInput.SetValue("")
		a.globalSearchResults = nil
		a.selectedGlobalIdx = 0
		a.globalSearchScrollIdx = 0
		return a, a.globalSearchInput.Focus()

	case "alt+v":
		if len(a.dataModel.Turns) == 0 {
			return a, nil
		}
		a.selectionMode = true
		a.selectedTurnIdx = len(a.dataModel.Turns) - 1
		a.textarea.Blur()
		a.updateViewportContent(false)
		a.scrollToTurn(a.selectedTurnIdx)
		return a, nil

	case "alt+p":
		return a.toggleMemoryPanel()

	case "alt+c":
		return a.continueTruncatedReply()

	case "alt+y":
		return a.copyLastReply()

	case "alt+=", "alt++":
		return a.adjustFontScale(10)

	case "alt+-":
		return a.adjustFontScale(-10)

	case "esc":
		if a.dataModel.Stream.Active() {
			return a.cancelStreaming()
		}
		if a.showLookupPanel {
			a.showLookupPanel = false
			return a, nil
		}
		if a.showMemoryPanel {
			a.showMemoryPanel = false
			return a, a.dataModel.PersistWorkspace()
		}
		return a, nil

	case "pgup":
		a.viewport.HalfViewUp()
		return a, nil

	case "pgdown":
		a.viewport.HalfViewDown()
		return a, nil
	}

	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// handlePassphraseKeys unlocks the encrypted credential store
func (a AppView) handlePassphraseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		a.showPassphraseModal = false
		a.passphraseInput.SetValue("")
		a.passphraseInput.Blur()
		a.passphraseError = ""
		return a, nil

	case "enter":
		passphrase := a.passphraseInput.Value()
		if passphrase == "" {
			a.passphraseError = "Passphrase cannot be empty"
			return a, nil
		}

		store := a.dataModel.Config.CredentialStore
		store.SetPassphrase(passphrase)
		if err := store.Load(a.dataModel.Config.DataDir()); err != nil {
			a.passphraseError = "Incorrect passphrase"
			a.passphraseInput.SetValue("")
			return a, nil
		}

		a.showPassphraseModal = false
		a.passphraseInput.SetValue("")
		a.passphraseInput.Blur()
		a.passphraseError = ""
		return a, a.refreshProviders()
	}

	a.passphraseInput, cmd = a.passphraseInput.Update(msg)
	return a, cmd
}

// refreshProviders rebuilds providers after credentials changed
func (a *AppView) refreshProviders() tea.Cmd {
	m := a.dataModel
	m.Providers = rebuildProviders(m.Config)
	if p, ok := m.Providers[m.Config.DefaultProvider]; ok && p != nil {
		m.Provider = p
	}
	a.modelListCached = false
	if m.Provider == nil {
		return nil
	}
	return m.FetchModels()
}

func rebuildProviders(cfg *config.Config) map[string]appmodel.Provider {
	return provider.InitializeProviders(cfg)
}
