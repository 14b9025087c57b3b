package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pecha/config"
	appmodel "pecha/model"
	"pecha/provider"
	"pecha/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	showHelp bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Model selector
	showModelSelector bool
	modelList         []appmodel.ModelInfo
	selectedModelIdx  int
	modelListCached   bool
	modelFilterMode   bool
	modelFilterInput  textinput.Model
	filteredModelList []appmodel.ModelInfo

	// Session management UI
	showSessionManager   bool
	sessionList          []storage.SessionMetadata
	selectedSessionIdx   int
	sessionRenameMode    bool
	sessionRenameInput   textinput.Model
	sessionFilterMode    bool
	sessionFilterInput   textinput.Model
	filteredSessionList  []storage.SessionMetadata
	sessionExportMode    bool
	sessionExportInput   textinput.Model
	sessionImportMode    bool
	sessionImportInput   textinput.Model
	sessionExportSuccess string
	confirmDeleteSession *storage.SessionMetadata

	// In-conversation search
	showMessageSearch bool
	messageSearch     MessageSearchState

	// Cross-session search
	showGlobalSearch      bool
	globalSearchInput     textinput.Model
	globalSearchResults   []storage.ArchiveMatch
	selectedGlobalIdx     int
	globalSearchScrollIdx int

	// Turn selection mode: navigate the transcript for per-turn actions
	// (edit, react, copy, speak, explain, translate, view history)
	selectionMode   bool
	selectedTurnIdx int

	// Edit modal for a selected user turn
	showEditModal  bool
	editInput      textarea.Model
	editTurnIdx    int
	editHistoryIdx int // -1 = live draft, otherwise index into History
	editDraft      string

	// History viewer for a selected turn
	showHistoryModal bool
	historyTurnIdx   int
	historyIdx       int

	// Project memory panel
	showMemoryPanel bool
	memoryPanel     MemoryPanelState

	// Lookup/translate panel
	showLookupPanel bool
	lookupPanel     LookupPanelState

	// Credential passphrase modal
	showPassphraseModal bool
	passphraseInput     textinput.Model
	passphraseError     string

	// Info modal (simple notifications/errors)
	showInfoModal  bool
	infoModalTitle string
	infoModalMsg   string

	// Transient note in the status bar (speech file path, copy confirmation)
	statusNote string

	highlightedTurnIdx     int
	highlightFlashCount    int
	pendingScrollToTurnIdx int
}

func NewAppView(cfg *config.Config, sessionStorage *storage.SessionStorage, archive *storage.Archive, lastSession *storage.Session, version string) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about the text, or paste a passage to discuss..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, Enter alone sends (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	sessionFilterInput := textinput.New()
	sessionFilterInput.Prompt = "Filter: "
	sessionFilterInput.CharLimit = 64

	sessionRenameInput := textinput.New()
	sessionRenameInput.Prompt = "Name: "
	sessionRenameInput.CharLimit = 64

	sessionExportInput := textinput.New()
	sessionExportInput.Prompt = "Export to: "
	sessionExportInput.CharLimit = 200

	sessionImportInput := textinput.New()
	sessionImportInput.Prompt = "Import from: "
	sessionImportInput.CharLimit = 200

	modelFilterInput := textinput.New()
	modelFilterInput.Prompt = "Filter: "
	modelFilterInput.CharLimit = 64

	globalSearchInput := textinput.New()
	globalSearchInput.Prompt = "Search all: "
	globalSearchInput.CharLimit = 100

	passphraseInput := textinput.New()
	passphraseInput.Prompt = "Passphrase: "
	passphraseInput.EchoMode = textinput.EchoPassword
	passphraseInput.CharLimit = 128

	editInput := textarea.New()
	editInput.CharLimit = 0
	editInput.ShowLineNumbers = false
	editInput.SetHeight(5)
	editInput.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Initialize ALL providers via provider package; the UI holds zero
	// provider lifecycle logic.
	allProviders := provider.InitializeProviders(cfg)

	// Priority: session's provider, then configured default, then any.
	sessionProvider := cfg.DefaultProvider
	if lastSession != nil && lastSession.Provider != "" {
		sessionProvider = lastSession.Provider
	}

	initialProvider := allProviders[sessionProvider]
	if initialProvider == nil {
		initialProvider = allProviders[cfg.DefaultProvider]
	}
	if initialProvider == nil {
		for _, p := range allProviders {
			initialProvider = p
			break
		}
	}

	dataModel := appmodel.NewModel(cfg, initialProvider, sessionStorage, archive, lastSession, version)
	dataModel.Providers = allProviders
	if initialProvider != nil && lastSession != nil && lastSession.Model != "" {
		initialProvider.SetModel(lastSession.Model)
	}

	// Encrypted credentials prompt for the passphrase up front; keyed
	// providers stay unauthenticated until the store is unlocked.
	promptPassphrase := cfg.CredentialStore != nil && cfg.CredentialStore.NeedsPassphrase(cfg.DataDir())
	if promptPassphrase {
		passphraseInput.Focus()
	}

	return AppView{
		dataModel:              dataModel,
		textarea:               ta,
		viewport:               vp,
		loadingSpinner:         sp,
		sessionRenameInput:     sessionRenameInput,
		sessionFilterInput:     sessionFilterInput,
		sessionExportInput:     sessionExportInput,
		sessionImportInput:     sessionImportInput,
		filteredSessionList:    []storage.SessionMetadata{},
		modelFilterInput:       modelFilterInput,
		filteredModelList:      []appmodel.ModelInfo{},
		globalSearchInput:      globalSearchInput,
		passphraseInput:        passphraseInput,
		showPassphraseModal:    promptPassphrase,
		editInput:              editInput,
		messageSearch:          NewMessageSearchState(),
		memoryPanel:            NewMemoryPanelState(),
		lookupPanel:            LookupPanelState{},
		highlightedTurnIdx:     -1,
		pendingScrollToTurnIdx: -1,
		editHistoryIdx:         -1,
	}
}

func (a AppView) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
	}
	if a.dataModel.Provider != nil {
		cmds = append(cmds, a.dataModel.FetchModels())
	}
	return tea.Batch(cmds...)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading pecha..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Help (can peek over everything)
	// 2. Passphrase / info modals
	// 3. Edit / history modals
	// 4. Model selector, session manager
	// 5. Search modals
	// Panels (memory, lookup) overlay the chat, not the modals.

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showPassphraseModal {
		return renderPassphraseModal(a.passphraseInput, a.passphraseError, a.width, a.height)
	}

	if a.showInfoModal {
		return renderInfoModal(a.infoModalTitle, a.infoModalMsg, a.width, a.height)
	}

	if a.showEditModal {
		return a.renderEditModal()
	}

	if a.showHistoryModal {
		return a.renderHistoryModal()
	}

	if a.showModelSelector {
		multiProvider := len(a.dataModel.Providers) > 1
		return renderModelSelector(a.getModelList(), a.selectedModelIdx, a.currentModelName(), a.modelFilterMode, a.modelFilterInput, multiProvider, a.width, a.height)
	}

	if a.showSessionManager {
		return a.renderSessionManager()
	}

	if a.showGlobalSearch {
		return renderGlobalSearch(a.globalSearchInput, a.globalSearchResults, a.selectedGlobalIdx, a.globalSearchScrollIdx, a.width, a.height)
	}

	if a.showMessageSearch {
		return a.renderMessageSearch()
	}

	return a.renderChat()
}

// renderChat assembles the main screen: title, transcript viewport, optional
// side panels, input area and status bar.
func (a AppView) renderChat() string {
	pechaText := AssistantStyle.Render("pecha")
	modelText := TitleStyle.Render(fmt.Sprintf(" - %s", a.currentModelName()))
	sessionName := "New Session"
	if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.Name != "" {
		sessionName = a.dataModel.CurrentSession.Name
	}
	sessionText := UserStyle.Render(fmt.Sprintf(" - %s", sessionName))

	scaleText := ""
	if a.dataModel.Workspace.FontScale != 100 {
		scaleText = DimStyle.Render(fmt.Sprintf(" | %d%%", a.dataModel.Workspace.FontScale))
	}

	title := pechaText + modelText + sessionText + scaleText

	viewportView := a.viewport.View()

	if a.showMemoryPanel {
		viewportView = a.overlayMemoryPanel(viewportView)
	}
	if a.showLookupPanel {
		viewportView = a.overlayLookupPanel(viewportView)
	}

	inputView := a.textarea.View()

	statusBar := a.renderStatusBar()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		viewportView,
		inputView,
		statusBar,
	)
}

func (a AppView) renderStatusBar() string {
	if a.statusNote != "" {
		return StatusStyle.Render(a.statusNote)
	}

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	if a.selectionMode {
		bar := fmt.Sprintf("j/k %s  e %s  r %s  h %s  y %s  s %s  x %s  t %s  Esc %s",
			descStyle.Render("Navigate"),
			descStyle.Render("Edit"),
			descStyle.Render("React"),
			descStyle.Render("History"),
			descStyle.Render("Copy"),
			descStyle.Render("Speak"),
			descStyle.Render("Explain"),
			descStyle.Render("Translate"),
			descStyle.Render("Exit"),
		)
		return StatusStyle.Render(bar)
	}

	bar := fmt.Sprintf("Alt+Q %s  Alt+S %s  Alt+M %s  Alt+F %s  Alt+G %s  Alt+V %s  Alt+P %s  Enter %s  Alt+H %s",
		descStyle.Render("Quit"),
		descStyle.Render("Sessions"),
		descStyle.Render("Models"),
		descStyle.Render("Search"),
		descStyle.Render("Search all"),
		descStyle.Render("Select turn"),
		descStyle.Render("Memory"),
		descStyle.Render("Send"),
		descStyle.Render("Help"),
	)
	return StatusStyle.Render(bar)
}

func (a AppView) currentModelName() string {
	if a.dataModel.Provider == nil {
		return "no provider"
	}
	return a.dataModel.Provider.GetDisplayName()
}

func (a AppView) getSessionList() []storage.SessionMetadata {
	if a.sessionFilterMode && a.sessionFilterInput.Value() != "" {
		return a.filteredSessionList
	}
	return a.sessionList
}

func (a AppView) getModelList() []appmodel.ModelInfo {
	if a.modelFilterMode && a.modelFilterInput.Value() != "" {
		return a.filteredModelList
	}
	return a.modelList
}

func (a *AppView) closeAllModals() {
	a.showInfoModal = false
	a.showHelp = false
	a.showSessionManager = false
	a.showModelSelector = false
	a.showMessageSearch = false
	a.showGlobalSearch = false
	a.showEditModal = false
	a.showHistoryModal = false
	a.showPassphraseModal = false

	a.sessionRenameMode = false
	a.sessionExportMode = false
	a.sessionImportMode = false
	a.sessionFilterMode = false
	a.confirmDeleteSession = nil
	a.modelFilterMode = false
	a.selectionMode = false

	for _, input := range []*textinput.Model{
		&a.sessionRenameInput, &a.sessionExportInput, &a.sessionImportInput,
		&a.sessionFilterInput, &a.modelFilterInput, &a.globalSearchInput,
		&a.passphraseInput,
	} {
		if input.Focused() {
			input.Blur()
		}
	}
	a.messageSearch.Blur()
	if a.editInput.Focused() {
		a.editInput.Blur()
	}
}
