package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModal is a minimal standalone program model for fatal startup errors
// (misconfigured environment, unusable data directory). Any key exits.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{title: title, message: message, width: 80, height: 24}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m ErrorModal) View() string {
	footer := FormatFooter("any key", "Exit")
	return renderModalBox(m.title, m.message, footer, 64, m.width, m.height)
}
