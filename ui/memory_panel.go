package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pecha/storage"
)

// MemoryPanelState is the floating project-memory panel: pinned key/value
// facts that travel with the workspace and are appended to the system prompt.
type MemoryPanelState struct {
	focused     bool
	selectedIdx int

	editing    bool
	keyInput   textinput.Model
	valueInput textinput.Model
	valueFocus bool // editing focus is on the value input
}

func NewMemoryPanelState() MemoryPanelState {
	keyInput := textinput.New()
	keyInput.Prompt = "Key: "
	keyInput.CharLimit = 64

	valueInput := textinput.New()
	valueInput.Prompt = "Value: "
	valueInput.CharLimit = 400

	return MemoryPanelState{
		keyInput:   keyInput,
		valueInput: valueInput,
	}
}

// toggleMemoryPanel shows or hides the memory panel. Showing it also takes
// key focus so the panel can be driven immediately.
func (a AppView) toggleMemoryPanel() (tea.Model, tea.Cmd) {
	if a.showMemoryPanel {
		a.showMemoryPanel = false
		a.memoryPanel.focused = false
		a.memoryPanel.editing = false
		a.textarea.Focus()
		return a, a.dataModel.PersistWorkspace()
	}

	a.showMemoryPanel = true
	a.memoryPanel.focused = true
	a.memoryPanel.selectedIdx = 0
	a.textarea.Blur()
	return a, nil
}

// memoryPanelGeometry returns the panel placement, defaulting to the top
// right of the transcript.
func (a AppView) memoryPanelGeometry() (x, y, w, h int) {
	g, ok := a.dataModel.Workspace.Panels[storage.PanelMemory]
	if !ok || g.Width == 0 {
		w = min(44, a.width-4)
		h = 12
		x = a.width - w - 2
		y = 1
	} else {
		x, y, w, h = g.X, g.Y, g.Width, g.Height
	}
	return clampPanelGeometry(x, y, w, h, a.width, a.height-6)
}

func (a *AppView) saveMemoryPanelGeometry(x, y, w, h int) {
	a.dataModel.Workspace.Panels[storage.PanelMemory] = storage.PanelGeometry{
		X: x, Y: y, Width: w, Height: h, Open: a.showMemoryPanel,
	}
}

// handleMemoryPanelKeys drives the memory panel while it holds key focus
func (a AppView) handleMemoryPanelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	p := &a.memoryPanel

	if p.editing {
		switch msg.String() {
		case "esc":
			p.editing = false
			p.keyInput.Blur()
			p.valueInput.Blur()
			return a, nil

		case "tab":
			p.valueFocus = !p.valueFocus
			if p.valueFocus {
				p.keyInput.Blur()
				return a, p.valueInput.Focus()
			}
			p.valueInput.Blur()
			return a, p.keyInput.Focus()

		case "enter":
			key := strings.TrimSpace(p.keyInput.Value())
			value := p.valueInput.Value()
			p.editing = false
			p.keyInput.Blur()
			p.valueInput.Blur()
			if !a.dataModel.SetMemory(key, value) {
				return a, nil
			}
			return a, a.dataModel.PersistWorkspace()
		}

		if p.valueFocus {
			p.valueInput, cmd = p.valueInput.Update(msg)
		} else {
			p.keyInput, cmd = p.keyInput.Update(msg)
		}
		return a, cmd
	}

	keys := a.dataModel.MemoryKeys()

	// Shift+arrows resize, plain arrows move
	x, y, w, h := a.memoryPanelGeometry()
	switch msg.String() {
	case "left":
		a.saveMemoryPanelGeometry(x-2, y, w, h)
		return a, nil
	case "right":
		a.saveMemoryPanelGeometry(x+2, y, w, h)
		return a, nil
	case "up":
		a.saveMemoryPanelGeometry(x, y-1, w, h)
		return a, nil
	case "down":
		a.saveMemoryPanelGeometry(x, y+1, w, h)
		return a, nil
	case "shift+left":
		a.saveMemoryPanelGeometry(x, y, w-2, h)
		return a, nil
	case "shift+right":
		a.saveMemoryPanelGeometry(x, y, w+2, h)
		return a, nil
	case "shift+up":
		a.saveMemoryPanelGeometry(x, y, w, h-1)
		return a, nil
	case "shift+down":
		a.saveMemoryPanelGeometry(x, y, w, h+1)
		return a, nil
	}

	switch msg.String() {
	case "esc", "alt+p":
		a.showMemoryPanel = false
		p.focused = false
		a.textarea.Focus()
		return a, a.dataModel.PersistWorkspace()

	case "j":
		if p.selectedIdx < len(keys)-1 {
			p.selectedIdx++
		}
		return a, nil

	case "k":
		if p.selectedIdx > 0 {
			p.selectedIdx--
		}
		return a, nil

	case "a":
		p.editing = true
		p.valueFocus = false
		p.keyInput.SetValue("")
		p.valueInput.SetValue("")
		return a, p.keyInput.Focus()

	case "e", "enter":
		if p.selectedIdx >= len(keys) {
			return a, nil
		}
		key := keys[p.selectedIdx]
		p.editing = true
		p.valueFocus = true
		p.keyInput.SetValue(key)
		p.valueInput.SetValue(a.dataModel.Workspace.Memory[key])
		p.valueInput.CursorEnd()
		p.keyInput.Blur()
		return a, p.valueInput.Focus()

	case "d":
		if p.selectedIdx >= len(keys) {
			return a, nil
		}
		if a.dataModel.DeleteMemory(keys[p.selectedIdx]) {
			if p.selectedIdx > 0 {
				p.selectedIdx--
			}
			return a, a.dataModel.PersistWorkspace()
		}
		return a, nil
	}

	return a, nil
}

// overlayMemoryPanel draws the memory panel over the transcript view
func (a AppView) overlayMemoryPanel(view string) string {
	x, y, w, h := a.memoryPanelGeometry()
	p := a.memoryPanel

	innerW := w - 4
	var lines []string

	title := "Memory"
	if !p.focused {
		title += DimStyle.Render(" (Alt+P to focus)")
	}
	lines = append(lines, TitleStyle.Render(title))

	if p.editing {
		lines = append(lines, p.keyInput.View(), p.valueInput.View(), "")
		lines = append(lines, HelpStyle.Render("Tab switch  Enter save  Esc cancel"))
	} else {
		keys := a.dataModel.MemoryKeys()
		if len(keys) == 0 {
			lines = append(lines, DimStyle.Render("No pinned facts. Press a to add one."))
		}
		maxRows := h - 4
		for i, key := range keys {
			if i >= maxRows {
				lines = append(lines, DimStyle.Render(fmt.Sprintf("↓ %d more", len(keys)-maxRows)))
				break
			}
			entry := fmt.Sprintf("%s: %s", key, a.dataModel.Workspace.Memory[key])
			entry = runewidth.Truncate(entry, innerW-2, "…")
			if p.focused && i == p.selectedIdx {
				lines = append(lines, SelectedStyle.Render("> "+entry))
			} else {
				lines = append(lines, "  "+entry)
			}
		}
		if p.focused {
			lines = append(lines, "", HelpStyle.Render("a add  e edit  d delete  Esc close"))
		}
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Width(w - 2).
		Height(h - 2).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return overlayAt(view, panel, x, y)
}
