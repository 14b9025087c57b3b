package ui

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"pecha/config"
	appmodel "pecha/model"
)

// Pre-compiled regex patterns
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Turns) == 0 {
		a.viewport.SetContent("No messages yet. Ask about a text to get started.")
		return
	}

	var content strings.Builder

	for i, turn := range a.dataModel.Turns {
		prefix := ""
		if a.selectionMode && i == a.selectedTurnIdx {
			prefix = SelectedStyle.Render(">>> ")
		} else if i == a.highlightedTurnIdx && a.highlightFlashCount%2 == 1 {
			prefix = HighlightStyle.Render(">>> ")
		}

		content.WriteString(a.renderTurn(turn, prefix))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderTurn formats one transcript turn: header line, body, then the
// grounding/reaction/history annotations the turn carries.
func (a *AppView) renderTurn(turn appmodel.Turn, prefix string) string {
	timestamp := DimStyle.Render(turn.Timestamp.Format("[15:04]"))

	var roleStyle = DimStyle
	var roleName string
	switch turn.Role {
	case appmodel.RoleUser:
		roleStyle = UserStyle
		roleName = "You"
	case appmodel.RoleAssistant:
		roleStyle = AssistantStyle
		roleName = "Assistant"
	default:
		roleName = "System"
	}
	role := roleStyle.Render(roleName)

	body := turn.Rendered
	if body == "" {
		body = turn.Text
	}

	if turn.IsStreaming {
		if turn.Text == "" {
			body = a.loadingSpinner.View()
		} else {
			body = turn.Text + "▋"
		}
	}

	annotations := a.renderAnnotations(turn)

	if turn.Role == appmodel.RoleUser {
		return formatUserTurn(prefix, timestamp, role, body, annotations)
	}

	out := fmt.Sprintf("%s%s %s\n%s\n", prefix, timestamp, role, body)
	if annotations != "" {
		out += annotations + "\n"
	}
	return out + "\n"
}

// renderAnnotations renders the footnote lines under a turn: citations,
// reactions, edit-history count and the truncation notice.
func (a *AppView) renderAnnotations(turn appmodel.Turn) string {
	var lines []string

	if turn.Truncated && !turn.IsStreaming {
		lines = append(lines, TruncatedStyle.Render("… reply stopped at the length budget. Press Alt+C to continue it."))
	}

	for i, cite := range turn.Grounding {
		label := cite.Title
		if label == "" {
			label = cite.URI
		} else if cite.URI != "" {
			label = fmt.Sprintf("%s <%s>", cite.Title, cite.URI)
		}
		lines = append(lines, CitationStyle.Render(fmt.Sprintf("[%d] %s", i+1, label)))
	}

	if len(turn.Reactions) > 0 {
		labels := make([]string, 0, len(turn.Reactions))
		for label := range turn.Reactions {
			labels = append(labels, label)
		}
		sort.Strings(labels)
		parts := make([]string, 0, len(labels))
		for _, label := range labels {
			count := turn.Reactions[label]
			if count > 1 {
				parts = append(parts, fmt.Sprintf("%s ×%d", label, count))
			} else {
				parts = append(parts, label)
			}
		}
		lines = append(lines, DimStyle.Render(strings.Join(parts, "  ")))
	}

	if n := len(turn.History); n > 0 {
		lines = append(lines, DimStyle.Render(fmt.Sprintf("(edited, %d earlier version(s))", n)))
	}

	return strings.Join(lines, "\n")
}

func formatUserTurn(prefix, timestamp, role, body, annotations string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, bar, timestamp, role))
	for _, line := range strings.Split(body, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	if annotations != "" {
		for _, line := range strings.Split(annotations, "\n") {
			result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
		}
	}
	result.WriteString("\n")
	return result.String()
}

// renderWidth is the markdown wrap width, adjusted by the persisted font
// scale: a larger scale narrows the column the way zoomed text would.
func (a AppView) renderWidth() int {
	w := (a.width - 4) * 100 / a.dataModel.Workspace.FontScale
	if w < 20 {
		w = 20
	}
	return w
}

func (a AppView) renderMarkdownAsync(turnIndex int, content string) tea.Cmd {
	width := a.renderWidth()
	return func() tea.Msg {
		startTime := time.Now()

		content = preprocessLinks(content)

		// go-term-markdown with autolink disabled: URLs stay plain text so
		// the terminal emulator handles detection and clickability.
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := postProcessMarkdown(string(rendered), width)

		if config.DebugLog != nil {
			config.DebugLog.Printf("Markdown rendered for turn %d in %v", turnIndex, time.Since(startTime))
		}

		return appmodel.MarkdownRenderedMsg{
			TurnIndex: turnIndex,
			Rendered:  processed,
		}
	}
}

func postProcessMarkdown(rendered string, width int) string {
	rendered = fixInlineCode(rendered)
	rendered = fixMarkdownLinks(rendered)
	rendered = frameCodeBlocks(rendered, width)
	return rendered
}

func preprocessLinks(content string) string {
	// Strip markdown link syntax [text](url) → just url
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Blue background + italic → red text
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Skip code blocks (┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	for _, line := range lines {
		if strings.Contains(line, "┃") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLines = []string{}
				result = append(result, "")

				label := "[code]"
				lineLen := width - 4
				leftLen := (lineLen - len(label)) / 2
				rightLen := lineLen - len(label) - leftLen
				if leftLen < 0 || rightLen < 0 {
					leftLen, rightLen = 0, 0
				}
				border := darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset
				result = append(result, border, "")
			}
			codeBlockLines = append(codeBlockLines, stripCodeBlockPrefix(line))
		} else {
			if inCodeBlock {
				result = append(result, codeBlockLines...)
				result = append(result, "")
				border := darkGray + strings.Repeat("━", max(width-4, 0)) + reset
				result = append(result, border, "")
				codeBlockLines = nil
				inCodeBlock = false
			}
			result = append(result, line)
		}
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		result = append(result, codeBlockLines...)
		result = append(result, "")
		border := darkGray + strings.Repeat("━", max(width-4, 0)) + reset
		result = append(result, border, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, "┃")
	if idx >= 0 {
		after := idx + len("┃")
		if after < len(line) && line[after] == ' ' {
			after++
		}
		if after < len(line) {
			return line[after:]
		}
		return ""
	}
	return line
}

// jumpToTurn scrolls the viewport so that the given turn is visible and
// flashes its marker a few times.
func (a AppView) jumpToTurn(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(a.dataModel.Turns) {
		return a, nil
	}
	a.highlightedTurnIdx = idx
	a.highlightFlashCount = 5
	a.updateViewportContent(false)
	a.scrollToTurn(idx)
	return a, tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return highlightFlashMsg{}
	})
}

// scrollToTurn positions the viewport at the rendered line offset of a turn
func (a *AppView) scrollToTurn(idx int) {
	lines := 0
	for i := 0; i < idx && i < len(a.dataModel.Turns); i++ {
		body := a.dataModel.Turns[i].Rendered
		if body == "" {
			body = a.dataModel.Turns[i].Text
		}
		lines += strings.Count(body, "\n") + 3
	}
	a.viewport.SetYOffset(lines)
}
