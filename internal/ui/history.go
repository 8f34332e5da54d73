package ui

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/atomicstack/tmux-session-browser/internal/logging"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/dustin/go-humanize"
)

const (
	historyHeaderRows = 3
	historyWrapMin    = 20
	historyStyle      = "dark"
)

// renderMarkdown turns the history document into terminal output. Tests
// replace it to avoid depending on glamour's styling.
var renderMarkdown = func(doc string, width int) (string, error) {
	if width < historyWrapMin {
		width = historyWrapMin
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(historyStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(doc)
}

func (m *Model) handleSessionLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(sessions.LoadedMsg)
	if !ok {
		return nil
	}
	if !m.sessions.HandleLoaded(loaded) {
		return nil
	}
	m.historyKey = ""
	m.refreshHistory()
	m.history.GotoTop()
	return nil
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || !m.sessions.Loading() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}

func (m *Model) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "backspace":
		m.sessions.Back()
		m.historyKey = ""
		m.history.SetContent("")
		m.errMsg = ""
		m.forceClearInfo()
		m.syncViewport()
		return nil
	case "r":
		if m.sessions.Loading() {
			return nil
		}
		cmd := m.sessions.Retry()
		if cmd == nil {
			return nil
		}
		m.errMsg = ""
		return tea.Batch(cmd, m.spinner.Tick)
	case "enter", "ctrl+o":
		if m.sessions.Loading() {
			return nil
		}
		return m.sessions.Resume()
	}
	if m.sessions.Loading() {
		return nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return cmd
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok || m.sessions.Mode() != sessions.ModeDetail {
		return nil
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(mouse)
	return cmd
}

// resizeHistory fits the viewport between the header and the bottom bar.
func (m *Model) resizeHistory() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height - historyHeaderRows - m.bottomRows()
	if m.showFooter {
		height--
	}
	if m.height <= 0 {
		height = 20
	}
	if height < 1 {
		height = 1
	}
	m.history.Width = width
	m.history.Height = height
}

// refreshHistory re-renders the selected session when it or the width changed.
func (m *Model) refreshHistory() {
	details, ok := m.sessions.Selected()
	if !ok {
		return
	}
	key := fmt.Sprintf("%s@%d", details.ID, m.history.Width)
	if key == m.historyKey {
		return
	}
	doc := historyMarkdown(details)
	out, err := renderMarkdown(doc, m.history.Width-2)
	if err != nil {
		logging.Error(fmt.Errorf("render history for %s: %w", details.ID, err))
		out = doc
	}
	m.history.SetContent(strings.TrimRight(out, "\n"))
	m.historyKey = key
}

func historyMarkdown(details session.Details) string {
	if len(details.Messages) == 0 {
		return "_No messages in this session._\n"
	}
	var b strings.Builder
	for i, msg := range details.Messages {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		role := roleTitle(msg.Role)
		fmt.Fprintf(&b, "### %s", role)
		if !msg.Created.IsZero() {
			fmt.Fprintf(&b, " · %s", humanize.Time(msg.Created))
		}
		b.WriteString("\n\n")
		for _, item := range msg.Content {
			switch item.Kind {
			case session.ContentText:
				if text := strings.TrimSpace(item.Text); text != "" {
					b.WriteString(text)
					b.WriteString("\n\n")
				}
			case session.ContentToolRequest:
				name := item.Tool
				if name == "" {
					name = "tool"
				}
				fmt.Fprintf(&b, "> calling `%s`\n\n", name)
			case session.ContentToolResponse:
				fmt.Fprintf(&b, "> tool response `%s`\n\n", session.ShortID(item.ToolID))
			default:
				fmt.Fprintf(&b, "> _%s_\n\n", item.Kind)
			}
		}
	}
	return b.String()
}

func historyHeader(details session.Details) []string {
	title := strings.TrimSpace(details.Metadata.Description)
	if title == "" {
		title = details.ID
	}
	dir := details.Metadata.WorkingDir
	if dir == "" {
		dir = "(no working directory)"
	}
	meta := []string{
		session.ShortID(details.ID),
		fmt.Sprintf("%d messages", len(details.Messages)),
	}
	if tokens := details.Metadata.TotalTokens; tokens != nil {
		meta = append(meta, fmt.Sprintf("%s tokens", humanize.Comma(int64(*tokens))))
	}
	return []string{title, dir, strings.Join(meta, " · ")}
}

// roleTitle upper-cases the first rune of a message role.
func roleTitle(role session.Role) string {
	if role == "" {
		return "Unknown"
	}
	r, size := utf8.DecodeRuneInString(string(role))
	return string(unicode.ToUpper(r)) + string(role[size:])
}
