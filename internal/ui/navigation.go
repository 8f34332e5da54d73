package ui

import (
	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if keyMsg.String() == "ctrl+x" {
		m.dismissToast()
		return nil
	}
	if m.sessions.Mode() == sessions.ModeDetail {
		return m.handleHistoryKey(keyMsg)
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up", "ctrl+p":
		m.moveCursor(m.list.MoveCursorUp)
	case "down", "ctrl+n":
		m.moveCursor(m.list.MoveCursorDown)
	case "pgup":
		m.moveCursor(func() bool { return m.list.MoveCursorPageUp(m.maxVisibleItems()) })
	case "pgdown":
		m.moveCursor(func() bool { return m.list.MoveCursorPageDown(m.maxVisibleItems()) })
	case "home":
		m.moveCursor(m.list.MoveCursorHome)
	case "end":
		m.moveCursor(m.list.MoveCursorEnd)
	}
	return nil
}

// handleEscapeKey clears an active filter first and quits otherwise.
func (m *Model) handleEscapeKey() tea.Cmd {
	if m.list.Filter != "" {
		before := m.list.FilterCursorPos()
		m.list.ClearFilter()
		m.noteFilterCursorChange(before)
		events.Filter.Cleared(listID)
		m.syncViewport()
		return nil
	}
	return tea.Quit
}

func (m *Model) handleEnterKey() tea.Cmd {
	item, ok := m.list.Current()
	if !ok {
		return nil
	}
	events.UI.ListEnter(item.ID, item.Label, m.list.Filter)
	m.errMsg = ""
	m.forceClearInfo()
	cmd := m.sessions.Select(item.ID)
	m.historyKey = ""
	m.history.SetContent("")
	m.resizeHistory()
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *Model) moveCursor(move func() bool) {
	if move() {
		events.UI.ListCursor(listID, m.list.Cursor)
	}
	m.syncViewport()
}

func (m *Model) syncViewport() {
	m.list.EnsureCursorVisible(m.maxVisibleItems())
}
