package ui

import (
	"unicode"

	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(before int) {
	if before != m.list.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// handleTextInput edits the list filter. It reports whether the key was
// consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	list := m.list
	before := list.FilterCursorPos()
	switch msg.String() {
	case "ctrl+u":
		if !list.ClearFilter() {
			return false
		}
		events.Filter.Cleared(listID)
		return m.filterEdited(before)
	case "ctrl+w":
		if !list.DeleteFilterWordBackward() {
			return false
		}
		events.Filter.WordBackspace(listID, list.Filter)
		return m.filterEdited(before)
	case "ctrl+a":
		return m.filterMoved(list.MoveFilterCursorStart(), before, false)
	case "ctrl+e":
		return m.filterMoved(list.MoveFilterCursorEnd(), before, false)
	case "alt+b":
		return m.filterMoved(list.MoveFilterCursorWordBackward(), before, true)
	case "alt+f":
		return m.filterMoved(list.MoveFilterCursorWordForward(), before, true)
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if !list.DeleteFilterRuneBackward() {
			return false
		}
		events.Filter.Backspace(listID, list.Filter)
		return m.filterEdited(before)
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft:
		return m.filterMoved(list.MoveFilterCursorRuneBackward(), before, false)
	case tea.KeyRight:
		return m.filterMoved(list.MoveFilterCursorRuneForward(), before, false)
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	before := m.list.FilterCursorPos()
	if !m.list.InsertFilterText(text) {
		return false
	}
	events.Filter.Append(listID, m.list.Filter)
	return m.filterEdited(before)
}

func (m *Model) filterEdited(before int) bool {
	m.noteFilterCursorChange(before)
	m.forceClearInfo()
	m.errMsg = ""
	m.syncViewport()
	return true
}

func (m *Model) filterMoved(moved bool, before int, word bool) bool {
	if !moved {
		return false
	}
	m.noteFilterCursorChange(before)
	if word {
		events.Filter.CursorWord(listID, m.list.FilterCursor)
	} else {
		events.Filter.Cursor(listID, m.list.FilterCursor)
	}
	return true
}

func (m *Model) filterPrompt() string {
	current := m.list
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = *styles.Filter
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := current.Filter
	if text == "" {
		placeholder := "(type to filter sessions)"
		runes := []rune(placeholder)
		var caretRune string
		var rest string
		if len(runes) > 0 {
			caretRune = string(runes[0])
			rest = string(runes[1:])
		}
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = *styles.FilterPlaceholder
		}
		caret := m.renderFilterCursor(caretRune)
		return prompt + caret + render(styles.FilterPlaceholder, rest)
	}
	runes := []rune(text)
	pos := current.FilterCursorPos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + m.renderFilterCursor(caretRune) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
