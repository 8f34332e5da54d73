package ui

import (
	"strings"
	"testing"

	uistate "github.com/atomicstack/tmux-session-browser/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleTextInputAppendsRunes(t *testing.T) {
	m := NewModel(Options{})
	m.list.SetItems([]uistate.Item{{ID: "one", Label: "one"}})
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")}) {
		t.Fatalf("expected key press to be handled")
	}
	if m.list.Filter != "abc" {
		t.Fatalf("expected filter 'abc', got %q", m.list.Filter)
	}
	if pos := m.list.FilterCursorPos(); pos != 3 {
		t.Fatalf("expected cursor at end, got %d", pos)
	}
	if !m.filterCursorDirty {
		t.Fatalf("expected caret blink reset to be scheduled")
	}
}

func TestHandleTextInputCursorMovement(t *testing.T) {
	m := NewModel(Options{})
	m.list.SetFilter("abc def", 7)

	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyLeft}) || m.list.FilterCursorPos() != 6 {
		t.Fatalf("expected cursor at 6 after left, got %d", m.list.FilterCursorPos())
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRight}) || m.list.FilterCursorPos() != 7 {
		t.Fatalf("expected cursor back at 7, got %d", m.list.FilterCursorPos())
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlA}) || m.list.FilterCursorPos() != 0 {
		t.Fatalf("expected cursor at start, got %d", m.list.FilterCursorPos())
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f"), Alt: true}) || m.list.FilterCursorPos() != 4 {
		t.Fatalf("expected alt+f to jump a word, got %d", m.list.FilterCursorPos())
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlE}) || m.list.FilterCursorPos() != 7 {
		t.Fatalf("expected cursor at end, got %d", m.list.FilterCursorPos())
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlW}) || m.list.Filter != "abc " {
		t.Fatalf("expected word deleted, got %q", m.list.Filter)
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyBackspace}) || m.list.Filter != "abc" {
		t.Fatalf("expected rune deleted, got %q", m.list.Filter)
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeySpace}) || m.list.Filter != "abc " {
		t.Fatalf("expected space appended, got %q", m.list.Filter)
	}
	if !m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU}) || m.list.Filter != "" {
		t.Fatalf("expected filter cleared, got %q", m.list.Filter)
	}
	if m.handleTextInput(tea.KeyMsg{Type: tea.KeyCtrlU}) {
		t.Fatalf("expected clearing an empty filter to be ignored")
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	m := NewModel(Options{})
	prompt := m.filterPrompt()
	if !strings.Contains(prompt, "ype to filter sessions") {
		t.Fatalf("expected placeholder in prompt, got %q", prompt)
	}
	m.list.SetFilter("api", 3)
	if prompt := m.filterPrompt(); !strings.Contains(prompt, "api") {
		t.Fatalf("expected filter text in prompt, got %q", prompt)
	}
}
