package ui

import (
	"strings"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/toast"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

type toastTickMsg struct {
	at time.Time
}

// toastTick schedules the next expiry check. Tests replace it to keep the
// harness from sleeping.
var toastTick = func(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return toastTickMsg{at: t} })
}

func (m *Model) scheduleToastTick() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	next, ok := m.toasts.NextExpiry()
	if !ok {
		return nil
	}
	wait := time.Until(next)
	if wait < 10*time.Millisecond {
		wait = 10 * time.Millisecond
	}
	cmd := toastTick(wait)
	if cmd == nil {
		return nil
	}
	m.toastTicking = true
	return cmd
}

func (m *Model) handleToastTickMsg(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(toastTickMsg); !ok {
		return nil
	}
	m.toastTicking = false
	m.toasts.Prune()
	return nil
}

func (m *Model) dismissToast() bool {
	return m.toasts.DismissLatest()
}

// toastLines renders active toasts newest last. Each toast takes one line
// plus one for its traceback when verbose output is enabled.
func (m *Model) toastLines() []string {
	active := m.toasts.Active()
	if len(active) == 0 {
		return nil
	}
	lines := make([]string, 0, len(active)*2)
	for _, t := range active {
		style := styles.ToastInfo
		switch t.Level {
		case toast.LevelError:
			style = styles.ToastError
		case toast.LevelSuccess:
			style = styles.ToastSuccess
		}
		text := t.Title
		if t.Msg != "" {
			text += " " + t.Msg
		}
		if m.width > 2 {
			text = ansi.Truncate(text, m.width-2, "…")
		}
		if style != nil {
			text = style.Render(text)
		}
		lines = append(lines, text)
		if m.verbose && t.Traceback != "" {
			trace := strings.ReplaceAll(t.Traceback, "\n", " ")
			if m.width > 4 {
				trace = ansi.Truncate(trace, m.width-4, "…")
			}
			if styles.ToastTraceback != nil {
				trace = styles.ToastTraceback.Render(trace)
			}
			lines = append(lines, trace)
		}
	}
	return lines
}
