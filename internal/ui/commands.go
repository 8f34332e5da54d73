package ui

import (
	"github.com/atomicstack/tmux-session-browser/internal/ui/command"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	tea "github.com/charmbracelet/bubbletea"
)

const resumeFailedTitle = "Failed to open a window for this session."

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		if result.ID == sessions.ResumeActionID {
			m.toasts.Error(resumeFailedTitle, "Check that tmux is running.", result.Err.Error())
		}
		return nil
	}
	m.errMsg = ""
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	return nil
}
