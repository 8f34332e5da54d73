package command

import (
	"fmt"

	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Action performs a side effect and returns a short description on success.
type Action func() (string, error)

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler Action
}

// Result reports the outcome of a request back to the UI.
type Result struct {
	ID    string
	Label string
	Info  string
	Err   error
}

// Bus coordinates the execution of host actions.
type Bus struct{}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Execute wraps an action into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		info, err := req.Handler()
		res := Result{ID: req.ID, Label: req.Label, Info: info, Err: err}
		if err != nil {
			events.Action.Error(err)
		} else {
			events.Action.Success(info)
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", res))
		return res
	}
}
