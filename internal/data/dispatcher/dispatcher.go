package dispatcher

import (
	"github.com/atomicstack/tmux-session-browser/internal/backend"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/state"
)

type Result struct {
	SessionsUpdated bool
	Err             error
}

// Dispatcher applies backend events to the session store.
type Dispatcher struct {
	sessions state.SessionStore
}

func New(s state.SessionStore) *Dispatcher {
	return &Dispatcher{sessions: s}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		d.sessions.SetLastError(evt.Err)
		res.Err = evt.Err
		return res
	}
	switch evt.Kind {
	case backend.KindSessions:
		if summaries, ok := evt.Data.([]session.Summary); ok {
			d.sessions.SetEntries(summaries)
			res.SessionsUpdated = true
		} else if evt.Data == nil {
			d.sessions.SetEntries(nil)
			res.SessionsUpdated = true
		}
	}
	return res
}
