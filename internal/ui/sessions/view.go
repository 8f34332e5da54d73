// Package sessions implements the state machine behind the session browser:
// a list of saved sessions, and a detail view of one session that is fetched
// on demand.
//
// The View owns three pieces of state: the selected session, a loading flag
// and a user-facing error. Select and Retry start a fetch and return the
// tea.Cmd that performs it; the resulting LoadedMsg must be handed back to
// HandleLoaded from the Bubble Tea update loop. Every fetch is tagged with a
// generation number, and only the completion of the latest generation is
// applied. Back advances the generation as well, so a response that arrives
// after the user has navigated away is dropped.
package sessions

import (
	"context"
	"fmt"

	"github.com/atomicstack/tmux-session-browser/internal/host"
	"github.com/atomicstack/tmux-session-browser/internal/logging"
	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// LoadErrorMessage is shown in the detail view after a failed fetch.
	LoadErrorMessage = "Failed to load session details. Please try again later."

	loadToastTitle = "Failed to load session. The file may be corrupted."
	loadToastMsg   = "Please try again later."

	// ResumeActionID identifies resume requests on the command bus.
	ResumeActionID = "session:resume"
)

// Fetcher loads the full details of a session.
type Fetcher interface {
	FetchSessionDetails(ctx context.Context, id string) (session.Details, error)
}

// Toaster receives fire-and-forget error notifications.
type Toaster interface {
	Error(title, msg, traceback string)
}

// Mode is the logical screen the view is showing.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeDetail:
		return "detail"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// LoadedMsg carries the outcome of a fetch started by Select or Retry.
type LoadedMsg struct {
	ID         string
	Generation uint64
	Details    session.Details
	Err        error
}

// View is the sessions view state machine.
type View struct {
	fetcher Fetcher
	bridge  host.Bridge
	toasts  Toaster
	bus     *command.Bus
	base    context.Context

	selected   *session.Details
	loading    bool
	err        string
	pendingID  string
	generation uint64
	cancel     context.CancelFunc
}

// Option customises a View.
type Option func(*View)

// WithContext sets the parent context for fetches.
func WithContext(ctx context.Context) Option {
	return func(v *View) {
		if ctx != nil {
			v.base = ctx
		}
	}
}

// WithBus routes resume requests through the given command bus.
func WithBus(bus *command.Bus) Option {
	return func(v *View) {
		if bus != nil {
			v.bus = bus
		}
	}
}

// New builds a view in the List state.
func New(fetcher Fetcher, bridge host.Bridge, toasts Toaster, opts ...Option) *View {
	v := &View{
		fetcher: fetcher,
		bridge:  bridge,
		toasts:  toasts,
		bus:     command.New(),
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Mode reports List when nothing is selected, loading or failed.
func (v *View) Mode() Mode {
	if v.selected != nil || v.loading || v.err != "" {
		return ModeDetail
	}
	return ModeList
}

// Selected returns the session currently shown, if any.
func (v *View) Selected() (session.Details, bool) {
	if v.selected == nil {
		return session.Details{}, false
	}
	return *v.selected, true
}

// Loading reports whether a fetch is in flight.
func (v *View) Loading() bool { return v.loading }

// Error returns the user-facing load error, or "".
func (v *View) Error() string { return v.err }

// PendingID is the id of the most recently requested session.
func (v *View) PendingID() string { return v.pendingID }

// Generation is the token of the latest fetch.
func (v *View) Generation() uint64 { return v.generation }

// Select starts loading the session with the given id.
func (v *View) Select(id string) tea.Cmd {
	cmd := v.load(id)
	events.Session.Select(id, v.generation)
	return cmd
}

// Retry reloads the selected session. It does nothing when no session is
// selected.
func (v *View) Retry() tea.Cmd {
	if v.selected == nil {
		return nil
	}
	cmd := v.load(v.selected.ID)
	events.Session.Retry(v.selected.ID, v.generation)
	return cmd
}

// Back returns to the list, discarding any fetch still in flight.
func (v *View) Back() {
	id := v.pendingID
	if v.selected != nil {
		id = v.selected.ID
	}
	v.release()
	v.generation++
	v.selected = nil
	v.err = ""
	v.loading = false
	v.pendingID = ""
	events.Session.Back(id)
}

// Resume asks the host to open a window for the selected session. Sessions
// without a working directory are skipped and only logged.
func (v *View) Resume() tea.Cmd {
	if v.selected == nil {
		events.Session.ResumeSkipped("", events.SessionReasonNoSelection)
		return nil
	}
	id := v.selected.ID
	dir := v.selected.Metadata.WorkingDir
	if dir == "" {
		logging.Errorf("no working directory found in metadata for session %s", id)
		events.Session.ResumeSkipped(id, events.SessionReasonNoWorkingDir)
		return nil
	}
	events.Session.Resume(id, dir)
	bridge := v.bridge
	req := host.WindowRequest{WorkingDir: dir, ResumeSessionID: id}
	return v.bus.Execute(command.Request{
		ID:    ResumeActionID,
		Label: id,
		Handler: func() (string, error) {
			if bridge == nil {
				return "", fmt.Errorf("no host bridge configured")
			}
			if err := bridge.CreateChatWindow(req); err != nil {
				return "", err
			}
			return fmt.Sprintf("Resumed %s in %s", id, dir), nil
		},
	})
}

// HandleLoaded applies a fetch result. It reports false when the result
// belongs to a superseded fetch and was dropped.
func (v *View) HandleLoaded(msg LoadedMsg) bool {
	if msg.Generation != v.generation {
		events.Session.Stale(msg.ID, msg.Generation, v.generation)
		return false
	}
	v.release()
	v.loading = false
	if msg.Err != nil {
		logging.Error(fmt.Errorf("failed to load session details for %s: %w", msg.ID, msg.Err))
		events.Session.LoadFailed(msg.ID, msg.Err)
		v.selected = nil
		v.err = LoadErrorMessage
		if v.toasts != nil {
			v.toasts.Error(loadToastTitle, loadToastMsg, session.ErrorMessage(msg.Err))
		}
		return true
	}
	details := msg.Details
	v.selected = &details
	v.err = ""
	events.Session.Loaded(msg.ID, len(details.Messages))
	return true
}

func (v *View) load(id string) tea.Cmd {
	v.release()
	v.generation++
	gen := v.generation
	v.loading = true
	v.err = ""
	v.pendingID = id
	ctx, cancel := context.WithCancel(v.base)
	v.cancel = cancel
	fetcher := v.fetcher
	return func() tea.Msg {
		if fetcher == nil {
			return LoadedMsg{ID: id, Generation: gen, Err: fmt.Errorf("no session fetcher configured")}
		}
		details, err := fetcher.FetchSessionDetails(ctx, id)
		return LoadedMsg{ID: id, Generation: gen, Details: details, Err: err}
	}
}

func (v *View) release() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}
