package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/backend"
	"github.com/atomicstack/tmux-session-browser/internal/data/dispatcher"
	"github.com/atomicstack/tmux-session-browser/internal/host"
	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/atomicstack/tmux-session-browser/internal/state"
	"github.com/atomicstack/tmux-session-browser/internal/theme"
	"github.com/atomicstack/tmux-session-browser/internal/toast"
	"github.com/atomicstack/tmux-session-browser/internal/ui/command"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	uistate "github.com/atomicstack/tmux-session-browser/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const listID = "sessions"

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Context    context.Context
	Fetcher    sessions.Fetcher
	Bridge     host.Bridge
	Watcher    *backend.Watcher
	Toasts     *toast.Queue
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
}

// Model implements the Bubble Tea model for the session browser.
type Model struct {
	list         *uistate.List
	sessions     *sessions.View
	toasts       *toast.Queue
	toastTicking bool

	history    viewport.Model
	historyKey string
	spinner    spinner.Model
	lastMode   sessions.Mode

	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	backend        *backend.Watcher
	backendLastErr string

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	bus        *command.Bus
	store      state.SessionStore
	dispatcher *dispatcher.Dispatcher
}

// NewModel initialises the UI with an empty session list.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	toasts := opts.Toasts
	if toasts == nil {
		toasts = toast.NewQueue(toast.DefaultTTL)
	}
	store := state.NewSessionStore()
	bus := command.New()
	m := &Model{
		list:       uistate.NewList(nil),
		toasts:     toasts,
		backend:    opts.Watcher,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		bus:        bus,
		store:      store,
		dispatcher: dispatcher.New(store),
		history:    viewport.New(0, 0),
		lastMode:   sessions.ModeList,
	}
	m.sessions = sessions.New(opts.Fetcher, opts.Bridge, toasts, sessions.WithContext(ctx), sessions.WithBus(bus))
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	if styles.Spinner != nil {
		s.Style = *styles.Spinner
	}
	m.spinner = s
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = *styles.Cursor
	}
	if styles.Filter != nil {
		c.TextStyle = *styles.Filter
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.resizeHistory()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):       m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(sessions.LoadedMsg{}): m.handleSessionLoadedMsg,
		reflect.TypeOf(command.Result{}):     m.handleCommandResultMsg,
		reflect.TypeOf(spinner.TickMsg{}):    m.handleSpinnerTickMsg,
		reflect.TypeOf(toastTickMsg{}):       m.handleToastTickMsg,
		reflect.TypeOf(backendEventMsg{}):    m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):     m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if mode := m.sessions.Mode(); mode != m.lastMode {
		m.lastMode = mode
		events.UI.Mode(mode.String())
	}
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if cmd := m.scheduleToastTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Mode reports whether the list or the history view is active.
func (m *Model) Mode() sessions.Mode {
	return m.sessions.Mode()
}

// Sessions exposes the underlying view state machine.
func (m *Model) Sessions() *sessions.View {
	return m.sessions
}

// Toasts exposes the toast queue.
func (m *Model) Toasts() *toast.Queue {
	return m.toasts
}
