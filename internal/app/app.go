package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/backend"
	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/tmux"
	"github.com/atomicstack/tmux-session-browser/internal/toast"
	"github.com/atomicstack/tmux-session-browser/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	SessionsDir   string
	SocketPath    string
	ResumeCommand string
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	Refresh       time.Duration
	ToastTTL      time.Duration
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) (err error) {
	defer func() { events.App.Exit(err) }()

	socketPath, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve socket path: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model, watcher := newModel(ctx, cfg, socketPath)
	defer watcher.Stop()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// newModel wires the session store, directory watcher and tmux bridge into a
// UI model. The caller owns the returned watcher.
func newModel(ctx context.Context, cfg Config, socketPath string) (*ui.Model, *backend.Watcher) {
	store := session.NewFileStore(cfg.SessionsDir)
	watcher := backend.NewWatcher(store, cfg.Refresh)
	bridge := tmux.Bridge{SocketPath: socketPath, ResumeCommand: cfg.ResumeCommand}
	model := ui.NewModel(ui.Options{
		Context:    ctx,
		Fetcher:    store,
		Bridge:     bridge,
		Watcher:    watcher,
		Toasts:     toast.NewQueue(cfg.ToastTTL),
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
	})
	return model, watcher
}
