package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/backend"
	"github.com/atomicstack/tmux-session-browser/internal/host"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/toast"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	details map[string]session.Details
	err     error
}

func (f *fakeFetcher) FetchSessionDetails(ctx context.Context, id string) (session.Details, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	if f.err != nil {
		return session.Details{}, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return session.Details{}, fmt.Errorf("no session %s", id)
	}
	return d, nil
}

type fakeBridge struct {
	requests []host.WindowRequest
	err      error
}

func (b *fakeBridge) CreateChatWindow(req host.WindowRequest) error {
	b.requests = append(b.requests, req)
	return b.err
}

func newTestModel(fetcher *fakeFetcher, bridge *fakeBridge) *Model {
	return NewModel(Options{
		Fetcher: fetcher,
		Bridge:  bridge,
		Toasts:  toast.NewQueue(time.Minute),
		Width:   100,
		Height:  20,
	})
}

func summary(id, dir, description string) session.Summary {
	return session.Summary{
		ID:       id,
		Modified: time.Now().Add(-2 * time.Hour),
		Metadata: session.Metadata{WorkingDir: dir, Description: description, MessageCount: 1},
	}
}

func sendSnapshot(h *Harness, summaries ...session.Summary) {
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSessions, Data: summaries}})
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestSelectResolveBackRoundTrip(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{
		"s1": {
			ID:       "s1",
			Metadata: session.Metadata{WorkingDir: "/x", Description: "fix the build"},
			Messages: []session.Message{{Role: session.RoleUser, Content: []session.Content{{Kind: session.ContentText, Text: "why is ci red"}}}},
		},
	}}
	h := NewHarness(newTestModel(fetcher, &fakeBridge{}))
	sendSnapshot(h, summary("s1", "/x", "fix the build"))

	if got := h.Model().Mode(); got != sessions.ModeList {
		t.Fatalf("expected list mode, got %s", got)
	}
	h.Send(key(tea.KeyEnter))

	if got := h.Model().Mode(); got != sessions.ModeDetail {
		t.Fatalf("expected detail mode after select, got %s", got)
	}
	details, ok := h.Model().Sessions().Selected()
	if !ok || details.ID != "s1" || details.Metadata.WorkingDir != "/x" {
		t.Fatalf("unexpected selection %#v (ok=%v)", details, ok)
	}
	view := h.View()
	if !strings.Contains(view, "fix the build") || !strings.Contains(view, "why is ci red") {
		t.Fatalf("expected history in view, got:\n%s", view)
	}

	h.Send(key(tea.KeyEsc))
	if got := h.Model().Mode(); got != sessions.ModeList {
		t.Fatalf("expected list mode after back, got %s", got)
	}
	if _, ok := h.Model().Sessions().Selected(); ok {
		t.Fatal("expected selection cleared")
	}
	if view := h.View(); !strings.Contains(view, "sessions (1)") {
		t.Fatalf("expected list view, got:\n%s", view)
	}
}

func TestSelectShowsLoadingBeforeResolve(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeBridge{})
	h := NewHarness(m)
	sendSnapshot(h, summary("s1", "/x", "demo"))

	cmd := m.handleEnterKey()
	if cmd == nil {
		t.Fatal("expected fetch command")
	}
	if !m.Sessions().Loading() {
		t.Fatal("expected loading before the fetch resolves")
	}
	if view := m.View(); !strings.Contains(view, "Loading session") {
		t.Fatalf("expected loading indicator, got:\n%s", view)
	}
}

func TestFetchFailureShowsErrorAndToast(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("invalid session metadata")}
	h := NewHarness(newTestModel(fetcher, &fakeBridge{}))
	sendSnapshot(h, summary("s1", "/x", "demo"))
	h.Send(key(tea.KeyEnter))

	m := h.Model()
	if m.Sessions().Error() != sessions.LoadErrorMessage {
		t.Fatalf("expected load error, got %q", m.Sessions().Error())
	}
	active := m.Toasts().Active()
	if len(active) != 1 {
		t.Fatalf("expected one toast, got %d", len(active))
	}
	if active[0].Traceback != "invalid session metadata" {
		t.Fatalf("unexpected traceback %q", active[0].Traceback)
	}
	view := h.View()
	if !strings.Contains(view, sessions.LoadErrorMessage) {
		t.Fatalf("expected error message in view, got:\n%s", view)
	}
	if !strings.Contains(view, "The file may be corrupted") {
		t.Fatalf("expected toast in view, got:\n%s", view)
	}

	h.Send(runes("r"))
	if len(fetcher.calls) != 1 {
		t.Fatalf("expected retry to be a no-op without a session, got %d fetches", len(fetcher.calls))
	}

	h.Send(key(tea.KeyCtrlX))
	if len(m.Toasts().Active()) != 0 {
		t.Fatal("expected ctrl+x to dismiss the toast")
	}
}

func TestRetryKeyReloadsSession(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{"s1": {ID: "s1"}}}
	h := NewHarness(newTestModel(fetcher, &fakeBridge{}))
	sendSnapshot(h, summary("s1", "/x", "demo"))
	h.Send(key(tea.KeyEnter))
	h.Send(runes("r"))
	if len(fetcher.calls) != 2 {
		t.Fatalf("expected two fetches, got %v", fetcher.calls)
	}
	if _, ok := h.Model().Sessions().Selected(); !ok {
		t.Fatal("expected session to stay selected after retry")
	}
}

func TestResumeKeyOpensWindow(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{
		"abc": {ID: "abc", Metadata: session.Metadata{WorkingDir: "/tmp/proj"}},
	}}
	bridge := &fakeBridge{}
	h := NewHarness(newTestModel(fetcher, bridge))
	sendSnapshot(h, summary("abc", "/tmp/proj", "demo"))
	h.Send(key(tea.KeyEnter))
	h.Send(key(tea.KeyEnter))

	if len(bridge.requests) != 1 {
		t.Fatalf("expected one host call, got %d", len(bridge.requests))
	}
	want := host.WindowRequest{WorkingDir: "/tmp/proj", ResumeSessionID: "abc"}
	if bridge.requests[0] != want {
		t.Fatalf("unexpected request %#v", bridge.requests[0])
	}
	if h.Model().errMsg != "" {
		t.Fatalf("unexpected error %q", h.Model().errMsg)
	}
}

func TestResumeWithoutWorkingDirDoesNothing(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{"abc": {ID: "abc"}}}
	bridge := &fakeBridge{}
	h := NewHarness(newTestModel(fetcher, bridge))
	sendSnapshot(h, summary("abc", "", "demo"))
	h.Send(key(tea.KeyEnter))
	before := h.View()
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlO})

	if len(bridge.requests) != 0 {
		t.Fatalf("expected no host call, got %d", len(bridge.requests))
	}
	if len(h.Model().Toasts().Active()) != 0 {
		t.Fatal("expected no toast")
	}
	if after := h.View(); after != before {
		t.Fatalf("expected unchanged view\nbefore:\n%s\nafter:\n%s", before, after)
	}
}

func TestResumeFailureReported(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{
		"abc": {ID: "abc", Metadata: session.Metadata{WorkingDir: "/tmp/proj"}},
	}}
	bridge := &fakeBridge{err: errors.New("no server running")}
	h := NewHarness(newTestModel(fetcher, bridge))
	sendSnapshot(h, summary("abc", "/tmp/proj", "demo"))
	h.Send(key(tea.KeyEnter))
	h.Send(key(tea.KeyEnter))

	m := h.Model()
	if !strings.Contains(m.errMsg, "no server running") {
		t.Fatalf("expected status error, got %q", m.errMsg)
	}
	active := m.Toasts().Active()
	if len(active) != 1 || active[0].Title != resumeFailedTitle {
		t.Fatalf("expected resume toast, got %#v", active)
	}
	if view := h.View(); !strings.Contains(view, "Error: no server running") {
		t.Fatalf("expected status line, got:\n%s", view)
	}
}

func TestStaleLoadIgnoredAfterBack(t *testing.T) {
	fetcher := &fakeFetcher{details: map[string]session.Details{"s1": {ID: "s1"}}}
	m := newTestModel(fetcher, &fakeBridge{})
	h := NewHarness(m)
	sendSnapshot(h, summary("s1", "/x", "demo"))

	_ = m.handleEnterKey()
	gen := m.Sessions().Generation()
	h.Send(key(tea.KeyEsc))
	h.Send(sessions.LoadedMsg{ID: "s1", Generation: gen, Details: session.Details{ID: "s1"}})

	if m.Mode() != sessions.ModeList {
		t.Fatalf("expected stale result to be dropped, mode %s", m.Mode())
	}
}

func TestBackendRefreshKeepsCursor(t *testing.T) {
	h := NewHarness(newTestModel(&fakeFetcher{}, &fakeBridge{}))
	sendSnapshot(h, summary("a", "/a", "alpha"), summary("b", "/b", "beta"))
	h.Send(key(tea.KeyDown))
	if id := h.Model().list.CurrentID(); id != "b" {
		t.Fatalf("expected cursor on b, got %q", id)
	}
	sendSnapshot(h, summary("new", "/n", "fresh"), summary("a", "/a", "alpha"), summary("b", "/b", "beta"))
	if id := h.Model().list.CurrentID(); id != "b" {
		t.Fatalf("expected cursor to stay on b, got %q", id)
	}
	if view := h.View(); !strings.Contains(view, "sessions (3)") {
		t.Fatalf("expected refreshed count, got:\n%s", view)
	}
}

func TestBackendErrorShownInHeader(t *testing.T) {
	h := NewHarness(newTestModel(&fakeFetcher{}, &fakeBridge{}))
	h.Send(backendEventMsg{event: backend.Event{Kind: backend.KindSessions, Err: errors.New("permission denied")}})
	view := h.View()
	if !strings.Contains(view, "permission denied") {
		t.Fatalf("expected backend error in header, got:\n%s", view)
	}
	if !strings.Contains(view, "(no sessions)") {
		t.Fatalf("expected empty placeholder, got:\n%s", view)
	}
	sendSnapshot(h, summary("a", "/a", "alpha"))
	if view := h.View(); strings.Contains(view, "permission denied") {
		t.Fatalf("expected error cleared after a good snapshot, got:\n%s", view)
	}
}

func TestBackendDoneStopsWaiting(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeBridge{})
	m.backend = &backend.Watcher{}
	if cmd := m.handleBackendDoneMsg(backendDoneMsg{}); cmd != nil {
		t.Fatal("expected no follow-up command")
	}
	if m.backend != nil {
		t.Fatal("expected backend cleared")
	}
}

func TestFilterNarrowsListAndEscClears(t *testing.T) {
	h := NewHarness(newTestModel(&fakeFetcher{}, &fakeBridge{}))
	sendSnapshot(h, summary("a", "/src/api", "alpha work"), summary("b", "/src/web", "beta work"))
	h.Send(runes("bet"))

	m := h.Model()
	if m.list.Len() != 1 || m.list.CurrentID() != "b" {
		t.Fatalf("expected only b after filtering, got %#v", m.list.Items)
	}
	if view := h.View(); !strings.Contains(view, "sessions (1 of 2)") {
		t.Fatalf("expected filtered header, got:\n%s", view)
	}

	if cmd := m.handleEscapeKey(); cmd != nil {
		t.Fatal("expected esc to clear the filter before quitting")
	}
	if m.list.Filter != "" || m.list.Len() != 2 {
		t.Fatalf("expected filter cleared, got %q with %d items", m.list.Filter, m.list.Len())
	}
	cmd := m.handleEscapeKey()
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestFilterNoMatches(t *testing.T) {
	h := NewHarness(newTestModel(&fakeFetcher{}, &fakeBridge{}))
	sendSnapshot(h, summary("a", "/a", "alpha"))
	h.Model().list.SetFilter("zzz", 3)
	if view := h.View(); !strings.Contains(view, `No matches for "zzz"`) {
		t.Fatalf("expected no-match message, got:\n%s", view)
	}
	h.Send(key(tea.KeyEnter))
	if h.Model().Mode() != sessions.ModeList {
		t.Fatal("expected enter with no rows to stay in the list")
	}
}

func TestListPaginationRespectsViewport(t *testing.T) {
	m := NewModel(Options{Fetcher: &fakeFetcher{}, Width: 60, Height: 8})
	h := NewHarness(m)
	summaries := make([]session.Summary, 10)
	for i := range summaries {
		id := fmt.Sprintf("sess-%02d", i+1)
		summaries[i] = summary(id, "/p", "task "+id)
	}
	sendSnapshot(h, summaries...)

	view := h.View()
	if !strings.Contains(view, "task sess-01") || strings.Contains(view, "task sess-07") {
		t.Fatalf("expected only the first page, view =\n%s", view)
	}
	for i := 0; i < 7; i++ {
		h.Send(key(tea.KeyDown))
	}
	view = h.View()
	if !strings.Contains(view, "task sess-08") {
		t.Fatalf("expected sess-08 to be visible after scrolling, view =\n%s", view)
	}
	if strings.Contains(view, "task sess-01") {
		t.Fatalf("expected sess-01 to scroll out, view =\n%s", view)
	}
}

func TestWindowSizeMsgResizesHistory(t *testing.T) {
	m := NewModel(Options{Fetcher: &fakeFetcher{}})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Fatalf("expected size to follow the terminal, got %dx%d", m.width, m.height)
	}
	if m.history.Width != 120 {
		t.Fatalf("expected history width 120, got %d", m.history.Width)
	}
	if m.history.Height <= 0 || m.history.Height >= 40 {
		t.Fatalf("unexpected history height %d", m.history.Height)
	}

	fixed := newTestModel(&fakeFetcher{}, &fakeBridge{})
	fixed.Update(tea.WindowSizeMsg{Width: 10, Height: 5})
	if fixed.width != 100 || fixed.height != 20 {
		t.Fatalf("expected fixed size to win, got %dx%d", fixed.width, fixed.height)
	}
}

func TestSpinnerTickStopsWhenIdle(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeBridge{})
	if cmd := m.handleSpinnerTickMsg(m.spinner.Tick()); cmd != nil {
		t.Fatal("expected no spinner ticks while idle")
	}
}

func TestToastTickPrunesExpired(t *testing.T) {
	queue := toast.NewQueue(time.Millisecond)
	m := NewModel(Options{Fetcher: &fakeFetcher{}, Toasts: queue})
	queue.Error("boom", "", "")
	time.Sleep(5 * time.Millisecond)
	m.toastTicking = true
	m.Update(toastTickMsg{at: time.Now()})
	if m.toastTicking {
		t.Fatal("expected tick flag reset")
	}
	if len(queue.All()) != 0 {
		t.Fatalf("expected expired toast pruned, got %d", len(queue.All()))
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(&fakeFetcher{}, &fakeBridge{})
	_, cmd := m.Update(key(tea.KeyCtrlC))
	if cmd == nil {
		t.Fatal("expected quit command from the list")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}
