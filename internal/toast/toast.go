// Package toast holds transient, non-blocking notifications.
package toast

import (
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/google/uuid"
)

// Level classifies a toast.
type Level string

const (
	LevelError   Level = "error"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// DefaultTTL is how long a toast stays visible when no TTL is configured.
const DefaultTTL = 6 * time.Second

// Toast is a single notification.
type Toast struct {
	ID        string
	Level     Level
	Title     string
	Msg       string
	Traceback string
	Created   time.Time
	Expires   time.Time
}

// Queue keeps toasts in arrival order. It is owned by the UI event loop and
// is not safe for concurrent use.
type Queue struct {
	ttl   time.Duration
	now   func() time.Time
	items []Toast
}

// NewQueue returns a queue whose toasts expire after ttl.
func NewQueue(ttl time.Duration) *Queue {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{ttl: ttl, now: time.Now}
}

// Error pushes an error toast. The traceback carries diagnostic detail.
func (q *Queue) Error(title, msg, traceback string) {
	q.push(LevelError, title, msg, traceback)
}

// Success pushes a success toast.
func (q *Queue) Success(title, msg string) {
	q.push(LevelSuccess, title, msg, "")
}

// Info pushes an informational toast.
func (q *Queue) Info(title, msg string) {
	q.push(LevelInfo, title, msg, "")
}

func (q *Queue) push(level Level, title, msg, traceback string) {
	now := q.now()
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Msg:       msg,
		Traceback: traceback,
		Created:   now,
		Expires:   now.Add(q.ttl),
	}
	q.items = append(q.items, t)
	events.Toast.Push(t.ID, string(level), title, traceback)
}

// Active returns the toasts that have not expired, oldest first.
func (q *Queue) Active() []Toast {
	now := q.now()
	out := make([]Toast, 0, len(q.items))
	for _, t := range q.items {
		if now.Before(t.Expires) {
			out = append(out, t)
		}
	}
	return out
}

// All returns every toast still held by the queue, expired or not.
func (q *Queue) All() []Toast {
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Prune drops expired toasts and reports whether anything was removed.
func (q *Queue) Prune() bool {
	now := q.now()
	kept := q.items[:0]
	for _, t := range q.items {
		if now.Before(t.Expires) {
			kept = append(kept, t)
		}
	}
	removed := len(kept) != len(q.items)
	q.items = kept
	return removed
}

// Dismiss removes the toast with the given id.
func (q *Queue) Dismiss(id string) bool {
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			events.Toast.Dismiss(id)
			return true
		}
	}
	return false
}

// DismissLatest removes the newest toast.
func (q *Queue) DismissLatest() bool {
	if len(q.items) == 0 {
		return false
	}
	return q.Dismiss(q.items[len(q.items)-1].ID)
}

// NextExpiry returns the earliest expiry among held toasts.
func (q *Queue) NextExpiry() (time.Time, bool) {
	var next time.Time
	for _, t := range q.items {
		if next.IsZero() || t.Expires.Before(next) {
			next = t.Expires
		}
	}
	return next, !next.IsZero()
}
