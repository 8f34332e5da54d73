package state

import "github.com/atomicstack/tmux-session-browser/internal/logging/events"

// List holds the cursor, filter and viewport of the session list.
type List struct {
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a List with the cursor on the first item.
func NewList(items []Item) *List {
	l := &List{LastCursor: -1}
	l.SetItems(items)
	return l
}

// IndexOf returns the visible index of the item with the given id.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// SetItems replaces the list contents. The cursor stays on the same session
// when it survives the refresh.
func (l *List) SetItems(items []Item) {
	current := l.CurrentID()
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(current); idx >= 0 {
		l.Cursor = idx
	}
	if len(l.Items) == 0 || prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
	events.UI.ListCursor("sessions", l.Cursor)
}

// Len returns the number of visible items.
func (l *List) Len() int { return len(l.Items) }
