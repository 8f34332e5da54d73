package state

import (
	"strings"

	"github.com/atomicstack/tmux-session-browser/internal/session"
)

// Item is one row of the session list.
type Item struct {
	ID      string
	Label   string
	Project string
	Summary session.Summary
}

// ItemsFromSummaries converts listed sessions into list rows, keeping order.
func ItemsFromSummaries(summaries []session.Summary) []Item {
	items := make([]Item, 0, len(summaries))
	for _, s := range summaries {
		label := strings.TrimSpace(s.Metadata.Description)
		if label == "" {
			label = s.ID
		}
		items = append(items, Item{
			ID:      s.ID,
			Label:   label,
			Project: s.Metadata.Project(),
			Summary: s,
		})
	}
	return items
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}

func (i Item) haystack() string {
	parts := []string{i.Label}
	if i.Project != "" {
		parts = append(parts, i.Project)
	}
	parts = append(parts, i.ID)
	return strings.Join(parts, " ")
}
