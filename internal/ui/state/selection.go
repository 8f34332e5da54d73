package state

// Current returns the item under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// CurrentID returns the id under the cursor, or "".
func (l *List) CurrentID() string {
	item, ok := l.Current()
	if !ok {
		return ""
	}
	return item.ID
}

// SelectID moves the cursor onto the item with the given id.
func (l *List) SelectID(id string) bool {
	idx := l.IndexOf(id)
	if idx < 0 {
		return false
	}
	l.Cursor = idx
	return true
}
