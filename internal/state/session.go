package state

import (
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/session"
)

// SessionStore keeps the most recent session list snapshot.
type SessionStore interface {
	Entries() []session.Summary
	SetEntries([]session.Summary)
	Find(id string) (session.Summary, bool)
	LastError() error
	SetLastError(error)
	UpdatedAt() time.Time
}

type sessionStore struct {
	entries   []session.Summary
	lastErr   error
	updatedAt time.Time
	now       func() time.Time
}

func NewSessionStore() SessionStore {
	return &sessionStore{now: time.Now}
}

func (s *sessionStore) Entries() []session.Summary {
	return cloneSummaries(s.entries)
}

// SetEntries replaces the snapshot and clears any previous listing error.
func (s *sessionStore) SetEntries(entries []session.Summary) {
	s.entries = cloneSummaries(entries)
	s.lastErr = nil
	s.updatedAt = s.now()
}

func (s *sessionStore) Find(id string) (session.Summary, bool) {
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return session.Summary{}, false
}

func (s *sessionStore) LastError() error {
	return s.lastErr
}

func (s *sessionStore) SetLastError(err error) {
	s.lastErr = err
}

func (s *sessionStore) UpdatedAt() time.Time {
	return s.updatedAt
}

func cloneSummaries(entries []session.Summary) []session.Summary {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]session.Summary, len(entries))
	copy(dup, entries)
	return dup
}
