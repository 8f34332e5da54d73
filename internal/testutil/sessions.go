// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// SessionFile describes a session fixture written by WriteSession.
type SessionFile struct {
	ID          string
	WorkingDir  string
	Description string
	TotalTokens int
	Messages    []Message
	Modified    time.Time
}

// Message is a single conversation line in a fixture.
type Message struct {
	Role    string
	Text    string
	Tool    string
	Created time.Time
}

// WriteSession writes f as <dir>/<id>.jsonl and returns the path.
func WriteSession(t *testing.T, dir string, f SessionFile) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create sessions dir: %v", err)
	}
	meta := map[string]interface{}{
		"description":   f.Description,
		"message_count": len(f.Messages),
	}
	if f.WorkingDir != "" {
		meta["working_dir"] = f.WorkingDir
	}
	if f.TotalTokens > 0 {
		meta["total_tokens"] = f.TotalTokens
	}
	lines := []string{mustJSON(t, meta)}
	for _, msg := range f.Messages {
		content := []map[string]interface{}{}
		if msg.Text != "" {
			content = append(content, map[string]interface{}{"type": "text", "text": msg.Text})
		}
		if msg.Tool != "" {
			content = append(content, map[string]interface{}{
				"type":     "toolRequest",
				"id":       "call-" + msg.Tool,
				"toolCall": map[string]interface{}{"status": "success", "value": map[string]interface{}{"name": msg.Tool}},
			})
		}
		created := msg.Created
		if created.IsZero() {
			created = time.Unix(1712345678, 0)
		}
		lines = append(lines, mustJSON(t, map[string]interface{}{
			"role":    msg.Role,
			"created": created.Unix(),
			"content": content,
		}))
	}
	return WriteRaw(t, dir, f.ID, strings.Join(lines, "\n")+"\n", f.Modified)
}

// WriteRaw writes body verbatim as the session file for id. A non-zero
// modified time is applied to the file.
func WriteRaw(t *testing.T, dir, id, body string, modified time.Time) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create sessions dir: %v", err)
	}
	path := filepath.Join(dir, id+".jsonl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write session %s: %v", id, err)
	}
	if !modified.IsZero() {
		if err := os.Chtimes(path, modified, modified); err != nil {
			t.Fatalf("chtimes %s: %v", id, err)
		}
	}
	return path
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return string(data)
}
