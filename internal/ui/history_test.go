package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/charmbracelet/x/ansi"
)

func sampleDetails() session.Details {
	tokens := 12345
	return session.Details{
		ID: "20240405_153012_abcdef",
		Metadata: session.Metadata{
			WorkingDir:  "/src/api",
			Description: "Fix flaky tests",
			TotalTokens: &tokens,
		},
		Messages: []session.Message{
			{
				Role:    session.RoleUser,
				Created: time.Now().Add(-time.Hour),
				Content: []session.Content{{Kind: session.ContentText, Text: "tests fail on ci"}},
			},
			{
				Role: session.RoleAssistant,
				Content: []session.Content{
					{Kind: session.ContentText, Text: "Let me look."},
					{Kind: session.ContentToolRequest, ToolID: "call-1", Tool: "shell"},
					{Kind: session.ContentToolResponse, ToolID: "call-1"},
					{Kind: "thinking"},
				},
			},
		},
	}
}

func TestHistoryMarkdown(t *testing.T) {
	doc := historyMarkdown(sampleDetails())
	for _, want := range []string{
		"### User · 1 hour ago",
		"tests fail on ci",
		"### Assistant\n",
		"> calling `shell`",
		"> tool response `call-1`",
		"> _thinking_",
		"\n---\n",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, doc)
		}
	}
	if got := historyMarkdown(session.Details{ID: "empty"}); !strings.Contains(got, "No messages") {
		t.Fatalf("expected empty placeholder, got %q", got)
	}
}

func TestHistoryHeader(t *testing.T) {
	header := historyHeader(sampleDetails())
	if header[0] != "Fix flaky tests" {
		t.Fatalf("unexpected title %q", header[0])
	}
	if header[1] != "/src/api" {
		t.Fatalf("unexpected dir %q", header[1])
	}
	if !strings.Contains(header[2], "2024..cdef") || !strings.Contains(header[2], "2 messages") || !strings.Contains(header[2], "12,345 tokens") {
		t.Fatalf("unexpected meta line %q", header[2])
	}

	bare := historyHeader(session.Details{ID: "short"})
	if bare[0] != "short" || bare[1] != "(no working directory)" {
		t.Fatalf("unexpected fallbacks %#v", bare)
	}
}

func TestGlamourRendersHistory(t *testing.T) {
	out, err := glamourRender(historyMarkdown(sampleDetails()), 60)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	plain := ansi.Strip(out)
	for _, want := range []string{"User", "tests", "shell"} {
		if !strings.Contains(plain, want) {
			t.Fatalf("expected %q in rendered output:\n%s", want, plain)
		}
	}
}

func TestRoleTitleHandlesMultibyteRunes(t *testing.T) {
	cases := []struct {
		role session.Role
		want string
	}{
		{"", "Unknown"},
		{"user", "User"},
		{"édition", "Édition"},
		{"日本", "日本"},
	}
	for _, tc := range cases {
		if got := roleTitle(tc.role); got != tc.want {
			t.Fatalf("roleTitle(%q): expected %q, got %q", tc.role, tc.want, got)
		}
	}
	doc := historyMarkdown(session.Details{
		ID:       "x",
		Messages: []session.Message{{Role: "édition"}},
	})
	if !utf8.ValidString(doc) {
		t.Fatalf("expected valid UTF-8 markdown, got %q", doc)
	}
	if !strings.Contains(doc, "### Édition") {
		t.Fatalf("expected capitalised heading, got %q", doc)
	}
}
