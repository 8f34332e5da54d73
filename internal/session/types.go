// Package session reads saved chat sessions from disk.
//
// Each session is a JSONL file named after its id. The first line holds the
// session metadata and every following line is one conversation message.
package session

import (
	"path/filepath"
	"time"
)

// Metadata is the header record of a session file.
type Metadata struct {
	WorkingDir   string  `json:"working_dir,omitempty"`
	Description  string  `json:"description,omitempty"`
	MessageCount int     `json:"message_count"`
	TotalTokens  *int    `json:"total_tokens,omitempty"`
	InputTokens  *int    `json:"input_tokens,omitempty"`
	OutputTokens *int    `json:"output_tokens,omitempty"`
	ScheduleID   *string `json:"schedule_id,omitempty"`
}

// Project returns the last path element of the working directory.
func (m Metadata) Project() string {
	if m.WorkingDir == "" {
		return ""
	}
	base := filepath.Base(m.WorkingDir)
	if base == "." || base == string(filepath.Separator) {
		return m.WorkingDir
	}
	return base
}

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ContentKind names the type of a message content item.
type ContentKind string

const (
	ContentText         ContentKind = "text"
	ContentToolRequest  ContentKind = "toolRequest"
	ContentToolResponse ContentKind = "toolResponse"
)

// Content is a single item of a message body.
type Content struct {
	Kind   ContentKind
	Text   string
	ToolID string
	Tool   string
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Created time.Time
	Content []Content
}

// Text joins the text items of the message.
func (m Message) Text() string {
	var out string
	for _, c := range m.Content {
		if c.Kind != ContentText || c.Text == "" {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += c.Text
	}
	return out
}

// Details is the fully loaded session shown by the history view.
type Details struct {
	ID       string
	Metadata Metadata
	Messages []Message
}

// Summary is the list entry for a session file.
type Summary struct {
	ID       string
	Path     string
	Modified time.Time
	Metadata Metadata
}

// ShortID abbreviates long identifiers as first4..last4.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) < 12 {
		return id
	}
	return string(runes[:4]) + ".." + string(runes[len(runes)-4:])
}
