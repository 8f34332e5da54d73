package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const maxLineSize = 16 * 1024 * 1024

type wireMessage struct {
	Role    Role          `json:"role"`
	Created int64         `json:"created"`
	Content []wireContent `json:"content"`
}

type wireContent struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	ID       string `json:"id"`
	ToolCall *struct {
		Value *struct {
			Name string `json:"name"`
		} `json:"value"`
	} `json:"toolCall"`
}

func (w wireContent) toContent() Content {
	c := Content{Kind: ContentKind(w.Type), Text: w.Text, ToolID: w.ID}
	if w.ToolCall != nil && w.ToolCall.Value != nil {
		c.Tool = w.ToolCall.Value.Name
	}
	return c
}

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// readMetadata decodes the first non-blank line as Metadata.
func readMetadata(scanner *bufio.Scanner) (Metadata, error) {
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(line, &meta); err != nil {
			return Metadata{}, fmt.Errorf("decode metadata: %w", err)
		}
		return meta, nil
	}
	if err := scanner.Err(); err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	return Metadata{}, io.ErrUnexpectedEOF
}

// parseDetails reads a whole session file.
func parseDetails(id string, r io.Reader) (Details, error) {
	scanner := newLineScanner(r)
	meta, err := readMetadata(scanner)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return Details{}, newLoadError(id, nil, "session file is empty")
		}
		return Details{}, newLoadError(id, err, "invalid session metadata")
	}
	details := Details{ID: id, Metadata: meta}
	lineNo := 1
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var wire wireMessage
		if err := json.Unmarshal(line, &wire); err != nil {
			return Details{}, newLoadError(id, err, "invalid message on line %d", lineNo)
		}
		msg := Message{Role: wire.Role}
		if wire.Created > 0 {
			msg.Created = time.Unix(wire.Created, 0)
		}
		for _, item := range wire.Content {
			msg.Content = append(msg.Content, item.toContent())
		}
		details.Messages = append(details.Messages, msg)
	}
	if err := scanner.Err(); err != nil {
		return Details{}, newLoadError(id, err, "read session file")
	}
	return details, nil
}
