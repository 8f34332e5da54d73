package tmux

import (
	"fmt"
	"strings"

	"github.com/atomicstack/tmux-session-browser/internal/host"
)

const versionEnv = "GOOSE_VERSION"

// Bridge opens resumed sessions as tmux windows.
type Bridge struct {
	SocketPath    string
	ResumeCommand string
}

var newWindowFn = NewWindow

// CreateChatWindow implements host.Bridge.
func (b Bridge) CreateChatWindow(req host.WindowRequest) error {
	template := b.ResumeCommand
	if strings.TrimSpace(template) == "" {
		template = DefaultResumeCommand
	}
	opts := WindowOptions{
		Name:       windowName(req),
		WorkingDir: req.WorkingDir,
		Command:    ExpandCommand(template, req),
	}
	if req.Version != "" {
		opts.Env = map[string]string{versionEnv: req.Version}
	}
	if _, err := newWindowFn(b.SocketPath, opts); err != nil {
		return fmt.Errorf("create chat window: %w", err)
	}
	return nil
}

func windowName(req host.WindowRequest) string {
	id := strings.TrimSpace(req.ResumeSessionID)
	if id == "" {
		return "chat"
	}
	runes := []rune(id)
	if len(runes) > 16 {
		id = string(runes[:16])
	}
	return "resume:" + id
}
