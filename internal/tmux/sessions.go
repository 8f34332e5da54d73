package tmux

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ResolveSocketPath picks the tmux socket: the explicit flag value, then
// $TMUX_SESSION_BROWSER_SOCKET, then the socket of the enclosing $TMUX, and
// finally tmux's default location.
func ResolveSocketPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if envSocket := os.Getenv("TMUX_SESSION_BROWSER_SOCKET"); envSocket != "" {
		return envSocket, nil
	}
	if tmuxEnv := os.Getenv("TMUX"); tmuxEnv != "" {
		parts := strings.Split(tmuxEnv, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := os.Getenv("TMUX_TMPDIR")
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

// currentSessionName returns the session of the pane that launched the
// browser, or "" when it cannot be determined.
func currentSessionName(client tmuxClient) string {
	target := strings.TrimSpace(os.Getenv("TMUX_PANE"))
	if target == "" {
		return ""
	}
	name, err := client.DisplayMessage(target, "#{session_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}
