package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireTmux aborts the calling test when tmux is not present on PATH.
func RequireTmux(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("tmux")
	if err != nil {
		t.Skip("skipping: tmux binary not available")
	}
	return path
}

// StartTmuxServer boots a temporary tmux server bound to a unique socket and
// returns the socket path. The server is killed when the test finishes.
func StartTmuxServer(t *testing.T) string {
	t.Helper()
	RequireTmux(t)
	baseDir, err := os.MkdirTemp("/tmp", "tmux-session-browser-*")
	if err != nil {
		t.Fatalf("failed to create tmux temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(baseDir) })
	socketPath := filepath.Join(baseDir, "tmux-test.sock")
	if err := tmuxCommand(socketPath, "-f", "/dev/null", "new-session", "-d", "-s", "browser-test", "sleep", "600").Run(); err != nil {
		t.Skipf("skipping: failed to start tmux server: %v", err)
	}
	t.Cleanup(func() {
		_ = tmuxCommand(socketPath, "kill-server").Run()
	})
	return socketPath
}

// ListWindows returns "name<TAB>path" for each window on the server.
func ListWindows(t *testing.T, socketPath string) []string {
	t.Helper()
	out, err := tmuxCommand(socketPath, "list-windows", "-a", "-F", "#{window_name}\t#{pane_current_path}").Output()
	if err != nil {
		t.Fatalf("list-windows failed: %v", err)
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func tmuxCommand(socketPath string, args ...string) *exec.Cmd {
	full := append([]string{"-S", socketPath}, args...)
	return exec.Command("tmux", full...)
}
