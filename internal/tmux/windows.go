package tmux

import (
	"fmt"
	"sort"
	"strings"
)

// WindowOptions describes a new tmux window.
type WindowOptions struct {
	Name       string
	WorkingDir string
	Command    string
	Env        map[string]string
}

// NewWindow opens a window in the session of the invoking pane (or the
// server's current session) and returns the new window id.
func NewWindow(socketPath string, opts WindowOptions) (string, error) {
	dir := strings.TrimSpace(opts.WorkingDir)
	if dir == "" {
		return "", fmt.Errorf("working directory required")
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return "", err
	}
	defer client.Close()

	args := []string{"new-window", "-P", "-F", "#{window_id}", "-c", dir}
	if target := currentSessionName(client); target != "" {
		args = append(args, "-t", target+":")
	}
	if name := strings.TrimSpace(opts.Name); name != "" {
		args = append(args, "-n", name)
	}
	for _, key := range sortedKeys(opts.Env) {
		args = append(args, "-e", key+"="+opts.Env[key])
	}
	if cmd := strings.TrimSpace(opts.Command); cmd != "" {
		args = append(args, cmd)
	}
	out, err := client.Command(args...)
	if err != nil {
		return "", fmt.Errorf("failed to open window in %s: %w", dir, err)
	}
	return strings.TrimSpace(out), nil
}

func sortedKeys(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
