package tmux

import (
	"errors"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tmux-session-browser/internal/host"
)

func withStubTmux(t *testing.T, fn func(string) (tmuxClient, error)) {
	t.Helper()
	prev := newTmux
	newTmux = fn
	t.Cleanup(func() {
		newTmux = prev
	})
}

type fakeClient struct {
	displayMessageFn func(target, format string) (string, error)

	commandCalls  [][]string
	commandOutput string
	commandErr    error
	closed        bool
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	if f.displayMessageFn != nil {
		return f.displayMessageFn(target, format)
	}
	return "", nil
}

func (f *fakeClient) Command(parts ...string) (string, error) {
	cp := make([]string, len(parts))
	copy(cp, parts)
	f.commandCalls = append(f.commandCalls, cp)
	return f.commandOutput, f.commandErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestNewWindowBuildsCommand(t *testing.T) {
	t.Setenv("TMUX_PANE", "%3")
	fake := &fakeClient{
		commandOutput: "@7\n",
		displayMessageFn: func(target, format string) (string, error) {
			if target != "%3" || format != "#{session_name}" {
				t.Fatalf("unexpected display-message %s %s", target, format)
			}
			return "work\n", nil
		},
	}
	var gotSocket string
	withStubTmux(t, func(socket string) (tmuxClient, error) {
		gotSocket = socket
		return fake, nil
	})

	id, err := NewWindow("/tmp/sock", WindowOptions{
		Name:       "resume:abc",
		WorkingDir: "/tmp/proj",
		Command:    "goose session --resume --name abc",
		Env:        map[string]string{"B": "2", "A": "1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "@7" {
		t.Fatalf("expected window id @7, got %q", id)
	}
	if gotSocket != "/tmp/sock" {
		t.Fatalf("expected socket /tmp/sock, got %q", gotSocket)
	}
	if len(fake.commandCalls) != 1 {
		t.Fatalf("expected one command, got %d", len(fake.commandCalls))
	}
	want := []string{
		"new-window", "-P", "-F", "#{window_id}", "-c", "/tmp/proj",
		"-t", "work:", "-n", "resume:abc", "-e", "A=1", "-e", "B=2",
		"goose session --resume --name abc",
	}
	if got := strings.Join(fake.commandCalls[0], "|"); got != strings.Join(want, "|") {
		t.Fatalf("unexpected args:\n got %v\nwant %v", fake.commandCalls[0], want)
	}
	if !fake.closed {
		t.Fatalf("expected client to be closed")
	}
}

func TestNewWindowWithoutPaneSkipsTarget(t *testing.T) {
	t.Setenv("TMUX_PANE", "")
	fake := &fakeClient{}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })

	if _, err := NewWindow("", WindowOptions{WorkingDir: "/x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, arg := range fake.commandCalls[0] {
		if arg == "-t" || arg == "-n" {
			t.Fatalf("expected no target or name, got %v", fake.commandCalls[0])
		}
	}
}

func TestNewWindowRequiresWorkingDir(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) {
		t.Fatalf("client should not be created")
		return nil, nil
	})
	if _, err := NewWindow("", WindowOptions{WorkingDir: "  "}); err == nil {
		t.Fatalf("expected error for empty working dir")
	}
}

func TestNewWindowPropagatesErrors(t *testing.T) {
	withStubTmux(t, func(string) (tmuxClient, error) { return nil, errors.New("no server") })
	if _, err := NewWindow("", WindowOptions{WorkingDir: "/x"}); err == nil || err.Error() != "no server" {
		t.Fatalf("expected connect error, got %v", err)
	}

	fake := &fakeClient{commandErr: errors.New("bad dir")}
	withStubTmux(t, func(string) (tmuxClient, error) { return fake, nil })
	_, err := NewWindow("", WindowOptions{WorkingDir: "/x"})
	if err == nil || !strings.Contains(err.Error(), "bad dir") {
		t.Fatalf("expected wrapped command error, got %v", err)
	}
}

func TestBridgeCreateChatWindow(t *testing.T) {
	var got WindowOptions
	var socket string
	prev := newWindowFn
	newWindowFn = func(s string, opts WindowOptions) (string, error) {
		socket = s
		got = opts
		return "@1", nil
	}
	t.Cleanup(func() { newWindowFn = prev })

	bridge := Bridge{SocketPath: "/sock", ResumeCommand: "agent resume {session_id} --dir {working_dir} {query}"}
	err := bridge.CreateChatWindow(host.WindowRequest{WorkingDir: "/tmp/my proj", ResumeSessionID: "abc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if socket != "/sock" {
		t.Fatalf("expected socket /sock, got %q", socket)
	}
	if got.WorkingDir != "/tmp/my proj" || got.Name != "resume:abc" {
		t.Fatalf("unexpected options %#v", got)
	}
	if want := "agent resume abc --dir '/tmp/my proj'"; got.Command != want {
		t.Fatalf("expected command %q, got %q", want, got.Command)
	}
	if got.Env != nil {
		t.Fatalf("expected no env without version, got %v", got.Env)
	}
}

func TestBridgeDefaultsAndVersion(t *testing.T) {
	var got WindowOptions
	prev := newWindowFn
	newWindowFn = func(_ string, opts WindowOptions) (string, error) {
		got = opts
		return "", nil
	}
	t.Cleanup(func() { newWindowFn = prev })

	err := Bridge{}.CreateChatWindow(host.WindowRequest{WorkingDir: "/x", ResumeSessionID: "20240101_123456789", Version: "1.2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Command != "goose session --resume --name 20240101_123456789" {
		t.Fatalf("unexpected default command %q", got.Command)
	}
	if got.Name != "resume:20240101_1234567" {
		t.Fatalf("expected truncated window name, got %q", got.Name)
	}
	if got.Env[versionEnv] != "1.2" {
		t.Fatalf("expected version env, got %v", got.Env)
	}
}

func TestBridgeWrapsErrors(t *testing.T) {
	prev := newWindowFn
	newWindowFn = func(string, WindowOptions) (string, error) { return "", errors.New("denied") }
	t.Cleanup(func() { newWindowFn = prev })
	err := Bridge{}.CreateChatWindow(host.WindowRequest{WorkingDir: "/x"})
	if err == nil || !strings.Contains(err.Error(), "create chat window: denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestExpandCommandQuoting(t *testing.T) {
	cases := []struct {
		template string
		req      host.WindowRequest
		want     string
	}{
		{"run {session_id}", host.WindowRequest{ResumeSessionID: "a'b"}, `run 'a'\''b'`},
		{"run {session_id} {query}", host.WindowRequest{ResumeSessionID: "s1"}, "run s1"},
		{"run {query}", host.WindowRequest{InitialQuery: "hi there"}, "run 'hi there'"},
		{"cd {working_dir} && go", host.WindowRequest{WorkingDir: "/a/b-c_d.e"}, "cd /a/b-c_d.e && go"},
	}
	for _, tc := range cases {
		if got := ExpandCommand(tc.template, tc.req); got != tc.want {
			t.Fatalf("ExpandCommand(%q) = %q, want %q", tc.template, got, tc.want)
		}
	}
}

func TestResolveSocketPath(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		got, err := ResolveSocketPath("/flag")
		if err != nil || got != "/flag" {
			t.Fatalf("expected /flag, got %q err=%v", got, err)
		}
	})
	t.Run("env override", func(t *testing.T) {
		t.Setenv("TMUX_SESSION_BROWSER_SOCKET", "/env")
		got, _ := ResolveSocketPath("")
		if got != "/env" {
			t.Fatalf("expected /env, got %q", got)
		}
	})
	t.Run("tmux env", func(t *testing.T) {
		t.Setenv("TMUX_SESSION_BROWSER_SOCKET", "")
		t.Setenv("TMUX", "/tmp/tmux-1000/default,123,0")
		got, _ := ResolveSocketPath("")
		if got != "/tmp/tmux-1000/default" {
			t.Fatalf("expected socket from $TMUX, got %q", got)
		}
	})
	t.Run("default location", func(t *testing.T) {
		t.Setenv("TMUX_SESSION_BROWSER_SOCKET", "")
		t.Setenv("TMUX", "")
		t.Setenv("TMUX_TMPDIR", "/var/tmp")
		u, err := user.Current()
		if err != nil {
			t.Skipf("user lookup unavailable: %v", err)
		}
		got, err := ResolveSocketPath("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join("/var/tmp", "tmux-"+u.Uid, "default")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}
