package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/tmux-session-browser/internal/app"
	"github.com/atomicstack/tmux-session-browser/internal/config"
	"github.com/atomicstack/tmux-session-browser/internal/logging"
	"github.com/atomicstack/tmux-session-browser/internal/logging/events"
	"github.com/atomicstack/tmux-session-browser/internal/tmux"
	"golang.org/x/term"
)

var (
	isTerminal   = term.IsTerminal
	terminalSize = term.GetSize
	resolveSock  = tmux.ResolveSocketPath
)

func main() {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(runtimeCfg))
	}

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload records what the browser is about to read and where it
// will open resumed sessions.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    flags,
		"config":   cfg,
		"sessions": probeSessionsDir(cfg.App.SessionsDir),
		"tmux":     probeSocket(cfg.App.SocketPath),
		"terminal": probeTerminal(cfg.App.Width, cfg.App.Height),
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type sessionsDirInfo struct {
	Path         string `json:"path"`
	Exists       bool   `json:"exists"`
	SessionFiles int    `json:"session_files"`
	Error        string `json:"error,omitempty"`
}

// probeSessionsDir counts the .jsonl files the first listing will read. A
// missing directory is not an error; the list simply starts empty.
func probeSessionsDir(dir string) sessionsDirInfo {
	info := sessionsDirInfo{Path: dir}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			info.Error = err.Error()
		}
		return info
	}
	info.Exists = true
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info.SessionFiles++
	}
	return info
}

type socketInfo struct {
	Path       string `json:"path,omitempty"`
	Source     string `json:"source"`
	Reachable  bool   `json:"reachable"`
	InsideTmux bool   `json:"inside_tmux"`
	Error      string `json:"error,omitempty"`
}

func probeSocket(flagValue string) socketInfo {
	info := socketInfo{Source: "detected", InsideTmux: os.Getenv("TMUX") != ""}
	if flagValue != "" {
		info.Source = "flag"
	}
	path, err := resolveSock(flagValue)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Path = filepath.Clean(path)
	if st, err := os.Stat(info.Path); err == nil {
		info.Reachable = st.Mode()&os.ModeSocket != 0
	} else {
		info.Error = err.Error()
	}
	return info
}

type terminalInfo struct {
	Interactive bool   `json:"interactive"`
	SizeSource  string `json:"size_source"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Error       string `json:"error,omitempty"`
}

// probeTerminal reports the viewport the browser will start with. Configured
// dimensions win over whatever the output descriptors report.
func probeTerminal(width, height int) terminalInfo {
	info := terminalInfo{SizeSource: "none"}
	descriptors := []struct {
		name string
		fd   uintptr
	}{
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	for _, d := range descriptors {
		fd := int(d.fd)
		if fd < 0 || !isTerminal(fd) {
			continue
		}
		info.Interactive = true
		w, h, err := terminalSize(fd)
		if err != nil {
			info.Error = err.Error()
			continue
		}
		info.SizeSource, info.Width, info.Height = d.name, w, h
		break
	}
	if width > 0 {
		info.Width = width
		info.SizeSource = "flag"
	}
	if height > 0 {
		info.Height = height
		info.SizeSource = "flag"
	}
	return info
}
