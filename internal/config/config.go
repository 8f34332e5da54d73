package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/app"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/tmux"
	"github.com/atomicstack/tmux-session-browser/internal/toast"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envSessionsDir   = "TMUX_SESSION_BROWSER_SESSIONS_DIR"
	envSocketPath    = "TMUX_SESSION_BROWSER_SOCKET"
	envResumeCommand = "TMUX_SESSION_BROWSER_RESUME_COMMAND"
	envWidth         = "TMUX_SESSION_BROWSER_WIDTH"
	envHeight        = "TMUX_SESSION_BROWSER_HEIGHT"
	envShowFooter    = "TMUX_SESSION_BROWSER_FOOTER"
	envVerbose       = "TMUX_SESSION_BROWSER_VERBOSE"
	envTrace         = "TMUX_SESSION_BROWSER_TRACE"
	envLogFile       = "TMUX_SESSION_BROWSER_LOG_FILE"
	envRefresh       = "TMUX_SESSION_BROWSER_REFRESH"
	envToastTTL      = "TMUX_SESSION_BROWSER_TOAST_TTL"
)

const defaultRefresh = 2 * time.Second

const sessionIDPlaceholder = "{session_id}"

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	defaultDir, err := session.DefaultDir()
	if err != nil {
		defaultDir = ""
	}

	fs := flag.NewFlagSet("tmux-session-browser", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	sessionsDir := fs.String("sessions-dir", envOrDefault(env, envSessionsDir, defaultDir), "directory holding session .jsonl files")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	resume := fs.String("resume-command", envOrDefault(env, envResumeCommand, tmux.DefaultResumeCommand), "command run in the new window; {session_id} and {working_dir} are substituted")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	refresh := fs.Duration("refresh", envOrDuration(env, envRefresh, defaultRefresh), "interval between session directory scans")
	toastTTL := fs.Duration("toast-ttl", envOrDuration(env, envToastTTL, toast.DefaultTTL), "how long notifications stay visible")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			SessionsDir:   *sessionsDir,
			SocketPath:    *socket,
			ResumeCommand: *resume,
			Width:         *width,
			Height:        *height,
			ShowFooter:    *footer,
			Verbose:       *verbose,
			Refresh:       *refresh,
			ToastTTL:      *toastTTL,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"sessionsDir":   *sessionsDir,
			"socket":        *socket,
			"resumeCommand": *resume,
			"width":         strconv.Itoa(*width),
			"height":        strconv.Itoa(*height),
			"footer":        strconv.FormatBool(*footer),
			"trace":         strconv.FormatBool(*trace),
			"verbose":       strconv.FormatBool(*verbose),
			"logFile":       *logFile,
			"refresh":       refresh.String(),
			"toastTTL":      toastTTL.String(),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	var errs []error
	if strings.TrimSpace(cfg.App.SessionsDir) == "" {
		errs = append(errs, errors.New("sessions directory is required"))
	}
	if cfg.App.Width < 0 {
		errs = append(errs, fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width))
	}
	if cfg.App.Height < 0 {
		errs = append(errs, fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height))
	}
	if cfg.App.Refresh <= 0 {
		errs = append(errs, fmt.Errorf("refresh must be > 0 (got %s)", cfg.App.Refresh))
	}
	if cfg.App.ToastTTL <= 0 {
		errs = append(errs, fmt.Errorf("toast ttl must be > 0 (got %s)", cfg.App.ToastTTL))
	}
	if !strings.Contains(cfg.App.ResumeCommand, sessionIDPlaceholder) {
		errs = append(errs, fmt.Errorf("resume command must contain %s", sessionIDPlaceholder))
	}
	return errors.Join(errs...)
}
