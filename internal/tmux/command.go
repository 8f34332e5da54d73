package tmux

import (
	"strings"

	"github.com/atomicstack/tmux-session-browser/internal/host"
)

// DefaultResumeCommand resumes a goose session by id.
const DefaultResumeCommand = "goose session --resume --name {session_id}"

const (
	placeholderSessionID  = "{session_id}"
	placeholderWorkingDir = "{working_dir}"
	placeholderQuery      = "{query}"
	placeholderVersion    = "{version}"
)

// ExpandCommand substitutes the request fields into template. Substituted
// values are shell quoted; empty optional values expand to nothing.
func ExpandCommand(template string, req host.WindowRequest) string {
	replacements := []string{
		placeholderSessionID, quoteOptional(req.ResumeSessionID),
		placeholderWorkingDir, quoteOptional(req.WorkingDir),
		placeholderQuery, quoteOptional(req.InitialQuery),
		placeholderVersion, quoteOptional(req.Version),
	}
	expanded := strings.NewReplacer(replacements...).Replace(template)
	return strings.TrimSpace(expanded)
}

func quoteOptional(value string) string {
	if value == "" {
		return ""
	}
	return shellQuote(value)
}

// shellQuote wraps s in single quotes, escaping embedded single quotes.
func shellQuote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:@%+=,", r)
}
