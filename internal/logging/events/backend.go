package events

import "github.com/atomicstack/tmux-session-browser/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Snapshot(count int) {
	logging.Trace("backend.snapshot", map[string]interface{}{"sessions": count})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}
