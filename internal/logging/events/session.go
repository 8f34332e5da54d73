package events

import "github.com/atomicstack/tmux-session-browser/internal/logging"

type SessionTracer struct{}

type sessionReason string

const (
	SessionReasonNoWorkingDir sessionReason = "no-working-dir"
	SessionReasonNoSelection  sessionReason = "no-selection"
)

var Session = SessionTracer{}

func (SessionTracer) Select(id string, generation uint64) {
	logging.Trace("session.select", map[string]interface{}{"id": id, "generation": generation})
}

func (SessionTracer) Retry(id string, generation uint64) {
	logging.Trace("session.retry", map[string]interface{}{"id": id, "generation": generation})
}

func (SessionTracer) Loaded(id string, messages int) {
	logging.Trace("session.loaded", map[string]interface{}{"id": id, "messages": messages})
}

func (SessionTracer) LoadFailed(id string, err error) {
	payload := map[string]interface{}{"id": id}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("session.load.error", payload)
}

func (SessionTracer) Stale(id string, generation, current uint64) {
	logging.Trace("session.load.stale", map[string]interface{}{
		"id":         id,
		"generation": generation,
		"current":    current,
	})
}

func (SessionTracer) Back(id string) {
	logging.Trace("session.back", map[string]interface{}{"id": id})
}

func (SessionTracer) Resume(id, workingDir string) {
	logging.Trace("session.resume", map[string]interface{}{"id": id, "workingDir": workingDir})
}

func (SessionTracer) ResumeSkipped(id string, reason sessionReason) {
	logging.Trace("session.resume.skip", map[string]interface{}{"id": id, "reason": string(reason)})
}
