package events

import "github.com/atomicstack/tmux-session-browser/internal/logging"

type ToastTracer struct{}

var Toast = ToastTracer{}

func (ToastTracer) Push(id, level, title, traceback string) {
	logging.Trace("toast.push", map[string]interface{}{
		"id":        id,
		"level":     level,
		"title":     title,
		"traceback": traceback,
	})
}

func (ToastTracer) Dismiss(id string) {
	logging.Trace("toast.dismiss", map[string]interface{}{"id": id})
}
