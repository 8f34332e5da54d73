package session

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a session id with no backing file.
var ErrNotFound = errors.New("session not found")

// LoadError describes a failed session read. Msg is always populated so the
// failure can be shown to users without inspecting the wrapped error.
type LoadError struct {
	SessionID string
	Msg       string
	Err       error
}

func (e *LoadError) Error() string {
	if e.SessionID == "" {
		return e.Msg
	}
	return fmt.Sprintf("session %s: %s", e.SessionID, e.Msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(id string, err error, format string, args ...interface{}) *LoadError {
	msg := fmt.Sprintf(format, args...)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &LoadError{SessionID: id, Msg: msg, Err: err}
}

// ErrorMessage extracts a human readable description from any failure value.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var loadErr *LoadError
	if errors.As(err, &loadErr) && loadErr.Msg != "" {
		return loadErr.Msg
	}
	return err.Error()
}
