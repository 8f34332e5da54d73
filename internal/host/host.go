// Package host defines the capability used to open new top-level windows for
// resumed sessions.
package host

// WindowRequest asks the host for a new chat window. Zero-valued fields are
// treated as not provided.
type WindowRequest struct {
	InitialQuery    string
	WorkingDir      string
	Version         string
	ResumeSessionID string
}

// Bridge opens windows on behalf of the browser.
type Bridge interface {
	CreateChatWindow(req WindowRequest) error
}

// BridgeFunc adapts a function to the Bridge interface.
type BridgeFunc func(req WindowRequest) error

func (f BridgeFunc) CreateChatWindow(req WindowRequest) error {
	return f(req)
}
