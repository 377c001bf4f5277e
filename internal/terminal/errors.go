package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrTerminalClosed is returned when operations are attempted on a closed terminal.
	ErrTerminalClosed = errors.New("terminal is closed")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("terminal session already started")

	// ErrNotStarted is returned when input is sent without a session.
	ErrNotStarted = errors.New("terminal session not started")
)
