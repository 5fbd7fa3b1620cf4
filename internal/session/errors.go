package session

import "errors"

// Session errors.
var (
	// ErrTimeout is reported through OnError when the watchdog expires.
	ErrTimeout = errors.New("operation timed out")

	// ErrNotOpen is returned by Write and Read when the connection is not
	// in the open state.
	ErrNotOpen = errors.New("connection is not open")

	// ErrNoPendingRequest is returned by Read when no request has been written.
	ErrNoPendingRequest = errors.New("no request awaiting a response")

	// ErrNotStarted is returned by Client methods called before Run.
	ErrNotStarted = errors.New("session has not been started")

	// ErrUnsupportedEncoding is returned when a response uses a
	// Content-Encoding that cannot be decoded.
	ErrUnsupportedEncoding = errors.New("unsupported content encoding")
)
