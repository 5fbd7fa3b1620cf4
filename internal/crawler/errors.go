package crawler

import (
	"errors"

	"github.com/nao1215/lssa/internal/extract"
)

var (
	// ErrNoQueries is returned when Run is called without queries.
	ErrNoQueries = errors.New("no queries to run")

	// ErrTransport covers resolve, connect, handshake, write and read
	// failures, including watchdog timeouts.
	ErrTransport = errors.New("transport error")

	// ErrHTTP is returned for a status that is neither a success nor a
	// redirect.
	ErrHTTP = errors.New("http error")

	// ErrRedirectLimit is returned when a query is redirected more often
	// than allowed.
	ErrRedirectLimit = errors.New("redirect limit reached")

	// ErrInvalidRedirect is returned when a Location cannot be parsed.
	ErrInvalidRedirect = extract.ErrInvalidRedirect

	// ErrEmptyBody is returned for a successful response without a body.
	ErrEmptyBody = errors.New("received empty response")

	// ErrNoMatches is returned when a page contains no artist links.
	ErrNoMatches = extract.ErrNoMatches

	// ErrOutput is returned when results cannot be written.
	ErrOutput = errors.New("output error")

	// ErrInterrupted is returned when the run context is cancelled.
	ErrInterrupted = errors.New("interrupted")
)

// reasonError is the error returned by Run. Its message is the reason
// alone, so the CLI can print it as is.
type reasonError struct {
	kind   error
	reason string
	cause  error
}

func (e *reasonError) Error() string {
	return e.reason
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *reasonError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func newReason(kind error, reason string, cause error) *reasonError {
	if reason == "" {
		reason = kind.Error()
	}
	return &reasonError{kind: kind, reason: reason, cause: cause}
}
