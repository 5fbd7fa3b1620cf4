package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and describe which value
// is wrong.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() while the message stays readable on the command line.
var (
	// ErrNoQuery is returned when no artist is given.
	ErrNoQuery = errors.New("no artist specified")

	// ErrTooManyQueries is returned when more than MaxQueries artists are given.
	ErrTooManyQueries = errors.New("too many artists: at most 100 per run")

	// ErrInvalidCount is returned when --count is outside 1-100.
	ErrInvalidCount = errors.New("invalid count: must be between 1 and 100")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPageTotal is returned when --pages is less than 1.
	ErrInvalidPageTotal = errors.New("invalid page total: must be at least 1")

	// ErrInvalidRedirectTotal is returned when the redirect limit is negative.
	ErrInvalidRedirectTotal = errors.New("invalid redirect total: must be non-negative")

	// ErrInvalidColour is returned when --colour is not auto, on or off.
	ErrInvalidColour = errors.New("invalid colour: must be auto, on or off")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidProxyAddress is returned when --proxy is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidHeader is returned by ParseHeader for entries without a colon
	// or with an empty key.
	ErrInvalidHeader = errors.New("invalid header: expected key:value")
)
