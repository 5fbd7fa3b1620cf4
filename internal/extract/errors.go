package extract

import "errors"

var (
	// ErrNoMatches is returned by Scan when the body holds no artist link.
	ErrNoMatches = errors.New("no matches found")

	// ErrInvalidRedirect is returned when a Location does not point at a
	// similar-artists page.
	ErrInvalidRedirect = errors.New("invalid redirect URL")
)
