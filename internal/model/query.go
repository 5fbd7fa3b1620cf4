package model

import (
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/lssa/internal/extract"
)

// Query is one artist being searched for.
//
// Design decision: the three forms are stored rather than derived on
// demand. Display is printed, Encoded goes into every request path and
// Lower is compared against every candidate on every page.
type Query struct {
	// Display is the name as shown to the user.
	Display string `json:"artist"`

	// Encoded is Display escaped for use as a path segment.
	Encoded string `json:"-"`

	// Lower is the lower-cased Display used for self-exclusion.
	Lower string `json:"-"`
}

// NewQuery builds a Query from user input. With ignoreCase the input is
// title-cased, so "tom waits" is searched and printed as "Tom Waits".
// Otherwise it is used exactly as typed.
func NewQuery(input string, ignoreCase bool) Query {
	display := input
	if ignoreCase {
		display = Title(input)
	}
	return Query{
		Display: display,
		Encoded: url.QueryEscape(display),
		Lower:   Lower(input),
	}
}

// Redirect replaces the query with the artist a redirect points at. raw is
// the still-encoded path segment from the Location header and is used
// verbatim in later requests.
func (q *Query) Redirect(raw string) {
	q.Encoded = raw
	q.Display = extract.Decode(raw)
	q.Lower = Lower(q.Display)
}

// Title title-cases s.
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

// Lower lower-cases s.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
