package model

import "time"

// QueryState tracks the progress of one query across pages and redirects.
type QueryState struct {
	Query Query

	// Page is the next page to request, starting at 1.
	Page int

	// Redirects is the number of redirects followed so far.
	Redirects int

	// Matches holds the artists found so far.
	Matches *MatchSet

	// Target is the number of matches wanted.
	Target int

	// Started is when the first request for this query was sent.
	Started time.Time
}

// NewQueryState returns the state for a query that has not started.
func NewQueryState(q Query, target int) *QueryState {
	return &QueryState{
		Query:   q,
		Page:    1,
		Matches: NewMatchSet(target),
		Target:  target,
	}
}

// Complete reports whether the query needs no more pages: enough matches
// were found or pageTotal pages were read.
func (s *QueryState) Complete(pageTotal int) bool {
	return s.Matches.Len() >= s.Target || s.Page > pageTotal
}

// Path returns the request path for the query's similar-artists page.
func (s *QueryState) Path() string {
	return "/music/" + s.Query.Encoded + "/+similar"
}

// Result is the serializable outcome of a query.
type Result struct {
	Artist    string   `json:"artist"`
	Matches   []string `json:"matches"`
	Pages     int      `json:"pages"`
	Redirects int      `json:"redirects"`
}

// Result returns a snapshot of the state for reporting.
func (s *QueryState) Result() Result {
	names := s.Matches.Names()
	if names == nil {
		names = []string{}
	}
	return Result{
		Artist:    s.Query.Display,
		Matches:   names,
		Pages:     s.Page - 1,
		Redirects: s.Redirects,
	}
}
