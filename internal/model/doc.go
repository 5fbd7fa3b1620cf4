// Package model defines the data shared by the crawler and the report
// writers.
//
//   - Query: an artist name in display, URL-encoded and lower-case form
//   - QueryState: per-query progress (page, redirects, matches, start time)
//   - MatchSet: insertion-ordered, bounded set of similar artists
//   - Result: a serializable snapshot of a finished query
//
// Design decision: these types live in their own package so the crawler
// and the report writers can both use them without importing each other.
package model
