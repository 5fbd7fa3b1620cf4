// Package crawler drives the session client through every query.
//
// # Flow
//
// A Crawler owns one session.Client and the loop it runs on. For each
// query it requests /music/<artist>/+similar?page=n, page by page, until
// the target number of matches is reached or the page limit runs out, then
// moves on to the next query over the same connection.
//
//	open -> write -> read -> (redirect | collect | fail) -> pace -> write ...
//
// A redirect replaces the artist and retries the same page. Any other
// failure stops the run: the reason is stored, the session is closed, and
// Run returns it.
//
// # Reconnects
//
// The loop is restarted with a fresh connection only when:
//   - the server answered with Connection: close and more requests remain
//   - a redirect points at a different host; its scheme selects TLS
//
// A transport error is never retried, even when the connection had already
// carried a response.
//
// # Errors
//
// Every error returned by Run has the human readable reason as its
// message and matches one of the package sentinels with errors.Is.
package crawler
