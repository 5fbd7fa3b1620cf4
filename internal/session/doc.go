// Package session implements an HTTP/1.1 client driven by a single-threaded
// event loop.
//
// A Loop runs posted callbacks one at a time on the goroutine that called
// Run. Blocking network work happens on helper goroutines started with
// Loop.Go; their completions are posted back to the loop, so every state
// transition and every user callback runs on the loop goroutine.
//
// An Engine owns one connection and walks it through the states
//
//	closed -> resolving -> connecting -> [handshaking] -> open
//	open -> writing -> open -> reading -> open
//	any -> closing -> closed
//	any -> error
//
// Every network step is guarded by a watchdog. When it expires the
// connection is force-closed and ErrTimeout is reported through OnError.
//
// Client is the façade the crawler uses. It holds the connection attributes
// and the callbacks, and replaces its Engine on every Run so a later run
// never shares state with an earlier one.
package session
