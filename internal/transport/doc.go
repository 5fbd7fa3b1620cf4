// Package transport provides the byte streams used by the session engine.
//
// A Transport covers one connection attempt to one remote endpoint:
//
//	resolve -> connect -> (TLS only) handshake -> read/write -> shutdown -> close
//
// Two implementations exist. Plain streams bytes over TCP. Secure wraps the
// same TCP stream in a TLS client and performs the handshake as a separate
// step so the caller can observe it.
//
// Connections are opened with a Dialer. By default a net.Dialer is used;
// NewProxy returns a SOCKS5 dialer (golang.org/x/net/proxy). When a proxy
// is configured, host names are handed to the proxy unresolved.
//
// A Transport is not reusable. Once closed, create a new one.
package transport
