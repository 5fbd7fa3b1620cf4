package session

import (
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/nao1215/lssa/internal/transport"
)

// Context is handed to every callback. Request is the last request
// written and Response the last response read; both may be nil.
type Context struct {
	Request  *Request
	Response *Response
}

// Attr holds the connection attributes and callbacks a Client shares with
// the Engine it is currently running.
type Attr struct {
	// Address is the remote host name or IP.
	Address string

	// Port is the remote TCP port.
	Port uint16

	// Secure selects TLS.
	Secure bool

	// TLSConfig is cloned for each connection. Nil uses system defaults.
	TLSConfig *tls.Config

	// Timeout bounds every network step. Zero disables the watchdog.
	Timeout time.Duration

	// MaxBodySize caps a response body. Zero selects DefaultMaxBodySize.
	MaxBodySize int64

	// TransportOptions are passed to the transport constructor.
	TransportOptions []transport.Option

	// Status is the state of the current engine.
	Status Status

	OnOpen  func(*Context)
	OnWrite func(*Context)
	OnRead  func(*Context)
	OnClose func(*Context)
	OnError func(error)
}

// hostPort returns the Host header value for the connection, omitting the
// port when it is the default for the scheme.
func (a *Attr) hostPort() string {
	if (a.Secure && a.Port == 443) || (!a.Secure && a.Port == 80) || a.Port == 0 {
		return a.Address
	}
	return net.JoinHostPort(a.Address, strconv.Itoa(int(a.Port)))
}

// newTransport builds the default transport for a.
func newTransport(a *Attr) transport.Transport {
	if a.Secure {
		return transport.NewSecure(a.Address, a.TLSConfig, a.TransportOptions...)
	}
	return transport.NewPlain(a.TransportOptions...)
}
