package session

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/nao1215/lssa/internal/transport"
)

// Client is the HTTP façade over an Engine. Every method except the
// constructor must be called on the loop goroutine.
//
// Design decision: Run replaces the engine instead of resetting it. A
// reconnect therefore starts from a clean transport, parser and watchdog,
// while the attributes and callbacks carry over.
type Client struct {
	loop    *Loop
	attr    Attr
	engine  *Engine
	logger  *slog.Logger
	factory func(*Attr) transport.Transport
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger for state transitions.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout sets the per-step watchdog timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.attr.Timeout = d
	}
}

// WithTLSConfig sets the TLS client configuration.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *Client) {
		c.attr.TLSConfig = cfg
	}
}

// WithMaxBodySize caps the response body size.
func WithMaxBodySize(n int64) ClientOption {
	return func(c *Client) {
		c.attr.MaxBodySize = n
	}
}

// WithTransportOptions passes options to every transport the client creates.
func WithTransportOptions(opts ...transport.Option) ClientOption {
	return func(c *Client) {
		c.attr.TransportOptions = append(c.attr.TransportOptions, opts...)
	}
}

// WithTransportFactory replaces the transport constructor.
func WithTransportFactory(factory func(*Attr) transport.Transport) ClientOption {
	return func(c *Client) {
		if factory != nil {
			c.factory = factory
		}
	}
}

// NewClient returns a client for address:port. Nothing is dialed until Run.
func NewClient(loop *Loop, address string, port uint16, secure bool, opts ...ClientOption) *Client {
	c := &Client{
		loop: loop,
		attr: Attr{
			Address:     address,
			Port:        port,
			Secure:      secure,
			MaxBodySize: DefaultMaxBodySize,
			Status:      StatusClosed,
		},
		logger:  slog.New(slog.DiscardHandler),
		factory: newTransport,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run discards the previous engine, if any, and starts a new one.
func (c *Client) Run() {
	if c.engine != nil {
		c.engine.Abort()
	}
	c.engine = newEngine(c.loop, &c.attr, c.factory(&c.attr), c.logger)
	c.engine.Run()
}

// Write sends req on the current connection.
func (c *Client) Write(req *Request) error {
	if c.engine == nil {
		return ErrNotStarted
	}
	return c.engine.Write(req)
}

// Read receives the response to the last written request.
func (c *Client) Read() error {
	if c.engine == nil {
		return ErrNotStarted
	}
	return c.engine.Read()
}

// Close closes the current connection gracefully.
func (c *Client) Close() {
	if c.engine != nil {
		c.engine.Close()
	}
}

// Abort drops the current connection without callbacks.
func (c *Client) Abort() {
	if c.engine != nil {
		c.engine.Abort()
	}
}

// Error reports err through OnError as if the connection had failed.
func (c *Client) Error(err error) {
	if c.engine != nil {
		c.engine.Error(err)
	}
}

// Status returns the state of the current connection.
func (c *Client) Status() Status {
	return c.attr.Status
}

// StatusString returns the state name.
func (c *Client) StatusString() string {
	return c.attr.Status.String()
}

// Address returns the remote host.
func (c *Client) Address() string {
	return c.attr.Address
}

// Port returns the remote port.
func (c *Client) Port() uint16 {
	return c.attr.Port
}

// Secure reports whether the client connects over TLS.
func (c *Client) Secure() bool {
	return c.attr.Secure
}

// SetSecure selects TLS or plain TCP for the next Run.
func (c *Client) SetSecure(secure bool) {
	c.attr.Secure = secure
}

// SetAddress changes the remote endpoint for the next Run. A zero port
// keeps the current one.
func (c *Client) SetAddress(address string, port uint16) {
	c.attr.Address = address
	if port != 0 {
		c.attr.Port = port
	}
}

// OnOpen sets the callback fired when the connection is ready.
func (c *Client) OnOpen(fn func(*Context)) { c.attr.OnOpen = fn }

// OnWrite sets the callback fired when a request has been sent.
func (c *Client) OnWrite(fn func(*Context)) { c.attr.OnWrite = fn }

// OnRead sets the callback fired when a response has been read.
func (c *Client) OnRead(fn func(*Context)) { c.attr.OnRead = fn }

// OnClose sets the callback fired when the connection has been closed.
func (c *Client) OnClose(fn func(*Context)) { c.attr.OnClose = fn }

// OnError sets the callback fired on any failure.
func (c *Client) OnError(fn func(error)) { c.attr.OnError = fn }
