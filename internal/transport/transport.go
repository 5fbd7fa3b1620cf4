package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
)

// Transport is a byte stream to one remote endpoint.
//
// Resolve, Connect and Handshake block and accept a context for
// cancellation. Read, Write and Shutdown block until the peer answers or
// Close is called from another goroutine. Close is safe to call
// concurrently with any other method.
type Transport interface {
	// Resolve turns host and port into candidate "host:port" endpoints.
	Resolve(ctx context.Context, host string, port uint16) ([]string, error)

	// Connect tries the endpoints in order and keeps the first that succeeds.
	Connect(ctx context.Context, endpoints []string) error

	// Handshake performs the TLS handshake. It is a no-op for plain streams.
	Handshake(ctx context.Context) error

	// Secure reports whether the stream needs a handshake.
	Secure() bool

	Read(p []byte) (int, error)
	Write(p []byte) (int, error)

	// Shutdown ends the outgoing half of the stream gracefully.
	Shutdown() error

	// Close releases the connection. It is idempotent.
	Close() error
}

// Dialer opens network connections. *net.Dialer and *Proxy satisfy it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Resolver looks up host addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Option configures a Transport.
type Option func(*options)

type options struct {
	dialer    Dialer
	resolver  Resolver
	remoteDNS bool
}

func defaultOptions() options {
	return options{
		dialer:   &net.Dialer{},
		resolver: net.DefaultResolver,
	}
}

// WithDialer sets the dialer used by Connect.
func WithDialer(d Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

// WithResolver sets the resolver used by Resolve.
func WithResolver(r Resolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithProxy routes connections through a SOCKS5 proxy.
//
// Design decision: host names are not resolved locally when a proxy is in
// use. The proxy receives the name and resolves it on its side, so no DNS
// query leaves this machine.
func WithProxy(p *Proxy) Option {
	return func(o *options) {
		if p == nil {
			return
		}
		o.dialer = p
		o.remoteDNS = true
	}
}

// stream holds the connection state shared by Plain and Secure.
type stream struct {
	opts options

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

func newStream(opts []Option) stream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return stream{opts: o}
}

func (s *stream) Resolve(ctx context.Context, host string, port uint16) ([]string, error) {
	portStr := strconv.Itoa(int(port))
	if s.opts.remoteDNS || net.ParseIP(host) != nil {
		return []string{net.JoinHostPort(host, portStr)}, nil
	}

	addrs, err := s.opts.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("resolve %s: %w", host, ErrNoAddress)
	}

	endpoints := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		endpoints = append(endpoints, net.JoinHostPort(addr, portStr))
	}
	return endpoints, nil
}

func (s *stream) Connect(ctx context.Context, endpoints []string) error {
	lastErr := ErrNoAddress
	for _, endpoint := range endpoints {
		conn, err := s.opts.dialer.DialContext(ctx, "tcp", endpoint)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if !s.set(conn) {
			conn.Close()
			return ErrNotConnected
		}
		return nil
	}
	return lastErr
}

// set installs conn unless the stream was closed in the meantime.
func (s *stream) set(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conn = conn
	return true
}

func (s *stream) current() (net.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil || s.closed {
		return nil, ErrNotConnected
	}
	return s.conn, nil
}

func (s *stream) Read(p []byte) (int, error) {
	conn, err := s.current()
	if err != nil {
		return 0, err
	}
	return conn.Read(p)
}

func (s *stream) Write(p []byte) (int, error) {
	conn, err := s.current()
	if err != nil {
		return 0, err
	}
	return conn.Write(p)
}

func (s *stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// IgnorableShutdownError reports whether err only says the peer is already gone.
func IgnorableShutdownError(err error) bool {
	return err == nil ||
		errors.Is(err, syscall.ENOTCONN) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, ErrNotConnected)
}
