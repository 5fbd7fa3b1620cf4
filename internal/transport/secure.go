package transport

import (
	"context"
	"crypto/tls"
	"fmt"
)

// Secure is a TLS client stream over TCP.
type Secure struct {
	stream

	config *tls.Config
	tls    *tls.Conn
}

// NewSecure returns a TLS transport for serverName. The config is cloned;
// nil selects the system defaults with TLS 1.2 as the minimum version.
func NewSecure(serverName string, config *tls.Config, opts ...Option) *Secure {
	var cfg *tls.Config
	if config != nil {
		cfg = config.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = serverName
	}
	return &Secure{stream: newStream(opts), config: cfg}
}

// Handshake performs the TLS client handshake on the connected stream.
func (s *Secure) Handshake(ctx context.Context) error {
	raw, err := s.current()
	if err != nil {
		return err
	}

	conn := tls.Client(raw, s.config)
	if err := conn.HandshakeContext(ctx); err != nil {
		return fmt.Errorf("tls handshake with %s: %w", s.config.ServerName, err)
	}

	if !s.set(conn) {
		conn.Close()
		return ErrNotConnected
	}
	s.tls = conn
	return nil
}

// Secure returns true.
func (s *Secure) Secure() bool { return true }

// Shutdown sends close_notify. Failures are ignored because many servers
// drop the connection without answering it.
func (s *Secure) Shutdown() error {
	if s.tls == nil {
		return nil
	}
	_ = s.tls.CloseWrite() //nolint:errcheck // peer may already be gone
	return nil
}

var _ Transport = (*Secure)(nil)
