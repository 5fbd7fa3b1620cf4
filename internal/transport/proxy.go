package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds Proxy.Check. It is only a connectivity probe.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 greeting bytes.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// Proxy is a SOCKS5 dialer.
type Proxy struct {
	// address is the proxy in "host:port" format.
	address string

	// dialer is cached so every connection reuses the same SOCKS5 client.
	dialer proxy.ContextDialer
}

// NewProxy creates a SOCKS5 dialer for address ("host:port").
//
// The address format is validated but the proxy is not contacted. Call
// Check to verify that it is running.
func NewProxy(address string) (*Proxy, error) {
	if !IsValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}

	// No auth: local SOCKS ports rarely require it.
	d, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %T has no DialContext", d)
	}

	return &Proxy{address: address, dialer: cd}, nil
}

// DialContext connects to address through the proxy.
func (p *Proxy) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	return p.dialer.DialContext(ctx, network, address)
}

// Address returns the configured proxy address.
func (p *Proxy) Address() string {
	return p.address
}

// Check sends a SOCKS5 greeting offering "no authentication" and inspects
// the answer.
func (p *Proxy) Check(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	reply := make([]byte, 2)
	if _, err := io.ReadFull(conn, reply); err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}

	if reply[0] != socks5Version || reply[1] == socks5AuthNoAccept || reply[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}
	return ProxyStatusOK
}

// IsValidProxyAddress checks that address is "host:port" with a non-empty
// host and a port in 1-65535. Schemes and paths are rejected.
func IsValidProxyAddress(address string) bool {
	host, port, found := strings.Cut(address, ":")
	if !found || host == "" || port == "" || strings.Contains(port, ":") {
		return false
	}

	portNum := 0
	for _, c := range port {
		if c < '0' || c > '9' {
			return false
		}
		portNum = portNum*10 + int(c-'0')
		if portNum > 65535 {
			return false
		}
	}
	return portNum >= 1
}
