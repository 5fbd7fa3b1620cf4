package transport

import "context"

// Plain is an unencrypted TCP stream.
type Plain struct {
	stream
}

// NewPlain returns a Plain transport.
func NewPlain(opts ...Option) *Plain {
	return &Plain{stream: newStream(opts)}
}

// Handshake is a no-op.
func (p *Plain) Handshake(context.Context) error { return nil }

// Secure returns false.
func (p *Plain) Secure() bool { return false }

// Shutdown half-closes the TCP stream. A socket that is already
// disconnected is not an error.
func (p *Plain) Shutdown() error {
	conn, err := p.current()
	if err != nil {
		return nil
	}
	cw, ok := conn.(interface{ CloseWrite() error })
	if !ok {
		return nil
	}
	if err := cw.CloseWrite(); !IgnorableShutdownError(err) {
		return err
	}
	return nil
}

var _ Transport = (*Plain)(nil)
