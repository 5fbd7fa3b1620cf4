package session

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/lssa/internal/transport"
)

// Engine drives one connection through its states. All methods must be
// called on the loop goroutine.
type Engine struct {
	loop     *Loop
	attr     *Attr
	conn     transport.Transport
	logger   *slog.Logger
	watchdog *watchdog
	ctx      Context

	// opCtx is cancelled when the engine finishes so blocked resolve,
	// connect and handshake steps return.
	opCtx  context.Context
	cancel context.CancelFunc

	// gen identifies the step in flight. Completions from older steps
	// are dropped.
	gen uint64

	reader  *bufio.Reader
	pending *http.Request
	closing bool
	closed  bool
}

func newEngine(loop *Loop, attr *Attr, conn transport.Transport, logger *slog.Logger) *Engine {
	opCtx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		loop:   loop,
		attr:   attr,
		conn:   conn,
		logger: logger,
		opCtx:  opCtx,
		cancel: cancel,
	}
	e.watchdog = newWatchdog(loop, e.expire)
	return e
}

func (e *Engine) setStatus(s Status) {
	if e.attr.Status == s {
		return
	}
	e.logger.Debug("session state", "from", e.attr.Status.String(), "to", s.String(), "address", e.attr.Address)
	e.attr.Status = s
}

// step runs op on a helper goroutine under the watchdog and hands the
// result to done on the loop goroutine.
func (e *Engine) step(op func(ctx context.Context) error, done func(error)) {
	e.gen++
	gen := e.gen
	ctx := e.opCtx

	e.watchdog.arm(e.attr.Timeout)
	e.loop.Go(func() error { return op(ctx) }, func(err error) {
		if gen != e.gen {
			return
		}
		e.watchdog.cancel()
		done(err)
	})
}

// Run starts resolution. OnOpen fires once the connection is usable.
func (e *Engine) Run() {
	var endpoints []string

	e.setStatus(StatusResolving)
	e.step(func(ctx context.Context) error {
		var err error
		endpoints, err = e.conn.Resolve(ctx, e.attr.Address, e.attr.Port)
		return err
	}, func(err error) {
		if err != nil {
			e.fail(err)
			return
		}
		e.connect(endpoints)
	})
}

func (e *Engine) connect(endpoints []string) {
	e.setStatus(StatusConnecting)
	e.step(func(ctx context.Context) error {
		return e.conn.Connect(ctx, endpoints)
	}, func(err error) {
		if err != nil {
			e.fail(err)
			return
		}
		e.reader = bufio.NewReader(e.conn)
		if e.conn.Secure() {
			e.handshake()
			return
		}
		e.open()
	})
}

func (e *Engine) handshake() {
	e.setStatus(StatusHandshaking)
	e.step(e.conn.Handshake, func(err error) {
		if err != nil {
			e.fail(err)
			return
		}
		e.open()
	})
}

func (e *Engine) open() {
	e.setStatus(StatusOpen)
	if e.attr.OnOpen != nil {
		e.attr.OnOpen(&e.ctx)
	}
}

// Write serializes req and sends it. OnWrite fires when every byte is out.
func (e *Engine) Write(req *Request) error {
	if e.attr.Status != StatusOpen {
		return fmt.Errorf("write: %w (%s)", ErrNotOpen, e.attr.Status)
	}
	hr, err := req.build(e.attr.hostPort())
	if err != nil {
		return err
	}

	e.ctx.Request = req
	e.setStatus(StatusWriting)
	e.step(func(context.Context) error {
		return hr.Write(e.conn)
	}, func(err error) {
		if err != nil {
			e.fail(err)
			return
		}
		e.pending = hr
		e.setStatus(StatusOpen)
		if e.attr.OnWrite != nil {
			e.attr.OnWrite(&e.ctx)
		}
	})
	return nil
}

// Read receives the response to the last written request. OnRead fires
// with the complete, decoded response.
func (e *Engine) Read() error {
	if e.attr.Status != StatusOpen {
		return fmt.Errorf("read: %w (%s)", ErrNotOpen, e.attr.Status)
	}
	if e.pending == nil {
		return ErrNoPendingRequest
	}

	req := e.pending
	e.pending = nil
	e.ctx.Response = nil

	var res *Response
	e.setStatus(StatusReading)
	e.step(func(context.Context) error {
		var err error
		res, err = readResponse(e.reader, req, e.attr.MaxBodySize)
		return err
	}, func(err error) {
		if err != nil {
			e.fail(err)
			return
		}
		e.ctx.Response = res
		e.setStatus(StatusOpen)
		if e.attr.OnRead != nil {
			e.attr.OnRead(&e.ctx)
		}
	})
	return nil
}

// Close shuts the connection down gracefully and fires OnClose. It is
// valid from any state, including error, and idempotent.
func (e *Engine) Close() {
	if e.closing || e.closed {
		return
	}
	e.closing = true
	e.pending = nil

	e.setStatus(StatusClosing)
	e.step(func(context.Context) error {
		return e.conn.Shutdown()
	}, e.finish)
}

// finish releases the socket and fires OnClose. A shutdown failure other
// than "not connected" is reported through OnError first.
func (e *Engine) finish(err error) {
	if e.closed {
		return
	}
	e.gen++
	e.watchdog.cancel()
	e.cancel()

	if cerr := e.conn.Close(); err == nil {
		err = cerr
	}
	if !transport.IgnorableShutdownError(err) {
		e.setStatus(StatusError)
		e.report(err)
	}

	e.closed = true
	e.setStatus(StatusClosed)
	if e.attr.OnClose != nil {
		e.attr.OnClose(&e.ctx)
	}
}

// Error moves the engine to the error state and fires OnError.
func (e *Engine) Error(err error) {
	e.fail(err)
}

func (e *Engine) fail(err error) {
	if e.closed || e.closing {
		return
	}
	e.gen++
	e.watchdog.cancel()
	e.pending = nil
	e.setStatus(StatusError)
	e.report(err)
}

func (e *Engine) report(err error) {
	e.logger.Debug("session error", "address", e.attr.Address, "error", err)
	if e.attr.OnError != nil {
		e.attr.OnError(err)
	}
}

// expire is the watchdog callback. The transport is closed so the helper
// goroutine blocked in the step returns.
func (e *Engine) expire(d time.Duration) {
	e.logger.Debug("session watchdog expired", "state", e.attr.Status.String(), "timeout", d)
	if e.closing {
		e.finish(nil)
		return
	}
	e.cancel()
	_ = e.conn.Close() //nolint:errcheck // forced close
	e.fail(fmt.Errorf("%w after %s", ErrTimeout, d))
}

// Abort releases the connection immediately without firing callbacks.
func (e *Engine) Abort() {
	if e.closed {
		return
	}
	e.gen++
	e.watchdog.cancel()
	e.cancel()
	_ = e.conn.Close() //nolint:errcheck // nothing left to report to
	e.closing = true
	e.closed = true
	e.setStatus(StatusClosed)
}

// Closed reports whether the engine has released its connection.
func (e *Engine) Closed() bool {
	return e.closed
}
