package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Loop is a single-threaded event loop.
//
// Post is safe from any goroutine. Run, Restart and Wait must be called by
// the goroutine that owns the loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}

	// helpers tracks goroutines started with Go.
	helpers errgroup.Group
}

// NewLoop returns a loop ready to Run.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop goroutine. Callbacks posted to a
// stopped loop are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.notify()
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run executes posted callbacks until Stop is called or ctx is done. It
// returns nil after Stop and ctx.Err() after cancellation. Cancellation
// also stops the loop.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			l.Stop()
			return err
		}

		fn, stopped := l.next()
		if stopped {
			return nil
		}
		if fn != nil {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (fn func(), stopped bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return nil, true
	}
	if len(l.queue) == 0 {
		return nil, false
	}
	fn = l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, false
}

// Stop makes Run return once the current callback finishes. Pending
// callbacks are discarded.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.queue = nil
	l.mu.Unlock()
	l.notify()
}

// Stopped reports whether Stop has been called since the last Restart.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Restart clears the stopped flag so Run can be called again.
func (l *Loop) Restart() {
	l.mu.Lock()
	l.stopped = false
	l.queue = nil
	l.mu.Unlock()

	select {
	case <-l.wake:
	default:
	}
}

// Go runs op on a helper goroutine and posts done(err) to the loop when
// it returns.
func (l *Loop) Go(op func() error, done func(error)) {
	l.helpers.Go(func() error {
		err := op()
		l.Post(func() { done(err) })
		return nil
	})
}

// Wait blocks until every helper goroutine started with Go has returned.
func (l *Loop) Wait() {
	_ = l.helpers.Wait() //nolint:errcheck // helpers always return nil
}

// AfterFunc posts fn to the loop after d. The returned function cancels
// the timer and reports whether it was still pending. A callback that was
// already posted still runs; callers that need exact cancellation keep
// their own generation counter.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}
