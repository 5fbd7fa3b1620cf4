package session

import "time"

// watchdog bounds a single network step. It lives on the loop goroutine.
//
// Design decision: the timer callback is posted through the loop, so a
// cancel that races with expiry still wins if it runs first. The
// generation counter makes that check exact: a callback from an earlier
// arm never fires.
type watchdog struct {
	loop     *Loop
	gen      uint64
	stop     func() bool
	onExpire func(d time.Duration)
}

func newWatchdog(loop *Loop, onExpire func(time.Duration)) *watchdog {
	return &watchdog{loop: loop, onExpire: onExpire}
}

// arm starts the timer, replacing any armed one. d <= 0 disables it.
func (w *watchdog) arm(d time.Duration) {
	w.cancel()
	if d <= 0 {
		return
	}

	gen := w.gen
	w.stop = w.loop.AfterFunc(d, func() {
		if gen != w.gen {
			return
		}
		w.gen++
		w.stop = nil
		w.onExpire(d)
	})
}

// cancel disarms the timer. It is idempotent.
func (w *watchdog) cancel() {
	w.gen++
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

func (w *watchdog) armed() bool {
	return w.stop != nil
}
