// Package progress renders a one-line spinner with the session state and
// the match count of the current query.
//
// The reporter is driven by the session loop: ticks are scheduled with
// Loop.AfterFunc, so rendering never races with the crawler's callbacks.
package progress

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DefaultInterval is the time between spinner frames.
const DefaultInterval = 100 * time.Millisecond

// Frames are the spinner characters, in order.
const Frames = `-\|/`

// eraseLine returns the cursor to column 0 and clears the line.
const eraseLine = "\r\033[2K"

// Scheduler posts fn to the event loop after d. *session.Loop satisfies it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

// Reporter draws the progress line. All methods must be called on the
// loop goroutine.
type Reporter struct {
	sched    Scheduler
	out      io.Writer
	interval time.Duration
	enabled  bool

	status  func() string
	counter func() (n, total int)

	frame int
	gen   uint64
	stop  func() bool

	// accent highlights the frame, the state and the count.
	accent *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithInterval sets the time between frames.
func WithInterval(d time.Duration) Option {
	return func(r *Reporter) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithStatus sets the function returning the session state name.
func WithStatus(fn func() string) Option {
	return func(r *Reporter) {
		if fn != nil {
			r.status = fn
		}
	}
}

// WithCounter sets the function returning matches found and wanted.
func WithCounter(fn func() (n, total int)) Option {
	return func(r *Reporter) {
		if fn != nil {
			r.counter = fn
		}
	}
}

// WithEnabled turns rendering on or off. A disabled reporter writes nothing.
func WithEnabled(enabled bool) Option {
	return func(r *Reporter) {
		r.enabled = enabled
	}
}

// WithColour enables ANSI colour in the progress line.
func WithColour(enabled bool) Option {
	return func(r *Reporter) {
		if enabled {
			r.accent.EnableColor()
		} else {
			r.accent.DisableColor()
		}
	}
}

// New returns a Reporter writing to out. It is enabled and colourless by
// default.
func New(sched Scheduler, out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		sched:    sched,
		out:      out,
		interval: DefaultInterval,
		enabled:  true,
		status:   func() string { return "" },
		counter:  func() (int, int) { return 0, 0 },
		accent:   color.New(color.FgGreen, color.Bold),
	}
	r.accent.DisableColor()

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins ticking. Calling Start while running restarts the timer.
func (r *Reporter) Start() {
	if !r.enabled {
		return
	}
	r.Stop()
	r.schedule()
}

// Stop cancels the next tick. An already posted tick is ignored.
func (r *Reporter) Stop() {
	r.gen++
	if r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

func (r *Reporter) schedule() {
	gen := r.gen
	r.stop = r.sched.AfterFunc(r.interval, func() {
		if gen != r.gen {
			return
		}
		r.render(false)
		r.frame = (r.frame + 1) % len(Frames)
		r.schedule()
	})
}

// Update redraws the line with the current count.
func (r *Reporter) Update() {
	if !r.enabled {
		return
	}
	r.render(true)
}

// Clear erases the progress line so regular output can be printed.
func (r *Reporter) Clear() {
	if !r.enabled {
		return
	}
	_, _ = io.WriteString(r.out, eraseLine) //nolint:errcheck // best effort on a terminal
}

// Line returns the text of the current frame. Ticks omit a zero count;
// updates always show it.
func (r *Reporter) Line(showZero bool) string {
	var b strings.Builder
	b.WriteString(eraseLine)
	b.WriteString(r.accent.Sprint(string(Frames[r.frame])))
	b.WriteString("[")
	b.WriteString(r.accent.Sprint(r.status()))
	b.WriteString("]")
	if n, total := r.counter(); n > 0 || showZero {
		b.WriteString(r.accent.Sprint(strconv.Itoa(n)))
		b.WriteString("/")
		b.WriteString(r.accent.Sprint(strconv.Itoa(total)))
	}
	return b.String()
}

func (r *Reporter) render(showZero bool) {
	_, _ = fmt.Fprint(r.out, r.Line(showZero)) //nolint:errcheck // best effort on a terminal
}
