package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/lssa/internal/extract"
	"github.com/nao1215/lssa/internal/model"
	"github.com/nao1215/lssa/internal/session"
)

const (
	// DefaultTarget is the number of matches wanted per query.
	DefaultTarget = 10

	// DefaultPageTotal is the number of pages read per query at most.
	DefaultPageTotal = 10

	// DefaultRedirectTotal is the number of redirects followed per query.
	DefaultRedirectTotal = 3

	// DefaultInterval is the pause between pages of one query.
	DefaultInterval = 100 * time.Millisecond

	// DefaultWaitTotal is the minimum time spent on one query before the
	// next one starts.
	DefaultWaitTotal = time.Second
)

// Output receives results as queries finish. report.Writer satisfies it.
type Output interface {
	WriteHeader(state *model.QueryState) error
	WriteMatches(state *model.QueryState, last bool) error
}

// Progress is told when the crawl starts, stops and finds a match.
// progress.Reporter satisfies it.
type Progress interface {
	Start()
	Stop()
	Update()
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Crawler runs queries one after another over a single session.
//
// Design decision: every field is touched only on the loop goroutine, so
// the crawler needs no locking. Run is the only method that blocks.
type Crawler struct {
	client   *session.Client
	loop     *session.Loop
	logger   *slog.Logger
	output   Output
	progress Progress
	pattern  *extract.Pattern
	sleep    Sleeper
	now      func() time.Time

	target        int
	pageTotal     int
	redirectTotal int
	interval      time.Duration
	waitTotal     time.Duration
	headers       http.Header

	states []*model.QueryState
	index  int
	req    *session.Request
	ctx    context.Context
	err    error

	// closing is set when the crawler itself closed the session.
	closing bool

	// reconnect asks Run to restart the loop with a new connection.
	reconnect bool

	// done is set when the last query is complete.
	done bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOutput sets where results are written.
func WithOutput(out Output) Option {
	return func(c *Crawler) {
		if out != nil {
			c.output = out
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p Progress) Option {
	return func(c *Crawler) {
		if p != nil {
			c.progress = p
		}
	}
}

// WithTarget sets the number of matches wanted per query.
func WithTarget(n int) Option {
	return func(c *Crawler) {
		c.target = n
	}
}

// WithPageTotal sets the maximum number of pages read per query.
func WithPageTotal(n int) Option {
	return func(c *Crawler) {
		c.pageTotal = n
	}
}

// WithRedirectTotal sets the maximum number of redirects per query.
func WithRedirectTotal(n int) Option {
	return func(c *Crawler) {
		c.redirectTotal = n
	}
}

// WithInterval sets the pause between pages of one query.
func WithInterval(d time.Duration) Option {
	return func(c *Crawler) {
		c.interval = d
	}
}

// WithWaitTotal sets the minimum time per query before the next starts.
func WithWaitTotal(d time.Duration) Option {
	return func(c *Crawler) {
		c.waitTotal = d
	}
}

// WithHeaders sets the headers sent with every request.
func WithHeaders(h http.Header) Option {
	return func(c *Crawler) {
		c.headers = h.Clone()
	}
}

// WithSleeper replaces the pacing sleep.
func WithSleeper(s Sleeper) Option {
	return func(c *Crawler) {
		if s != nil {
			c.sleep = s
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) {
		if now != nil {
			c.now = now
		}
	}
}

// WithPattern replaces the artist link pattern.
func WithPattern(p *extract.Pattern) Option {
	return func(c *Crawler) {
		if p != nil {
			c.pattern = p
		}
	}
}

type nopOutput struct{}

func (nopOutput) WriteHeader(*model.QueryState) error        { return nil }
func (nopOutput) WriteMatches(*model.QueryState, bool) error { return nil }

type nopProgress struct{}

func (nopProgress) Start()  {}
func (nopProgress) Stop()   {}
func (nopProgress) Update() {}

// New returns a crawler for queries. The client must have been created on
// loop; the crawler installs its own callbacks on it.
func New(client *session.Client, loop *session.Loop, queries []model.Query, opts ...Option) *Crawler {
	c := &Crawler{
		client:        client,
		loop:          loop,
		logger:        slog.New(slog.DiscardHandler),
		output:        nopOutput{},
		progress:      nopProgress{},
		pattern:       extract.Default(),
		sleep:         sleep,
		now:           time.Now,
		target:        DefaultTarget,
		pageTotal:     DefaultPageTotal,
		redirectTotal: DefaultRedirectTotal,
		interval:      DefaultInterval,
		waitTotal:     DefaultWaitTotal,
		headers:       http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.states = make([]*model.QueryState, 0, len(queries))
	for _, q := range queries {
		c.states = append(c.states, model.NewQueryState(q, c.target))
	}
	return c
}

// Run crawls every query and returns the first failure. Cancelling ctx
// aborts the connection and returns an error matching ErrInterrupted.
func (c *Crawler) Run(ctx context.Context) error {
	if len(c.states) == 0 {
		return ErrNoQueries
	}
	c.ctx = ctx
	c.register()
	c.req = c.template()

	for {
		c.reconnect = false
		c.closing = false

		c.progress.Start()
		c.client.Run()
		err := c.loop.Run(ctx)
		c.progress.Stop()

		if err != nil || ctx.Err() != nil {
			c.client.Abort()
			c.loop.Wait()
			return c.interrupted(ctx)
		}
		c.loop.Wait()

		if c.err != nil {
			return c.err
		}
		if !c.reconnect || c.done {
			return nil
		}

		c.logger.Debug("reconnecting", "address", c.client.Address(), "port", c.client.Port())
		c.loop.Restart()
	}
}

// Progress returns the match count of the current query and its target.
func (c *Crawler) Progress() (n, total int) {
	if len(c.states) == 0 {
		return 0, c.target
	}
	s := c.current()
	return s.Matches.Len(), s.Target
}

// States returns the state of every query, in order.
func (c *Crawler) States() []*model.QueryState {
	return c.states
}

func (c *Crawler) current() *model.QueryState {
	return c.states[c.index]
}

func (c *Crawler) last() bool {
	return c.index == len(c.states)-1
}

func (c *Crawler) register() {
	c.client.OnOpen(c.onOpen)
	c.client.OnWrite(c.onWrite)
	c.client.OnRead(c.onRead)
	c.client.OnError(c.onError)
	c.client.OnClose(c.onClose)
}

func (c *Crawler) template() *session.Request {
	req := session.NewRequest()
	req.Header = c.headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.KeepAlive = true
	return req
}

func (c *Crawler) onOpen(*session.Context) {
	c.send()
}

func (c *Crawler) onWrite(*session.Context) {
	if err := c.client.Read(); err != nil {
		c.fail(ErrTransport, err.Error(), err)
	}
}

func (c *Crawler) onRead(sctx *session.Context) {
	res := sctx.Response

	c.logger.Debug("response",
		"status", res.StatusCode,
		"artist", c.current().Query.Display,
		"page", c.current().Page,
		"bytes", len(res.Body),
	)

	switch {
	case res.Location() != "" || res.StatusCode == http.StatusMovedPermanently || res.StatusCode == http.StatusFound:
		if !c.redirect(res) {
			return
		}
		c.next(res)
	case res.StatusCode == http.StatusOK:
		if !c.collect(res) {
			return
		}
		if !c.pace() {
			return
		}
		c.next(res)
	default:
		c.fail(ErrHTTP, res.Reason, nil)
	}
}

// onError handles failures reported by the session. Outside a close every
// failure is fatal; nothing is retried.
func (c *Crawler) onError(err error) {
	if c.closing || c.done {
		c.logger.Debug("error while closing", "error", err)
		return
	}
	c.fail(ErrTransport, err.Error(), err)
}

func (c *Crawler) onClose(*session.Context) {
	c.loop.Stop()
}

// send writes the request for the current page of the current query.
func (c *Crawler) send() {
	s := c.current()
	if s.Started.IsZero() {
		s.Started = c.now()
	}
	c.req.Path = s.Path()
	c.req.Params.Set("page", strconv.Itoa(s.Page))

	c.logger.Debug("request", "target", c.req.Target(), "headers", c.req.Header)
	if err := c.client.Write(c.req); err != nil {
		c.fail(ErrTransport, err.Error(), err)
	}
}

// next continues after a handled response: on the same connection when
// possible, otherwise by closing it so Run can reconnect.
func (c *Crawler) next(res *session.Response) {
	switch {
	case c.done:
		c.close()
	case c.reconnect || res.Close:
		c.reconnect = true
		c.close()
	default:
		c.send()
	}
}

// redirect follows a Location to another artist. It reports whether the
// crawl goes on.
func (c *Crawler) redirect(res *session.Response) bool {
	s := c.current()
	if s.Redirects >= c.redirectTotal {
		c.fail(ErrRedirectLimit, fmt.Sprintf("redirect limit reached (%d)", c.redirectTotal), nil)
		return false
	}

	r, err := extract.ParseRedirect(res.Location())
	if err != nil {
		c.fail(ErrInvalidRedirect, err.Error(), err)
		return false
	}

	from := s.Query.Display
	s.Query.Redirect(r.Name)
	s.Redirects++
	c.logger.Debug("redirect", "from", from, "to", s.Query.Display, "host", r.Host, "count", s.Redirects)

	if !sameAuthority(r.Host, c.authority()) {
		host, port := r.HostPort()
		c.client.SetSecure(r.Secure)
		c.client.SetAddress(host, port)
		c.req.Header.Set("Host", r.Host)
		c.reconnect = true
	}
	return true
}

// collect extracts matches from a page. It reports whether the crawl goes
// on.
func (c *Crawler) collect(res *session.Response) bool {
	s := c.current()
	if res.Body == "" {
		c.fail(ErrEmptyBody, "", nil)
		return false
	}
	tokens, err := c.pattern.Scan(res.Body)
	if err != nil {
		c.fail(ErrNoMatches, err.Error(), err)
		return false
	}

	if s.Page == 1 {
		if err := c.output.WriteHeader(s); err != nil {
			c.fail(ErrOutput, err.Error(), err)
			return false
		}
	}

	dec := extract.NewDecoder()
	for token := range tokens {
		name := dec.Decode(token)
		if name == "" || c.self(s, name) {
			continue
		}
		if !s.Matches.Add(name) {
			continue
		}
		c.progress.Update()
		if s.Matches.Full() {
			break
		}
	}
	s.Page++

	if !s.Complete(c.pageTotal) {
		return true
	}

	last := c.last()
	c.logger.Info("query complete",
		"artist", s.Query.Display,
		"matches", s.Matches.Len(),
		"pages", s.Page-1,
		"redirects", s.Redirects,
	)
	if err := c.output.WriteMatches(s, last); err != nil {
		c.fail(ErrOutput, err.Error(), err)
		return false
	}
	if last {
		c.done = true
	}
	return true
}

// self reports whether name is the queried artist itself. Names starting
// with a space are never excluded.
func (c *Crawler) self(s *model.QueryState, name string) bool {
	return name[0] != ' ' && model.Lower(name) == s.Query.Lower
}

// pace waits between requests and advances to the next query when the
// current one is complete. It reports whether the crawl goes on.
func (c *Crawler) pace() bool {
	s := c.current()
	var d time.Duration
	switch {
	case c.done:
		return true
	case s.Complete(c.pageTotal):
		d = c.waitTotal - c.now().Sub(s.Started)
		c.index++
	default:
		d = c.interval
	}
	if d <= 0 {
		return true
	}
	if err := c.sleep(c.ctx, d); err != nil {
		c.logger.Debug("pacing interrupted", "error", err)
		return false
	}
	return true
}

func (c *Crawler) fail(kind error, reason string, cause error) {
	if c.err == nil {
		c.err = newReason(kind, reason, cause)
		c.logger.Debug("crawl failed", "error", c.err, "status", c.client.StatusString())
	}
	c.close()
}

func (c *Crawler) close() {
	c.closing = true
	c.client.Close()
}

func (c *Crawler) interrupted(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	return newReason(ErrInterrupted, cause.Error(), cause)
}

// authority returns the host the requests are addressed to.
func (c *Crawler) authority() string {
	if h := c.req.Header.Get("Host"); h != "" {
		return h
	}
	return net.JoinHostPort(c.client.Address(), strconv.Itoa(int(c.client.Port())))
}

// sameAuthority compares two host[:port] values. A missing port matches
// any port.
func sameAuthority(a, b string) bool {
	ah, ap := splitAuthority(a)
	bh, bp := splitAuthority(b)
	if !strings.EqualFold(ah, bh) {
		return false
	}
	return ap == "" || bp == "" || ap == bp
}

func splitAuthority(s string) (host, port string) {
	h, p, err := net.SplitHostPort(s)
	if err != nil {
		return strings.Trim(s, "[]"), ""
	}
	return h, p
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
