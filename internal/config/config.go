package config

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/lssa/internal/transport"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "lssa"

	// DefaultAddress is the host serving the similar-artists pages.
	DefaultAddress = "www.last.fm"

	// DefaultPort is the HTTPS port.
	DefaultPort uint16 = 443

	// DefaultTimeout bounds each network step (resolve, connect, handshake,
	// write, read). It is not a limit on the whole run.
	DefaultTimeout = 10 * time.Second

	// DefaultCount is the number of similar artists wanted per query.
	DefaultCount = 10

	// MaxCount is the largest accepted --count.
	MaxCount = 100

	// MaxQueries is the largest number of artists accepted in one run.
	MaxQueries = 100

	// DefaultPageTotal is the number of result pages read per query at most.
	DefaultPageTotal = 10

	// DefaultRedirectTotal is the number of redirects followed per query.
	DefaultRedirectTotal = 3

	// DefaultInterval is the pause between pages of one query. It also
	// drives the progress spinner.
	DefaultInterval = 100 * time.Millisecond

	// DefaultWaitTotal is the minimum time spent on a query before the next
	// one starts. It keeps the request rate polite.
	DefaultWaitTotal = 1 * time.Second

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent mimics a desktop browser; the site serves a reduced
	// page to unknown agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/75.0.3770.142 Safari/537.36"
)

// Colour modes.
const (
	ColourAuto = "auto"
	ColourOn   = "on"
	ColourOff  = "off"
)

// Config holds all configuration options for lssa.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed down explicitly rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small and every consumer reads only a few.
type Config struct {
	// Address is the remote host.
	Address string

	// Port is the remote TCP port.
	Port uint16

	// Secure selects HTTPS. It is only turned off in tests.
	Secure bool

	// Timeout is the per-step network timeout.
	Timeout time.Duration

	// Count is the number of similar artists wanted per query.
	Count int

	// PageTotal is the maximum number of pages read per query.
	PageTotal int

	// RedirectTotal is the maximum number of redirects followed per query.
	RedirectTotal int

	// Interval is the pause between pages and the progress tick period.
	Interval time.Duration

	// WaitTotal is the minimum time spent per query.
	WaitTotal time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Headers are sent with every request. Keys are canonicalized.
	Headers http.Header

	// IgnoreCase title-cases the artists before searching.
	IgnoreCase bool

	// Colour is one of ColourAuto, ColourOn or ColourOff.
	Colour string

	// Proxy is an optional SOCKS5 proxy in "host:port" format.
	Proxy string

	// JSONReport writes the results as JSON once the run is finished.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the results as Markdown once the run is
	// finished. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// Queries are the artists to search for, in order.
	Queries []string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero.
func NewConfig() *Config {
	return &Config{
		Address:       DefaultAddress,
		Port:          DefaultPort,
		Secure:        true,
		Timeout:       DefaultTimeout,
		Count:         DefaultCount,
		PageTotal:     DefaultPageTotal,
		RedirectTotal: DefaultRedirectTotal,
		Interval:      DefaultInterval,
		WaitTotal:     DefaultWaitTotal,
		MaxBodySize:   DefaultMaxBodySize,
		Headers:       DefaultHeaders(),
		Colour:        ColourAuto,
	}
}

// XDGConfigDir returns the XDG config directory for lssa.
// On Linux: ~/.config/lssa
// On macOS: ~/Library/Application Support/lssa
// On Windows: %APPDATA%\lssa
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// UseColour resolves the colour mode. isTerminal reports whether the
// output is a terminal and only matters for ColourAuto.
func (c *Config) UseColour(isTerminal bool) bool {
	switch c.Colour {
	case ColourOn:
		return true
	case ColourOff:
		return false
	default:
		return isTerminal
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate once after flags and file are merged, so
// the crawler can trust every value it receives.
func (c *Config) Validate() error {
	if len(c.Queries) == 0 {
		return ErrNoQuery
	}
	if len(c.Queries) > MaxQueries {
		return ErrTooManyQueries
	}
	if c.Count < 1 || c.Count > MaxCount {
		return ErrInvalidCount
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.PageTotal < 1 {
		return ErrInvalidPageTotal
	}
	if c.RedirectTotal < 0 {
		return ErrInvalidRedirectTotal
	}
	switch c.Colour {
	case ColourAuto, ColourOn, ColourOff:
	default:
		return ErrInvalidColour
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.Proxy != "" && !transport.IsValidProxyAddress(c.Proxy) {
		return ErrInvalidProxyAddress
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
