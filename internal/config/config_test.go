package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	cfg := NewConfig()
	cfg.Queries = []string{"Tom Waits"}
	return cfg
}

// TestNewConfig tests that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("network defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.Address != DefaultAddress || cfg.Port != DefaultPort || !cfg.Secure {
			t.Errorf("got %s:%d secure=%v", cfg.Address, cfg.Port, cfg.Secure)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
	})

	t.Run("crawl defaults", func(t *testing.T) {
		t.Parallel()
		if cfg.Count != 10 || cfg.PageTotal != 10 || cfg.RedirectTotal != 3 {
			t.Errorf("Count=%d PageTotal=%d RedirectTotal=%d", cfg.Count, cfg.PageTotal, cfg.RedirectTotal)
		}
		if cfg.Interval != 100*time.Millisecond || cfg.WaitTotal != time.Second {
			t.Errorf("Interval=%v WaitTotal=%v", cfg.Interval, cfg.WaitTotal)
		}
		if cfg.MaxBodySize != DefaultMaxBodySize {
			t.Errorf("MaxBodySize = %d", cfg.MaxBodySize)
		}
		if cfg.Colour != ColourAuto {
			t.Errorf("Colour = %q", cfg.Colour)
		}
	})

	t.Run("default headers", func(t *testing.T) {
		t.Parallel()

		want := map[string]string{
			"Host":                      "www.last.fm",
			"Dnt":                       "1",
			"Pragma":                    "no-cache",
			"Cache-Control":             "no-cache",
			"Upgrade-Insecure-Requests": "1",
			"Accept-Encoding":           "gzip,deflate",
			"Accept-Language":           "en-US,en;q=0.9",
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"User-Agent":                DefaultUserAgent,
		}
		if len(cfg.Headers) != len(want) {
			t.Errorf("got %d headers, want %d", len(cfg.Headers), len(want))
		}
		for k, v := range want {
			if got := cfg.Headers.Get(k); got != v {
				t.Errorf("header %s = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("default headers are not shared", func(t *testing.T) {
		t.Parallel()

		a := DefaultHeaders()
		a.Set("Dnt", "0")
		if DefaultHeaders().Get("Dnt") != "1" {
			t.Error("DefaultHeaders returned shared state")
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"no query", func(c *Config) { c.Queries = nil }, ErrNoQuery},
		{"too many queries", func(c *Config) { c.Queries = make([]string, MaxQueries+1) }, ErrTooManyQueries},
		{"max queries", func(c *Config) { c.Queries = make([]string, MaxQueries) }, nil},
		{"count zero", func(c *Config) { c.Count = 0 }, ErrInvalidCount},
		{"count too large", func(c *Config) { c.Count = 101 }, ErrInvalidCount},
		{"count max", func(c *Config) { c.Count = 100 }, nil},
		{"timeout zero", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"pages zero", func(c *Config) { c.PageTotal = 0 }, ErrInvalidPageTotal},
		{"negative redirects", func(c *Config) { c.RedirectTotal = -1 }, ErrInvalidRedirectTotal},
		{"zero redirects", func(c *Config) { c.RedirectTotal = 0 }, nil},
		{"bad colour", func(c *Config) { c.Colour = "always" }, ErrInvalidColour},
		{"colour on", func(c *Config) { c.Colour = ColourOn }, nil},
		{"both formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
		{"bad proxy", func(c *Config) { c.Proxy = "socks5://localhost:1080" }, ErrInvalidProxyAddress},
		{"good proxy", func(c *Config) { c.Proxy = "127.0.0.1:1080" }, nil},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestUseColour tests colour mode resolution.
func TestUseColour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode     string
		terminal bool
		want     bool
	}{
		{ColourAuto, true, true},
		{ColourAuto, false, false},
		{ColourOn, false, true},
		{ColourOff, true, false},
	}
	for _, tt := range tests {
		cfg := NewConfig()
		cfg.Colour = tt.mode
		if got := cfg.UseColour(tt.terminal); got != tt.want {
			t.Errorf("UseColour(%q, %v) = %v, want %v", tt.mode, tt.terminal, got, tt.want)
		}
	}
}

// TestParseHeader tests header entry parsing.
func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{entry: "dnt:0", wantKey: "dnt", wantValue: "0"},
		{entry: " accept : text/html ", wantKey: "accept", wantValue: "text/html"},
		{entry: "referer:https://www.last.fm/", wantKey: "referer", wantValue: "https://www.last.fm/"},
		{entry: "x-empty:", wantKey: "x-empty", wantValue: ""},
		{entry: "no-colon", wantErr: true},
		{entry: ":value", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			t.Parallel()

			key, value, err := ParseHeader(tt.entry)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHeader) {
					t.Errorf("expected ErrInvalidHeader, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if key != tt.wantKey || value != tt.wantValue {
				t.Errorf("ParseHeader(%q) = %q, %q", tt.entry, key, value)
			}
		})
	}
}

// TestSetHeaders tests applying header overrides.
func TestSetHeaders(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	ignored := cfg.SetHeaders([]string{"dnt:0", "bogus", "Cookie: a=b"})

	if len(ignored) != 1 || ignored[0] != "bogus" {
		t.Errorf("ignored = %v", ignored)
	}
	if cfg.Headers.Get("Dnt") != "0" {
		t.Errorf("Dnt = %q", cfg.Headers.Get("Dnt"))
	}
	if cfg.Headers.Get("Cookie") != "a=b" {
		t.Errorf("Cookie = %q", cfg.Headers.Get("Cookie"))
	}
	if vals := cfg.Headers.Values("Dnt"); len(vals) != 1 {
		t.Errorf("Dnt has %d values, want 1", len(vals))
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.lssa")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads and applies valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".lssa")
		content := `count: 20
pages: 5
redirects: 0
timeout: 15s
proxy: 127.0.0.1:9050
ignoreCase: true
colour: "off"
headers:
  accept-language: "ja-JP"
  cookie: "session=xyz"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)

		if cfg.Count != 20 || cfg.PageTotal != 5 || cfg.RedirectTotal != 0 {
			t.Errorf("Count=%d PageTotal=%d RedirectTotal=%d", cfg.Count, cfg.PageTotal, cfg.RedirectTotal)
		}
		if cfg.Timeout != 15*time.Second {
			t.Errorf("Timeout = %v", cfg.Timeout)
		}
		if cfg.Proxy != "127.0.0.1:9050" || !cfg.IgnoreCase || cfg.Colour != ColourOff {
			t.Errorf("Proxy=%q IgnoreCase=%v Colour=%q", cfg.Proxy, cfg.IgnoreCase, cfg.Colour)
		}
		if cfg.Headers.Get("Accept-Language") != "ja-JP" || cfg.Headers.Get("Cookie") != "session=xyz" {
			t.Errorf("headers = %v", cfg.Headers)
		}
		if cfg.Headers.Get("Dnt") != "1" {
			t.Error("file headers must keep the defaults")
		}
	})

	t.Run("empty file changes nothing", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".lssa")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.Apply(cfg)
		if cfg.RedirectTotal != DefaultRedirectTotal || cfg.Count != DefaultCount {
			t.Errorf("empty file changed defaults: %+v", cfg)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".lssa")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("count: 5"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGConfigDir tests the XDG directory helpers.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	dir := XDGConfigDir()
	if !strings.HasSuffix(dir, AppName) {
		t.Errorf("XDGConfigDir() = %q, want suffix %q", dir, AppName)
	}
	if filepath.Dir(XDGConfigFile()) != dir {
		t.Errorf("XDGConfigFile() = %q is not inside %q", XDGConfigFile(), dir)
	}
}
