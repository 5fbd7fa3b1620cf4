package config

import (
	"fmt"
	"net/http"
	"strings"
)

// defaultHeaders are sent with every request unless overridden.
var defaultHeaders = [][2]string{
	{"host", DefaultAddress},
	{"dnt", "1"},
	{"pragma", "no-cache"},
	{"cache-control", "no-cache"},
	{"upgrade-insecure-requests", "1"},
	{"accept-encoding", "gzip,deflate"},
	{"accept-language", "en-US,en;q=0.9"},
	{"accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
	{"user-agent", DefaultUserAgent},
}

// DefaultHeaders returns a fresh copy of the default request headers.
func DefaultHeaders() http.Header {
	h := make(http.Header, len(defaultHeaders))
	for _, kv := range defaultHeaders {
		h.Set(kv[0], kv[1])
	}
	return h
}

// ParseHeader splits "key:value" on the first colon and trims both sides.
func ParseHeader(entry string) (key, value string, err error) {
	key, value, found := strings.Cut(entry, ":")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHeader, entry)
	}
	return key, strings.TrimSpace(value), nil
}

// SetHeaders applies "key:value" entries on top of c.Headers, replacing
// existing values. Invalid entries are skipped and returned so the caller
// can warn about them.
func (c *Config) SetHeaders(entries []string) (ignored []string) {
	if c.Headers == nil {
		c.Headers = http.Header{}
	}
	for _, entry := range entries {
		key, value, err := ParseHeader(entry)
		if err != nil {
			ignored = append(ignored, entry)
			continue
		}
		c.Headers.Set(key, value)
	}
	return ignored
}
