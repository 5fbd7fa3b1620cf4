package config

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".lssa"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .lssa configuration file.
// Zero values mean "not set" and leave the current configuration alone.
type File struct {
	// Headers are added to, or replace, the default request headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Count is the number of similar artists wanted per query.
	Count int `yaml:"count,omitempty"`

	// Pages is the maximum number of pages read per query.
	Pages int `yaml:"pages,omitempty"`

	// Redirects is the redirect limit. A pointer so 0 can be set explicitly.
	Redirects *int `yaml:"redirects,omitempty"`

	// Timeout is the per-step network timeout, e.g. "15s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Proxy is a SOCKS5 proxy in "host:port" format.
	Proxy string `yaml:"proxy,omitempty"`

	// IgnoreCase title-cases artists before searching.
	IgnoreCase bool `yaml:"ignoreCase,omitempty"`

	// Colour is auto, on or off.
	Colour string `yaml:"colour,omitempty"`
}

// Apply copies every set field of f into c.
func (f *File) Apply(c *Config) {
	if c.Headers == nil {
		c.Headers = http.Header{}
	}
	for k, v := range f.Headers {
		c.Headers.Set(k, v)
	}
	if f.Count != 0 {
		c.Count = f.Count
	}
	if f.Pages != 0 {
		c.PageTotal = f.Pages
	}
	if f.Redirects != nil {
		c.RedirectTotal = *f.Redirects
	}
	if f.Timeout != 0 {
		c.Timeout = f.Timeout
	}
	if f.Proxy != "" {
		c.Proxy = f.Proxy
	}
	if f.IgnoreCase {
		c.IgnoreCase = true
	}
	if f.Colour != "" {
		c.Colour = f.Colour
	}
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers decide whether that matters, based on whether the path was
// given explicitly.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .lssa in the current directory
// 3. Look for .lssa in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
