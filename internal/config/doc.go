// Package config provides the configuration for lssa: defaults, the
// optional YAML file, request header parsing and validation.
package config
