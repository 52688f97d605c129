// Package config provides server configuration loading, validation,
// and file watching.
package config

import (
	"fmt"
	"strings"

	"github.com/skiffhttp/skiff/observability"
)

// Default configuration values.
const (
	// DefaultAddress is the default listen address.
	DefaultAddress = "127.0.0.1:8080"

	// DefaultStaticPrefix is the reserved path prefix that routes
	// requests to the static asset guard.
	DefaultStaticPrefix = "/static/"

	// DefaultStaticDir is the default static file root.
	DefaultStaticDir = "static"

	// DefaultMaxStaticFileSize is the default byte ceiling for a
	// served static file.
	DefaultMaxStaticFileSize = 5 * 1024 * 1024

	// DefaultMaxConnections is the default ceiling on concurrently
	// tracked connections.
	DefaultMaxConnections = 10000
)

// Config holds the server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string `yaml:"address"`

	// StaticDir is the root directory for static assets.
	StaticDir string `yaml:"staticDir"`

	// StaticPrefix is the reserved path prefix served from StaticDir,
	// bypassing the route table.
	StaticPrefix string `yaml:"staticPrefix"`

	// MaxStaticFileSize is the maximum size in bytes of a served
	// static file; larger files are rejected with 413.
	MaxStaticFileSize int64 `yaml:"maxStaticFileSize"`

	// TemplateDirs are the directories templates are loaded from.
	TemplateDirs []string `yaml:"templateDirs"`

	// MaxConnections caps the number of concurrently handled
	// connections.
	MaxConnections int `yaml:"maxConnections"`

	// Log configures structured logging.
	Log observability.LogConfig `yaml:"log"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Address:           DefaultAddress,
		StaticDir:         DefaultStaticDir,
		StaticPrefix:      DefaultStaticPrefix,
		MaxStaticFileSize: DefaultMaxStaticFileSize,
		TemplateDirs:      []string{"templates"},
		MaxConnections:    DefaultMaxConnections,
		Log:               observability.DefaultLogConfig(),
	}
}

// applyDefaults fills unset fields with default values.
func (c *Config) applyDefaults() {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.StaticDir == "" {
		c.StaticDir = DefaultStaticDir
	}
	if c.StaticPrefix == "" {
		c.StaticPrefix = DefaultStaticPrefix
	}
	if c.MaxStaticFileSize <= 0 {
		c.MaxStaticFileSize = DefaultMaxStaticFileSize
	}
	if c.MaxConnections <= 0 {
		c.MaxConnections = DefaultMaxConnections
	}
	if c.Log.Level == "" {
		c.Log = observability.DefaultLogConfig()
	}
}

// Validate checks the configuration for invalid values.
func Validate(c *Config) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.Address == "" {
		return fmt.Errorf("address must not be empty")
	}
	if !strings.HasPrefix(c.StaticPrefix, "/") {
		return fmt.Errorf("staticPrefix %q must start with /", c.StaticPrefix)
	}
	if !strings.HasSuffix(c.StaticPrefix, "/") {
		return fmt.Errorf("staticPrefix %q must end with /", c.StaticPrefix)
	}
	if c.MaxStaticFileSize <= 0 {
		return fmt.Errorf("maxStaticFileSize must be positive, got %d", c.MaxStaticFileSize)
	}
	return nil
}
