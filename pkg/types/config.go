// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// outbound requests.
type HTTPConfig struct {
	// Timeout bounds each outbound request. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "colab-finder/0.1"). GitHub rejects requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GitHubConfig holds settings for the GitHub client.
type GitHubConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is an optional personal access token for higher rate limits.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// APIBase is the REST API root (default https://api.github.com).
	APIBase string `json:"api_base" yaml:"api_base"`

	// RawBase is the raw file host (default https://raw.githubusercontent.com).
	RawBase string `json:"raw_base" yaml:"raw_base"`
}

// FinderConfig holds settings for the project search loop.
type FinderConfig struct {
	// MaxAttempts is the number of attempts before giving up (default 10).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// Queries are the search query templates; one is picked at random per
	// attempt.
	Queries []string `json:"queries" yaml:"queries"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default 127.0.0.1:5000).
	Addr string `json:"addr" yaml:"addr"`

	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`

	// RateLimit caps /find-project requests per minute across all clients.
	// Zero disables the limiter.
	RateLimit int `json:"rate_limit" yaml:"rate_limit"`

	// Debug switches gin into debug mode.
	Debug bool `json:"debug" yaml:"debug"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// File is an append-only log file. Empty disables file logging.
	File string `json:"file" yaml:"file"`

	// Color enables ANSI colours on the console handler.
	Color bool `json:"color" yaml:"color"`
}

// AppConfig groups all component configurations.
type AppConfig struct {
	GitHub GitHubConfig `json:"github" yaml:"github"`
	Finder FinderConfig `json:"finder" yaml:"finder"`
	Server ServerConfig `json:"server" yaml:"server"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
