// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath names a YAML or JSON dataset. Empty means built-in seed data.
	DatasetPath string `koanf:"dataset_path"`

	// DefaultAgentID overrides the first-agent default selection.
	DefaultAgentID string `koanf:"default_agent_id"`

	// SessionCookie is the name of the cookie carrying the session id.
	SessionCookie string `koanf:"session_cookie"`

	// SessionTTLMinutes is how long an idle session lives. Zero disables expiry.
	SessionTTLMinutes int `koanf:"session_ttl_minutes"`

	// UrgentDays is the days-remaining threshold for highlighting a goal.
	UrgentDays int `koanf:"urgent_days"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		SessionCookie:     "qaportal_session",
		SessionTTLMinutes: 60,
		UrgentDays:        7,
	}
}

// SessionTTL returns the session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}
