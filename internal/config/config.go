// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers .env, an optional YAML file and CEDULA_* environment variables.
// - External errors are wrapped with this package's sentinel errors.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":80".
	Addr string `koanf:"addr" validate:"required"`

	// Server timeouts in milliseconds.
	ReadTimeoutMS     int `koanf:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMS    int `koanf:"write_timeout_ms" validate:"gte=0"`
	IdleTimeoutMS     int `koanf:"idle_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"gt=0"`

	// SystemMetricsIntervalMS sets how often runtime gauges are refreshed.
	SystemMetricsIntervalMS int `koanf:"system_metrics_interval_ms" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":80",
		ReadTimeoutMS:           10_000,
		WriteTimeoutMS:          10_000,
		IdleTimeoutMS:           60_000,
		ShutdownTimeoutMS:       30_000,
		SystemMetricsIntervalMS: 10_000,
	}
}

// ReadTimeout returns ReadTimeoutMS as a duration.
func (c *Config) ReadTimeout() time.Duration { return ms(c.ReadTimeoutMS) }

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration { return ms(c.WriteTimeoutMS) }

// IdleTimeout returns IdleTimeoutMS as a duration.
func (c *Config) IdleTimeout() time.Duration { return ms(c.IdleTimeoutMS) }

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration { return ms(c.ShutdownTimeoutMS) }

// SystemMetricsInterval returns SystemMetricsIntervalMS as a duration.
func (c *Config) SystemMetricsInterval() time.Duration { return ms(c.SystemMetricsIntervalMS) }

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }
