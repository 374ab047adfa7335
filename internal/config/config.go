// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config carrying the defaults.
// - Load(ctx) layers defaults, an optional YAML file, and environment vars.
// - External errors must be wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DefaultTopN is the leaderboard size served when no limit is given.
	DefaultTopN int `koanf:"default_top_n"`

	// MaxTopN caps GET /leaderboard/top?n.
	MaxTopN int `koanf:"max_top_n"`

	// TruncateAverages switches rating aggregation to the legacy formula
	// that floors the running average to an integer on every update.
	TruncateAverages bool `koanf:"truncate_averages"`

	// DedupeSize bounds the idempotency-key tracker. Zero or negative
	// means unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// AuditEnabled toggles the periodic aggregate reconciliation job.
	AuditEnabled bool `koanf:"audit_enabled"`

	// AuditSchedule is a six-field cron expression (seconds first).
	AuditSchedule string `koanf:"audit_schedule"`

	// ReadTimeoutS and WriteTimeoutS bound HTTP request handling, in seconds.
	ReadTimeoutS  int `koanf:"read_timeout_s"`
	WriteTimeoutS int `koanf:"write_timeout_s"`

	// ShutdownTimeoutS bounds graceful shutdown, in seconds.
	ShutdownTimeoutS int `koanf:"shutdown_timeout_s"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8080",
		DefaultTopN:      5,
		MaxTopN:          100,
		TruncateAverages: false,
		DedupeSize:       50_000,
		AuditEnabled:     true,
		AuditSchedule:    "0 */10 * * * *",
		ReadTimeoutS:     15,
		WriteTimeoutS:    15,
		ShutdownTimeoutS: 10,
	}
}
