// Package config defines service configuration structures and loading.
//
// Conventions:
// - Provide New() for defaults and Load(ctx) for layered loading.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CooldownHours is the mandatory rest period between two
	// evaluations of the same worker.
	CooldownHours int `koanf:"cooldown_hours"`

	// RecentWindowHours bounds the evaluation set fed to roster builds.
	RecentWindowHours int `koanf:"recent_window_hours"`

	// DefaultWindowHours applies to templates created without an
	// explicit window length.
	DefaultWindowHours int `koanf:"default_window_hours"`

	// TallyQueueSize bounds the in-memory tally event queue.
	TallyQueueSize int `koanf:"tally_queue_size"`

	// WorkerCount sets the number of tally workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		CooldownHours:      4,
		RecentWindowHours:  4,
		DefaultWindowHours: 2,
		TallyQueueSize:     10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         50_000,
	}
}
