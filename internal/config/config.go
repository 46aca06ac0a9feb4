// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres connection string. When empty the
	// service falls back to the in-memory store.
	DatabaseURL string `koanf:"database_url"`

	// MaxPageLimit caps the limit query parameter on list endpoints.
	MaxPageLimit int `koanf:"max_page_limit"`

	// AllowedOrigins configures CORS for browser clients.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// KafkaBrokers lists the brokers for the alert publisher. When empty
	// high-risk alerts are logged instead of published.
	KafkaBrokers []string `koanf:"kafka_brokers"`

	// KafkaAlertTopic is the topic high-risk alerts are published to.
	KafkaAlertTopic string `koanf:"kafka_alert_topic"`

	// AlertQueueSize bounds the in-memory alert queue.
	AlertQueueSize int `koanf:"alert_queue_size"`

	// DispatcherCount sets the number of alert dispatcher goroutines.
	DispatcherCount int `koanf:"dispatcher_count"`

	// AlertDedupeSize bounds the alert suppression cache.
	AlertDedupeSize int `koanf:"alert_dedupe_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8080",
		DatabaseURL:     "",
		MaxPageLimit:    1000,
		AllowedOrigins:  []string{"*"},
		KafkaBrokers:    nil,
		KafkaAlertTopic: "wildfire-risk-alerts",
		AlertQueueSize:  1024,
		DispatcherCount: 2,
		AlertDedupeSize: 10000,
	}
}
