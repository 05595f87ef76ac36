package config

// MetricsConfig holds Prometheus exposure settings
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Path of the scrape endpoint on the observer HTTP server
	Path string `mapstructure:"path"`

	// Namespace prefixes every metric name
	Namespace string `mapstructure:"namespace" validate:"required"`
}
