package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB         TMDBConfig         `mapstructure:"tmdb"`
	Browse       BrowseConfig       `mapstructure:"browse"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Filters      FilterConfig       `mapstructure:"filters"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// TMDBConfig holds catalog API connection and retry settings
type TMDBConfig struct {
	URL        string        `mapstructure:"url" validate:"required,url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit  float64       `mapstructure:"rate_limit" validate:"gte=0"`
	Burst      int           `mapstructure:"burst" validate:"gte=0"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gt=0"`
}

// BrowseConfig holds list defaults
type BrowseConfig struct {
	DefaultSort string        `mapstructure:"default_sort"`
	Debounce    time.Duration `mapstructure:"debounce" validate:"gte=0"`
	Genres      []int         `mapstructure:"genres" validate:"dive,gt=0"`
}

// ConnectivityConfig controls the reachability probe. An empty
// ProbeAddress disables probing and the monitor stays online.
type ConnectivityConfig struct {
	ProbeAddress string        `mapstructure:"probe_address" validate:"omitempty,hostname_port"`
	Interval     time.Duration `mapstructure:"interval" validate:"gt=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// MetricsConfig controls the Prometheus endpoint. Empty Listen disables it.
type MetricsConfig struct {
	Listen string `mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// FilterConfig maps filter names to display filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
	Color  bool   `mapstructure:"color"`
}
