package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/moviecat/moviecat/movies"
	"github.com/moviecat/moviecat/tmdb"
)

// EnvPrefix prefixes every environment override, e.g. MOVIECAT_TMDB_TIMEOUT
const EnvPrefix = "MOVIECAT"

// Load loads the configuration from file and environment. A missing file
// is only an error when configPath names it explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".moviecat"))
		}
		v.AddConfigPath("/etc/moviecat/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// TMDB defaults
	v.SetDefault("tmdb.url", tmdb.DefaultBaseURL)
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.timeout", tmdb.DefaultTimeout)
	v.SetDefault("tmdb.rate_limit", tmdb.DefaultRateLimit)
	v.SetDefault("tmdb.burst", tmdb.DefaultBurst)
	v.SetDefault("tmdb.max_retries", tmdb.DefaultMaxRetries)
	v.SetDefault("tmdb.retry_delay", tmdb.DefaultBaseDelay)

	// Browse defaults
	v.SetDefault("browse.default_sort", movies.SortPopularity.String())
	v.SetDefault("browse.debounce", "350ms")

	// Connectivity defaults
	v.SetDefault("connectivity.probe_address", "api.themoviedb.org:443")
	v.SetDefault("connectivity.interval", "5s")
	v.SetDefault("connectivity.timeout", "2s")

	v.SetDefault("metrics.listen", "")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare TMDB_API_KEY is what most TMDB tooling documents
	_ = v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY")
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			key := strings.TrimPrefix(fe.Namespace(), "Config.")
			if fe.Param() != "" {
				return fmt.Errorf("%s must satisfy %s=%s (got %v)", key, fe.Tag(), fe.Param(), fe.Value())
			}
			return fmt.Errorf("%s must satisfy %s (got %v)", key, fe.Tag(), fe.Value())
		}
		return err
	}

	if strings.TrimSpace(cfg.TMDB.APIKey) == "" || cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key: %w", tmdb.ErrMissingAPIKey)
	}

	if _, err := movies.ParseSort(cfg.Browse.DefaultSort); err != nil {
		return fmt.Errorf("invalid browse.default_sort: %s", cfg.Browse.DefaultSort)
	}

	for name, expression := range cfg.Filters {
		if strings.TrimSpace(expression) == "" {
			return fmt.Errorf("filters.%s must not be empty", name)
		}
	}

	return nil
}
