package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/moviecat/moviecat/config"
	"github.com/moviecat/moviecat/connectivity"
	"github.com/moviecat/moviecat/filter"
	"github.com/moviecat/moviecat/movies"
	"github.com/moviecat/moviecat/tmdb"
)

var (
	cfgFile    string
	debug      bool
	cfg        *config.Config
	logger     zerolog.Logger
	repository *movies.Repository
	monitor    *connectivity.Monitor
	filters    *filter.Manager
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "moviecat",
	Short: "Browse and search the TMDB movie catalog from the terminal",
	Long: `moviecat lists popular, top rated and recent movies from The Movie Database,
searches the catalog by title and shows movie details.

The TMDB API key is read from tmdb.api_key in the config file, from
MOVIECAT_TMDB_API_KEY or from TMDB_API_KEY. A .env file in the working
directory is loaded first.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// initializeApp loads configuration and wires the catalog stack
func initializeApp(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if debug {
		cfg.Logging.Level = "debug"
	}
	logger = setupLogger(cfg.Logging)

	client, err := tmdb.NewClient(cfg.TMDB.URL, cfg.TMDB.APIKey, logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithRateLimit(rate.Limit(cfg.TMDB.RateLimit), cfg.TMDB.Burst),
		tmdb.WithUserAgent("moviecat/"+normalizeVersion(version)),
	)
	if err != nil {
		return fmt.Errorf("failed to create TMDB client: %w", err)
	}

	retrier := tmdb.NewRetrier(client, logger,
		tmdb.WithMaxRetries(cfg.TMDB.MaxRetries),
		tmdb.WithBaseDelay(cfg.TMDB.RetryDelay),
	)
	repository = movies.NewRepository(retrier, logger)

	var probe connectivity.Probe
	if cfg.Connectivity.ProbeAddress != "" {
		probe = connectivity.DialProbe{
			Address: cfg.Connectivity.ProbeAddress,
			Timeout: cfg.Connectivity.Timeout,
		}
	}
	monitor = connectivity.NewMonitor(probe, cfg.Connectivity.Interval, logger)

	filters = filter.NewManager()
	if err := filters.RegisterFilters(cfg.Filters); err != nil {
		return fmt.Errorf("failed to load filters: %w", err)
	}

	logger.Debug().
		Str("url", cfg.TMDB.URL).
		Int("max_retries", cfg.TMDB.MaxRetries).
		Strs("filters", filters.Names()).
		Msg("Application initialized")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveSort prefers the flag value and falls back to the configured default
func resolveSort(flagValue string) (movies.Sort, error) {
	if flagValue != "" {
		return movies.ParseSort(flagValue)
	}
	return movies.ParseSort(cfg.Browse.DefaultSort)
}

// resolveFilter returns nil when no filter was requested
func resolveFilter(nameOrExpr string) (filter.Filter, error) {
	if strings.TrimSpace(nameOrExpr) == "" {
		return nil, nil
	}
	f, err := filters.Resolve(nameOrExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return f, nil
}
