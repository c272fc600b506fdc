package tmdb

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultMaxRetries is the number of extra attempts after a server error
	DefaultMaxRetries = 2
	// DefaultBaseDelay is the delay before the first retry
	DefaultBaseDelay = 500 * time.Millisecond
)

// Retrier wraps an API and retries server errors with exponential backoff.
// Only 5xx responses are retried; every other failure is returned as is.
type Retrier struct {
	api        API
	maxRetries int
	baseDelay  time.Duration
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewRetrier creates a Retrier around api
func NewRetrier(api API, logger zerolog.Logger, opts ...RetryOption) *Retrier {
	r := &Retrier{
		api:        api,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		logger:     logger,
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Get implements API
func (r *Retrier) Get(ctx context.Context, endpoint Endpoint, out any) error {
	var err error

	for attempt := 0; ; attempt++ {
		err = r.api.Get(ctx, endpoint, out)
		if err == nil || !Retryable(err) || attempt >= r.maxRetries {
			return err
		}

		delay := r.Backoff(attempt)
		RetriesTotal.WithLabelValues(endpoint.Kind().String()).Inc()
		r.logger.Warn().
			Err(err).
			Str("endpoint", endpoint.Kind().String()).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("TMDB server error, retrying")

		if serr := r.sleep(ctx, delay); serr != nil {
			return err
		}
	}
}

// Backoff returns the delay after the given zero-based attempt
func (r *Retrier) Backoff(attempt int) time.Duration {
	return time.Duration(float64(r.baseDelay) * math.Pow(2, float64(attempt)))
}

// Retryable reports whether err is a server error worth retrying
func Retryable(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.IsServerError()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
