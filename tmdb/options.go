package tmdb

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRateLimit paces outgoing requests. A zero limit disables pacing.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// RetryOption configures a Retrier.
type RetryOption func(*Retrier)

// WithMaxRetries sets the number of additional attempts after the first.
func WithMaxRetries(retries int) RetryOption {
	return func(r *Retrier) {
		if retries >= 0 {
			r.maxRetries = retries
		}
	}
}

// WithBaseDelay sets the delay before the first retry. Later delays double.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(r *Retrier) {
		if delay > 0 {
			r.baseDelay = delay
		}
	}
}
