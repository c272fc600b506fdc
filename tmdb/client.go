package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public TMDB v3 API root
	DefaultBaseURL = "https://api.themoviedb.org/3"
	// Language is sent with every request
	Language = "en-US"

	// DefaultTimeout bounds a single HTTP request
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit and DefaultBurst pace requests below the TMDB quota
	DefaultRateLimit = 40
	DefaultBurst     = 10

	maxErrorBody = 512
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. No request is made until Get is called,
// so a client can be built while the device is offline.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: tmdb URL is required", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid tmdb URL %q: %v", ErrInvalidConfig, baseURL, err)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		userAgent:  "moviecat",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(DefaultRateLimit, DefaultBurst),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Get performs a single GET for endpoint and decodes the body into out.
// Failures are returned as *TransportError, *StatusError or *DecodeError.
func (c *Client) Get(ctx context.Context, endpoint Endpoint, out any) error {
	kind := endpoint.Kind().String()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	params := endpoint.Params()
	params.Set("api_key", c.apiKey)
	params.Set("language", Language)
	params.Set("include_adult", "false")

	requestURL := c.baseURL + endpoint.Path() + "?" + params.Encode()
	logURL := c.baseURL + endpoint.Path() + "?" + redact(params).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("endpoint", kind).
		Str("url", logURL).
		Msg("Making TMDB API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	RequestLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		RequestsTotal.WithLabelValues(kind, outcomeTransport).Inc()
		// url.Error repeats the request URL, which carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &TransportError{Op: http.MethodGet, URL: logURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		RequestsTotal.WithLabelValues(kind, outcomeTransport).Inc()
		return &TransportError{Op: "read", URL: logURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		RequestsTotal.WithLabelValues(kind, outcomeStatus).Inc()
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(body),
			Body:       truncate(string(body), maxErrorBody),
		}
	}

	if err := c.decode(body, out); err != nil {
		RequestsTotal.WithLabelValues(kind, outcomeDecode).Inc()
		return &DecodeError{Endpoint: kind, Err: err}
	}

	RequestsTotal.WithLabelValues(kind, outcomeOK).Inc()
	c.logger.Debug().
		Str("endpoint", kind).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("TMDB API request completed")

	return nil
}

// decode unmarshals body and checks the result against its validate tags
func (c *Client) decode(body []byte, out any) error {
	if out == nil {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(out); err != nil {
		return err
	}

	if err := c.validate.Struct(out); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			// out is not a struct, nothing to validate
			return nil
		}
		return fmt.Errorf("schema mismatch: %w", err)
	}

	return nil
}

// redact returns a copy of params with the API key hidden so URLs can be logged
func redact(params url.Values) url.Values {
	redacted := make(url.Values, len(params))
	for k, v := range params {
		redacted[k] = slices.Clone(v)
	}
	redacted.Set("api_key", "REDACTED")
	return redacted
}

// statusMessage extracts the TMDB status_message from an error body, if any
func statusMessage(body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.StatusMessage
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
