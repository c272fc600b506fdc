// Package tmdb provides a client for the TMDB v3 catalog API.
//
// The package covers the three catalog endpoints the browser needs (discover,
// search and details) and nothing else. Every request carries the API key, a
// fixed locale and the adult-content flag.
//
// # Architecture
//
//   - Client: performs exactly one GET per call, validates the status and
//     decodes the body against the expected schema
//   - Retrier: wraps any API and retries 5xx responses with exponential backoff
//   - Endpoint: describes a request path and its endpoint specific parameters
//   - Errors: TransportError, StatusError and DecodeError keep the raw failure
//     kinds apart so callers can classify them
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient(tmdb.DefaultBaseURL, apiKey, logger,
//		tmdb.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	api := tmdb.NewRetrier(client, logger)
//
//	var page tmdb.PageResponse
//	err = api.Get(ctx, tmdb.Discover(1, "popularity.desc", nil), &page)
package tmdb
