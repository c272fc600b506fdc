package tmdb

import (
	"context"
)

// API defines the interface for catalog requests
type API interface {
	// Get issues the request described by endpoint and decodes the body into out
	Get(ctx context.Context, endpoint Endpoint, out any) error
}
