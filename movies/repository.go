package movies

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moviecat/moviecat/tmdb"
)

// Repository fetches catalog pages and movie details through a tmdb.API
type Repository struct {
	api    tmdb.API
	logger zerolog.Logger
}

// NewRepository creates a new Repository
func NewRepository(api tmdb.API, logger zerolog.Logger) *Repository {
	return &Repository{
		api:    api,
		logger: logger,
	}
}

// Fetch loads one page. A query with non-blank text is a search, anything
// else is a discover by sort and genres. Errors are returned as *Error.
func (r *Repository) Fetch(ctx context.Context, q Query) (Page, error) {
	var endpoint tmdb.Endpoint
	if text := strings.TrimSpace(q.Text); text != "" {
		endpoint = tmdb.Search(text, q.Page)
	} else {
		endpoint = tmdb.Discover(q.Page, q.Sort.Token(), q.Genres)
	}

	var resp tmdb.PageResponse
	if err := r.api.Get(ctx, endpoint, &resp); err != nil {
		classified := Classify(err)
		r.logger.Debug().
			Err(err).
			Str("endpoint", endpoint.Kind().String()).
			Str("kind", classified.Kind.String()).
			Int("page", q.Page).
			Msg("Catalog fetch failed")
		return Page{}, classified
	}

	page := MapPage(resp)
	r.logger.Debug().
		Str("endpoint", endpoint.Kind().String()).
		Int("page", page.Number).
		Int("total_pages", page.TotalPages).
		Int("count", len(page.Items)).
		Msg("Retrieved catalog page")

	return page, nil
}

// Details loads a single movie by id. Errors are returned as *Error.
func (r *Repository) Details(ctx context.Context, id int) (Summary, error) {
	var movie tmdb.Movie
	if err := r.api.Get(ctx, tmdb.Details(id), &movie); err != nil {
		return Summary{}, Classify(err)
	}
	return MapMovie(movie), nil
}
