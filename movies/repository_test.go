package movies

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecat/moviecat/tmdb"
)

// fakeAPI records requested endpoints and serves canned payloads
type fakeAPI struct {
	page      tmdb.PageResponse
	movie     tmdb.Movie
	err       error
	endpoints []tmdb.Endpoint
}

func (f *fakeAPI) Get(ctx context.Context, endpoint tmdb.Endpoint, out any) error {
	f.endpoints = append(f.endpoints, endpoint)
	if f.err != nil {
		return f.err
	}
	switch v := out.(type) {
	case *tmdb.PageResponse:
		*v = f.page
	case *tmdb.Movie:
		*v = f.movie
	}
	return nil
}

func TestRepository_Fetch_SelectsEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		query      Query
		wantKind   tmdb.Kind
		wantParams map[string]string
	}{
		{
			name:     "discover by sort",
			query:    Query{Page: 1, Sort: SortRating},
			wantKind: tmdb.KindDiscover,
			wantParams: map[string]string{
				"page":    "1",
				"sort_by": "vote_average.desc",
			},
		},
		{
			name:     "discover with genres",
			query:    Query{Page: 2, Sort: SortPopularity, Genres: []int{28, 35}},
			wantKind: tmdb.KindDiscover,
			wantParams: map[string]string{
				"page":        "2",
				"sort_by":     "popularity.desc",
				"with_genres": "28,35",
			},
		},
		{
			name:     "search with trimmed text",
			query:    Query{Page: 3, Text: "  alien ", Sort: SortReleaseDate},
			wantKind: tmdb.KindSearch,
			wantParams: map[string]string{
				"page":  "3",
				"query": "alien",
			},
		},
		{
			name:     "blank text falls back to discover",
			query:    Query{Page: 1, Text: "   "},
			wantKind: tmdb.KindDiscover,
			wantParams: map[string]string{
				"sort_by": "popularity.desc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{page: tmdb.PageResponse{Page: tt.query.Page, TotalPages: 5, Results: []tmdb.Movie{{ID: 1, Title: "A"}}}}
			repo := NewRepository(api, zerolog.Nop())

			page, err := repo.Fetch(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.query.Page, page.Number)
			assert.Equal(t, 5, page.TotalPages)

			require.Len(t, api.endpoints, 1)
			assert.Equal(t, tt.wantKind, api.endpoints[0].Kind())
			params := api.endpoints[0].Params()
			for k, v := range tt.wantParams {
				assert.Equal(t, v, params.Get(k), "param %s", k)
			}
			if tt.wantKind == tmdb.KindSearch {
				assert.False(t, params.Has("sort_by"))
			}
		})
	}
}

func TestRepository_Fetch_ClassifiesErrors(t *testing.T) {
	api := &fakeAPI{err: &tmdb.StatusError{StatusCode: 401}}
	repo := NewRepository(api, zerolog.Nop())

	_, err := repo.Fetch(context.Background(), Query{Page: 1})

	var classified *Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, KindHTTP, classified.Kind)
	assert.Equal(t, 401, classified.Code)
}

func TestRepository_Details(t *testing.T) {
	api := &fakeAPI{movie: tmdb.Movie{ID: 603, Title: "The Matrix", ReleaseDate: strPtr("1999-03-30")}}
	repo := NewRepository(api, zerolog.Nop())

	movie, err := repo.Details(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, 1999, movie.Year())
	assert.Equal(t, "/movie/603", api.endpoints[0].Path())

	api.err = &tmdb.DecodeError{Endpoint: "details"}
	_, err = repo.Details(context.Background(), 603)

	var classified *Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, KindDecoding, classified.Kind)
}
