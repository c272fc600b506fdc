package movies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviecat/moviecat/tmdb"
)

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		wantYear int
		wantNil  bool
	}{
		{name: "valid date", input: strPtr("2024-03-01"), wantYear: 2024},
		{name: "nil", input: nil, wantNil: true},
		{name: "empty", input: strPtr(""), wantNil: true},
		{name: "not a date", input: strPtr("not-a-date"), wantNil: true},
		{name: "wrong layout", input: strPtr("01/03/2024"), wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReleaseDate(tt.input)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantYear, got.Year())
			assert.Equal(t, time.March, got.Month())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestMapMovie(t *testing.T) {
	summary := MapMovie(tmdb.Movie{
		ID:          603,
		Title:       "The Matrix",
		Overview:    strPtr("Wake up"),
		PosterPath:  strPtr("/poster.jpg"),
		ReleaseDate: strPtr("1999-03-30"),
		VoteAverage: floatPtr(8.2),
	})

	assert.Equal(t, 603, summary.ID)
	assert.Equal(t, "The Matrix", summary.Title)
	assert.Equal(t, "Wake up", *summary.Overview)
	assert.Equal(t, "/poster.jpg", *summary.PosterPath)
	assert.Nil(t, summary.BackdropPath)
	assert.Equal(t, 1999, summary.Year())
	assert.InDelta(t, 8.2, *summary.Rating, 0.0001)

	unknown := MapMovie(tmdb.Movie{ID: 1, Title: "Untitled", ReleaseDate: strPtr("not-a-date")})
	assert.Nil(t, unknown.ReleaseDate)
	assert.Nil(t, unknown.Rating)
	assert.Equal(t, 0, unknown.Year())
}

func TestMapPage(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		page := MapPage(tmdb.PageResponse{
			Page:       2,
			TotalPages: 3,
			Results: []tmdb.Movie{
				{ID: 30, Title: "C"},
				{ID: 10, Title: "A"},
				{ID: 20, Title: "B"},
			},
		})

		assert.Equal(t, 2, page.Number)
		assert.Equal(t, 3, page.TotalPages)
		require.Len(t, page.Items, 3)
		assert.Equal(t, []int{30, 10, 20}, []int{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID})
		assert.True(t, page.HasMorePages())
	})

	t.Run("empty search", func(t *testing.T) {
		page := MapPage(tmdb.PageResponse{Page: 1, TotalPages: 0, Results: []tmdb.Movie{}})

		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 1, page.TotalPages)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasMorePages())
	})
}

func TestSort(t *testing.T) {
	tests := []struct {
		sort  Sort
		name  string
		token string
	}{
		{SortPopularity, "popularity", "popularity.desc"},
		{SortRating, "rating", "vote_average.desc"},
		{SortReleaseDate, "release-date", "primary_release_date.desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.sort.String())
			assert.Equal(t, tt.token, tt.sort.Token())

			parsed, err := ParseSort(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.sort, parsed)

			parsed, err = ParseSort(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.sort, parsed)
		})
	}

	_, err := ParseSort("alphabetical")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort")
}
