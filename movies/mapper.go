package movies

import (
	"time"

	"github.com/moviecat/moviecat/tmdb"
)

// releaseDateLayout is the yyyy-MM-dd layout TMDB uses for release_date
const releaseDateLayout = "2006-01-02"

// MapMovie converts a wire movie record to a Summary
func MapMovie(m tmdb.Movie) Summary {
	return Summary{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		ReleaseDate:  ParseReleaseDate(m.ReleaseDate),
		Rating:       m.VoteAverage,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
	}
}

// MapPage converts a page envelope to a Page, keeping result order.
// TotalPages is raised to at least max(1, Number) so empty searches, which
// TMDB reports with total_pages 0, still satisfy page <= totalPages.
func MapPage(resp tmdb.PageResponse) Page {
	items := make([]Summary, 0, len(resp.Results))
	for _, m := range resp.Results {
		items = append(items, MapMovie(m))
	}

	number := max(resp.Page, 1)
	return Page{
		Number:     number,
		TotalPages: max(resp.TotalPages, number),
		Items:      items,
	}
}

// ParseReleaseDate parses a yyyy-MM-dd date in UTC. Nil, empty and
// unparsable values yield nil.
func ParseReleaseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(releaseDateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
