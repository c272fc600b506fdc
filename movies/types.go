package movies

import (
	"fmt"
	"strings"
	"time"
)

// Summary is an immutable movie entry as shown in catalog listings
type Summary struct {
	ID           int
	Title        string
	Overview     *string
	ReleaseDate  *time.Time
	Rating       *float64
	PosterPath   *string
	BackdropPath *string
}

// Year returns the release year, or 0 when the release date is unknown
func (s Summary) Year() int {
	if s.ReleaseDate == nil {
		return 0
	}
	return s.ReleaseDate.Year()
}

// Page is one page of catalog results
type Page struct {
	Number     int
	TotalPages int
	Items      []Summary
}

// HasMorePages checks if there are more pages to fetch
func (p Page) HasMorePages() bool {
	return p.Number < p.TotalPages
}

// Sort represents a catalog sort order
type Sort int

const (
	// SortPopularity orders by popularity, most popular first
	SortPopularity Sort = iota
	// SortRating orders by average vote, highest first
	SortRating
	// SortReleaseDate orders by primary release date, newest first
	SortReleaseDate
)

// Sorts lists every sort order in display order
var Sorts = []Sort{SortPopularity, SortRating, SortReleaseDate}

// String returns the CLI name of a Sort
func (s Sort) String() string {
	switch s {
	case SortPopularity:
		return "popularity"
	case SortRating:
		return "rating"
	case SortReleaseDate:
		return "release-date"
	default:
		return "unknown"
	}
}

// Token returns the wire value sent as sort_by
func (s Sort) Token() string {
	switch s {
	case SortPopularity:
		return "popularity.desc"
	case SortRating:
		return "vote_average.desc"
	case SortReleaseDate:
		return "primary_release_date.desc"
	default:
		return ""
	}
}

// ParseSort accepts a CLI name or a wire token
func ParseSort(value string) (Sort, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, s := range Sorts {
		if value == s.String() || value == s.Token() {
			return s, nil
		}
	}
	return SortPopularity, fmt.Errorf("unknown sort %q (must be popularity, rating or release-date)", value)
}

// Query describes a single page request against the catalog
type Query struct {
	Page   int
	Text   string
	Sort   Sort
	Genres []int
}
