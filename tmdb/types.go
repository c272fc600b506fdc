package tmdb

// Movie is a movie record as returned by the discover, search and details endpoints
type Movie struct {
	ID           int      `json:"id" validate:"required"`
	Title        string   `json:"title"`
	Overview     *string  `json:"overview"`
	PosterPath   *string  `json:"poster_path"`
	BackdropPath *string  `json:"backdrop_path"`
	ReleaseDate  *string  `json:"release_date"`
	VoteAverage  *float64 `json:"vote_average"`
}

// PageResponse represents the paginated envelope of discover and search
type PageResponse struct {
	Page       int     `json:"page" validate:"gte=0"`
	TotalPages int     `json:"total_pages" validate:"gte=0"`
	Results    []Movie `json:"results" validate:"required,dive"`
}
