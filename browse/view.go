package browse

import (
	"fmt"
	"strconv"

	"github.com/moviecat/moviecat/movies"
)

// View is the presentation boundary. The Controller calls it while holding
// its lock, so implementations must not call back into the Controller.
type View interface {
	ShowLoading(loading bool)
	ShowMovies(items []Item)
	ShowEmptyState(message string)
	ShowError(message string)
}

// Item is a display-ready movie entry, keyed by ID
type Item struct {
	ID           int
	Title        string
	Year         string
	Rating       string
	PosterPath   string
	BackdropPath string
}

// Project converts a Summary into an Item. Year is four digits or empty and
// Rating has one decimal place or is empty.
func Project(s movies.Summary) Item {
	item := Item{
		ID:    s.ID,
		Title: s.Title,
	}
	if s.ReleaseDate != nil {
		item.Year = fmt.Sprintf("%04d", s.ReleaseDate.Year())
	}
	if s.Rating != nil {
		item.Rating = strconv.FormatFloat(*s.Rating, 'f', 1, 64)
	}
	if s.PosterPath != nil {
		item.PosterPath = *s.PosterPath
	}
	if s.BackdropPath != nil {
		item.BackdropPath = *s.BackdropPath
	}
	return item
}

// Messages supplies the user-facing strings. Localization lives behind it.
type Messages interface {
	Offline() string
	HTTP(code int) string
	Decoding() string
	Unknown() string
	Empty() string
}

// EnglishMessages is the default Messages implementation
type EnglishMessages struct{}

// Offline is shown when a fetch is skipped without a network
func (EnglishMessages) Offline() string {
	return "You are offline. Please enable Wi-Fi or connect using cellular data."
}

// HTTP is shown for a non-success status
func (EnglishMessages) HTTP(code int) string {
	return fmt.Sprintf("The server returned an error (HTTP %d). Please try again later.", code)
}

// Decoding is shown when the response could not be read
func (EnglishMessages) Decoding() string {
	return "Received unexpected data from the server."
}

// Unknown covers every other failure
func (EnglishMessages) Unknown() string {
	return "Something went wrong. Please try again."
}

// Empty is shown when a fetch returns no movies
func (EnglishMessages) Empty() string {
	return "No results"
}

// MessageFor picks the message for a classified failure
func MessageFor(m Messages, err *movies.Error) string {
	if err == nil {
		return m.Unknown()
	}
	switch err.Kind {
	case movies.KindOffline:
		return m.Offline()
	case movies.KindHTTP:
		return m.HTTP(err.Code)
	case movies.KindDecoding:
		return m.Decoding()
	default:
		return m.Unknown()
	}
}
