package console

import (
	"fmt"
	"strings"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/movies"
)

// Formatter renders list items and movie details as tree style text
type Formatter struct{}

// NewFormatter creates a new console formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatList formats items for display. hidden is the number of items a
// display filter removed and is shown in the header when non-zero.
func (f *Formatter) FormatList(items []browse.Item, hidden int) string {
	var sb strings.Builder

	sb.WriteString("\nMovie")
	if len(items) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d", len(items))
	if hidden > 0 {
		fmt.Fprintf(&sb, ", %d hidden", hidden)
	}
	sb.WriteString("):\n\n")

	for i, item := range items {
		isLast := i == len(items)-1
		prefix := "├"
		if isLast {
			prefix = "╰"
		}

		fmt.Fprintf(&sb, "%s── %3d. %s\n", prefix, i+1, f.title(item.Title, item.Year))

		indent := "│        "
		if isLast {
			indent = "         "
		}

		var parts []string
		if item.Rating != "" {
			parts = append(parts, "Rating: "+item.Rating)
		}
		parts = append(parts, fmt.Sprintf("TMDB: %d", item.ID))
		fmt.Fprintf(&sb, "%s%s\n", indent, strings.Join(parts, " | "))
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatDetails formats a single movie with its overview
func (f *Formatter) FormatDetails(s movies.Summary) string {
	var sb strings.Builder

	year := ""
	if s.ReleaseDate != nil {
		year = fmt.Sprintf("%04d", s.ReleaseDate.Year())
	}
	fmt.Fprintf(&sb, "╰── %s\n", f.title(s.Title, year))

	const indent = "    "
	fmt.Fprintf(&sb, "%sTMDB: %d\n", indent, s.ID)
	if s.ReleaseDate != nil {
		fmt.Fprintf(&sb, "%sReleased: %s\n", indent, s.ReleaseDate.Format("2006-01-02"))
	}
	if s.Rating != nil {
		fmt.Fprintf(&sb, "%sRating: %.1f\n", indent, *s.Rating)
	}
	if s.PosterPath != nil && *s.PosterPath != "" {
		fmt.Fprintf(&sb, "%sPoster: %s\n", indent, *s.PosterPath)
	}
	if s.Overview != nil && *s.Overview != "" {
		fmt.Fprintf(&sb, "%s%s\n", indent, *s.Overview)
	}

	return sb.String()
}

func (f *Formatter) title(title, year string) string {
	if year == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, year)
}
