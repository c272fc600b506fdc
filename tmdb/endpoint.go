package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Kind identifies a catalog endpoint
type Kind int

const (
	// KindDiscover browses the catalog by sort and genre
	KindDiscover Kind = iota
	// KindSearch runs a free-text query
	KindSearch
	// KindDetails fetches a single movie
	KindDetails
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindDiscover:
		return "discover"
	case KindSearch:
		return "search"
	case KindDetails:
		return "details"
	default:
		return "unknown"
	}
}

// Endpoint describes a single catalog request
type Endpoint struct {
	kind   Kind
	path   string
	params url.Values
}

// Discover returns the discover endpoint for page. An empty sortToken omits
// sort_by and an empty genres slice omits with_genres.
func Discover(page int, sortToken string, genres []int) Endpoint {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if sortToken != "" {
		params.Set("sort_by", sortToken)
	}
	if len(genres) > 0 {
		ids := make([]string, 0, len(genres))
		for _, g := range genres {
			ids = append(ids, strconv.Itoa(g))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}

	return Endpoint{kind: KindDiscover, path: "/discover/movie", params: params}
}

// Search returns the search endpoint for query and page
func Search(query string, page int) Endpoint {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	return Endpoint{kind: KindSearch, path: "/search/movie", params: params}
}

// Details returns the details endpoint for a movie id
func Details(id int) Endpoint {
	return Endpoint{kind: KindDetails, path: fmt.Sprintf("/movie/%d", id), params: url.Values{}}
}

// Kind returns the endpoint kind
func (e Endpoint) Kind() Kind {
	return e.kind
}

// Path returns the request path relative to the API base URL
func (e Endpoint) Path() string {
	return e.path
}

// Params returns a copy of the endpoint specific query parameters
func (e Endpoint) Params() url.Values {
	out := make(url.Values, len(e.params))
	for k, v := range e.params {
		out[k] = append([]string(nil), v...)
	}
	return out
}
