// Package browse orchestrates catalog fetching for a scrolling movie list.
//
// The Controller owns query, sort and page state. It debounces search input,
// merges pages by movie id, drops completions that belong to an older query
// and reports every outcome to a View.
package browse

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moviecat/moviecat/movies"
)

const (
	// DefaultDebounce is the quiet period before a search is sent
	DefaultDebounce = 350 * time.Millisecond

	// loadMoreThreshold is how close to the end of the list the visible
	// index must be before the next page is requested
	loadMoreThreshold = 5
)

// Fetcher loads one catalog page
type Fetcher interface {
	Fetch(ctx context.Context, q movies.Query) (movies.Page, error)
}

// Connectivity reports the last known network status
type Connectivity interface {
	IsOnline() bool
}

// Option configures a Controller
type Option func(*Controller)

// WithSort sets the initial sort order
func WithSort(sort movies.Sort) Option {
	return func(c *Controller) {
		c.state.sort = sort
	}
}

// WithDebounce overrides the search debounce delay
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithMessages replaces the default English messages
func WithMessages(m Messages) Option {
	return func(c *Controller) {
		if m != nil {
			c.messages = m
		}
	}
}

// WithGenres restricts discover requests to the given genre ids
func WithGenres(genres ...int) Option {
	return func(c *Controller) {
		c.genres = append([]int(nil), genres...)
	}
}

// state is the query state of one controller. generation increases on every
// reset and tags each fetch so stale completions can be recognised.
type state struct {
	page       int
	totalPages int
	items      []movies.Summary
	index      map[int]int
	query      string
	sort       movies.Sort
	generation uint64
}

type pendingSearch struct {
	seq   uint64
	query string
	timer *time.Timer
}

// Controller is the query state machine behind a movie list. Its public
// methods are meant to be called from a single goroutine; fetches complete
// on their own goroutines.
type Controller struct {
	fetcher  Fetcher
	monitor  Connectivity
	view     View
	messages Messages
	logger   zerolog.Logger
	debounce time.Duration
	genres   []int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	state     state
	inFlight  bool
	pending   *pendingSearch
	searchSeq uint64
	closed    bool
}

// New creates a Controller. Nothing is fetched until OnLoad is called.
func New(fetcher Fetcher, monitor Connectivity, view View, logger zerolog.Logger, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		fetcher:  fetcher,
		monitor:  monitor,
		view:     view,
		messages: EnglishMessages{},
		logger:   logger,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
		state: state{
			totalPages: 1,
			index:      make(map[int]int),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// OnLoad resets the state and fetches the first page
func (c *Controller) OnLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reload("load")
}

// Refresh resets the state and fetches the first page again
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reload("refresh")
}

// SetSort switches the sort order. Selecting the current order does nothing.
func (c *Controller) SetSort(sort movies.Sort) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.sort == sort {
		return
	}
	c.state.sort = sort
	c.reload("sort")
}

// Search schedules a query for text after the debounce delay. Each call
// replaces the previously scheduled one. Blank text clears the query.
func (c *Controller) Search(text string) {
	resolved := strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancelPendingLocked()
	if resolved == c.state.query {
		return
	}

	c.searchSeq++
	seq := c.searchSeq
	c.wg.Add(1)
	c.pending = &pendingSearch{
		seq:   seq,
		query: resolved,
		timer: time.AfterFunc(c.debounce, func() { c.fireSearch(seq) }),
	}
}

// LoadMoreIfNeeded fetches the next page when visibleIndex is within the
// last few items and more pages exist. It does nothing while a fetch for
// the current query is still running.
func (c *Controller) LoadMoreIfNeeded(visibleIndex int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.inFlight {
		return
	}
	if visibleIndex < len(c.state.items)-loadMoreThreshold || c.state.page >= c.state.totalPages {
		return
	}
	c.fetchLocked(c.state.page+1, false)
}

// Items returns the current display snapshot
func (c *Controller) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.projectLocked()
}

// Sort returns the active sort order
func (c *Controller) Sort() movies.Sort {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.sort
}

// Query returns the active search text, empty when browsing
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.query
}

// HasMore reports whether another page can be loaded
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.page < c.state.totalPages
}

// Wait blocks until no fetch is running and no search is scheduled
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels any scheduled search and discards all later completions
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancelPendingLocked()
	c.mu.Unlock()

	c.cancel()
}

func (c *Controller) fireSearch(seq uint64) {
	defer c.wg.Done()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.pending == nil || c.pending.seq != seq {
		return
	}
	c.state.query = c.pending.query
	c.pending = nil
	c.reload("search")
}

func (c *Controller) cancelPendingLocked() {
	if c.pending == nil {
		return
	}
	if c.pending.timer.Stop() {
		c.wg.Done()
	}
	c.pending = nil
}

func (c *Controller) reload(reason string) {
	if c.closed {
		return
	}
	c.resetLocked()
	c.logger.Debug().
		Str("reason", reason).
		Uint64("generation", c.state.generation).
		Str("query", c.state.query).
		Str("sort", c.state.sort.String()).
		Msg("Query state reset")
	c.fetchLocked(1, true)
}

func (c *Controller) resetLocked() {
	c.state.page = 0
	c.state.totalPages = 1
	c.state.items = nil
	c.state.index = make(map[int]int)
	c.state.generation++
	c.inFlight = false
}

func (c *Controller) fetchLocked(page int, reset bool) {
	c.view.ShowLoading(true)

	if !c.monitor.IsOnline() {
		c.logger.Debug().Int("page", page).Msg("Offline, skipping fetch")
		c.view.ShowLoading(false)
		c.view.ShowError(c.messages.Offline())
		return
	}

	generation := c.state.generation
	q := movies.Query{
		Page:   page,
		Text:   c.state.query,
		Sort:   c.state.sort,
		Genres: c.genres,
	}

	c.inFlight = true
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		result, err := c.fetcher.Fetch(c.ctx, q)
		c.complete(generation, reset, result, err)
	}()
}

func (c *Controller) complete(generation uint64, reset bool, page movies.Page, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || generation != c.state.generation {
		c.logger.Debug().
			Uint64("generation", generation).
			Uint64("current", c.state.generation).
			Msg("Discarding stale fetch result")
		return
	}
	c.inFlight = false

	if err != nil {
		classified := movies.Classify(err)
		c.logger.Warn().
			Err(err).
			Str("kind", classified.Kind.String()).
			Msg("Catalog fetch failed")
		c.view.ShowLoading(false)
		c.view.ShowError(MessageFor(c.messages, classified))
		return
	}

	c.mergeLocked(page, reset)
	items := c.projectLocked()

	c.view.ShowLoading(false)
	if len(items) == 0 {
		c.view.ShowEmptyState(c.messages.Empty())
		return
	}
	c.view.ShowMovies(items)
}

// mergeLocked applies a page. A repeated id keeps its first position and
// takes the newer fields.
func (c *Controller) mergeLocked(page movies.Page, reset bool) {
	if reset {
		c.state.items = nil
		c.state.index = make(map[int]int)
	}

	c.state.page = max(page.Number, 1)
	c.state.totalPages = max(page.TotalPages, c.state.page)

	for _, m := range page.Items {
		if i, ok := c.state.index[m.ID]; ok {
			c.state.items[i] = m
			continue
		}
		c.state.index[m.ID] = len(c.state.items)
		c.state.items = append(c.state.items, m)
	}
}

func (c *Controller) projectLocked() []Item {
	items := make([]Item, 0, len(c.state.items))
	for _, m := range c.state.items {
		items = append(items, Project(m))
	}
	return items
}
