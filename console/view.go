// Package console renders browse output for a terminal.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/moviecat/moviecat/browse"
	"github.com/moviecat/moviecat/filter"
)

// Option configures a View
type Option func(*View)

// WithFilter hides items that do not match f
func WithFilter(f filter.Filter) Option {
	return func(v *View) {
		v.filter = f
	}
}

// WithStatus writes loading indicators to w. They are dropped by default.
func WithStatus(w io.Writer) Option {
	return func(v *View) {
		v.status = w
	}
}

// WithDeferred holds list and empty state output until Render is called.
// Errors are still printed immediately.
func WithDeferred() Option {
	return func(v *View) {
		v.deferred = true
	}
}

// View implements browse.View by printing to an io.Writer
type View struct {
	out       io.Writer
	status    io.Writer
	filter    filter.Filter
	formatter *Formatter
	deferred  bool

	mu      sync.Mutex
	loading bool
	shown   []browse.Item
	lastErr string
	pending string
}

// NewView creates a View writing to out
func NewView(out io.Writer, opts ...Option) *View {
	v := &View{
		out:       out,
		formatter: NewFormatter(),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ShowLoading writes a status line when loading starts
func (v *View) ShowLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.loading == loading {
		return
	}
	v.loading = loading
	if loading && v.status != nil {
		fmt.Fprintln(v.status, "Loading...")
	}
}

// ShowMovies prints the items that pass the display filter
func (v *View) ShowMovies(items []browse.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()

	visible := filter.Apply(v.filter, items)
	v.shown = visible
	v.lastErr = ""

	if len(visible) == 0 {
		v.emit(fmt.Sprintf("No movies match the filter (%d hidden)\n", len(items)))
		return
	}
	v.emit(v.formatter.FormatList(visible, len(items)-len(visible)))
}

// ShowEmptyState prints message in place of the list
func (v *View) ShowEmptyState(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.shown = nil
	v.lastErr = ""
	v.emit(message + "\n")
}

// ShowError prints message right away, even in deferred mode
func (v *View) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lastErr = message
	fmt.Fprintf(v.out, "Error: %s\n", message)
}

// Render prints the output held back by WithDeferred
func (v *View) Render() {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprint(v.out, v.pending)
	v.pending = ""
}

func (v *View) emit(text string) {
	if v.deferred {
		v.pending = text
		return
	}
	fmt.Fprint(v.out, text)
}

// Shown returns the items printed by the last ShowMovies call
func (v *View) Shown() []browse.Item {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]browse.Item(nil), v.shown...)
}

// LastError returns the last error message, cleared by any later result
func (v *View) LastError() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.lastErr
}
