package filter

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/moviecat/moviecat/browse"
)

// Manager holds named filters and compiles ad hoc expressions on demand
type Manager struct {
	compiler Compiler
	filters  map[string]CompiledFilter
	mu       sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler: NewExprCompiler(),
		filters:  make(map[string]CompiledFilter),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// RegisterFilters compiles and registers all filters. Nothing is registered
// if any expression fails to compile.
func (m *Manager) RegisterFilters(filters map[string]string) error {
	compiled := make(map[string]CompiledFilter, len(filters))

	for name, expression := range filters {
		filter, err := m.compiler.Compile(expression)
		if err != nil {
			return fmt.Errorf("failed to compile filter '%s': %w", name, err)
		}
		compiled[name] = filter
	}

	m.mu.Lock()
	maps.Copy(m.filters, compiled)
	m.mu.Unlock()

	return nil
}

// Get returns a registered filter by name
func (m *Manager) Get(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filter, ok := m.filters[name]
	return filter, ok
}

// Names returns the registered filter names, sorted
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.filters))
}

// Resolve returns the filter registered as nameOrExpr, or compiles it as an
// expression when no such name exists. Names prefixed with @ must be registered.
func (m *Manager) Resolve(nameOrExpr string) (CompiledFilter, error) {
	if len(nameOrExpr) > 1 && nameOrExpr[0] == '@' {
		if filter, ok := m.Get(nameOrExpr[1:]); ok {
			return filter, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, nameOrExpr[1:])
	}
	if filter, ok := m.Get(nameOrExpr); ok {
		return filter, nil
	}
	return m.compiler.Compile(nameOrExpr)
}

// Apply returns the items matched by f in their original order. A nil
// filter matches everything.
func Apply(f Filter, items []browse.Item) []browse.Item {
	if f == nil {
		return items
	}

	matched := make([]browse.Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
