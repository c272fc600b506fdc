package filter

import (
	"github.com/moviecat/moviecat/browse"
)

// Filter decides whether a list item is shown
type Filter interface {
	// Match checks if an item satisfies the filter
	Match(item browse.Item) bool
}

// CompiledFilter is a Filter built from an expression
type CompiledFilter interface {
	Filter

	// Expression returns the source expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler keeps compiled filters around between calls
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
