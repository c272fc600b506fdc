package filter

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/moviecat/moviecat/browse"
)

// DefaultCacheSize is the number of compiled expressions kept by default
const DefaultCacheSize = 64

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an ExprCompiler
type ExprCompilerOption func(*ExprCompiler)

// WithCache sets the compiled expression cache size. Zero disables caching.
func WithCache(size int) ExprCompilerOption {
	return func(c *ExprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		} else {
			c.cache = nil
		}
	}
}

// WithCustomFunctions adds helper functions callable from expressions.
// Names taken by expr operators (contains, startsWith, matches, ...) make
// every Compile fail.
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *ExprCompiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// ExprCompiler compiles expressions over browse.Item fields
type ExprCompiler struct {
	helpers map[string]any
	cache   *lruCache[CompiledFilter]
}

var _ CachingCompiler = (*ExprCompiler)(nil)

// NewExprCompiler creates an expr based compiler with a default cache
func NewExprCompiler(opts ...ExprCompilerOption) *ExprCompiler {
	c := &ExprCompiler{
		helpers: helperFunctions(),
		cache:   newLRUCache[CompiledFilter](DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile compiles an expression into a filter. Unknown identifiers and
// non-boolean results are rejected here rather than at evaluation time.
func (c *ExprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if name, ok := reservedHelper(c.helpers); ok {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     fmt.Sprintf("helper %q collides with an expr operator", name),
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(environment(c.helpers, browse.Item{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helpers,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *ExprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *ExprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Len()
	}
	return 0
}

// Match reports whether item satisfies the expression. Runtime failures
// count as no match.
func (f *exprFilter) Match(item browse.Item) bool {
	ok, err := f.Eval(item)
	return err == nil && ok
}

// Eval runs the expression against item
func (f *exprFilter) Eval(item browse.Item) (bool, error) {
	result, err := expr.Run(f.program, environment(f.helpers, item))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, ItemID: item.ID, Err: err}
	}

	// AsBool guarantees the result type
	return result.(bool), nil
}

func (f *exprFilter) Expression() string {
	return f.expression
}

// operatorNames are expr keywords and word operators; a helper with one of
// these names cannot be called
var operatorNames = []string{
	"and", "or", "not", "in", "matches", "contains", "startsWith", "endsWith",
	"let", "nil", "true", "false",
}

func reservedHelper(helpers map[string]any) (string, bool) {
	for _, name := range operatorNames {
		if _, ok := helpers[name]; ok {
			return name, true
		}
	}
	return "", false
}

// helperFunctions are case insensitive; the operator forms
// (Title contains "War") stay case sensitive
func helperFunctions() map[string]any {
	return map[string]any{
		"hasText": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasPrefix": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"hasSuffix": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// environment exposes item fields next to the helpers. Year and Rating are
// numeric, zero when unknown; Rated tells the two cases apart.
func environment(helpers map[string]any, item browse.Item) map[string]any {
	env := make(map[string]any, len(helpers)+8)
	maps.Copy(env, helpers)

	year, _ := strconv.Atoi(item.Year)
	rating, err := strconv.ParseFloat(item.Rating, 64)
	rated := err == nil
	if !rated {
		rating = 0
	}

	env["Item"] = item
	env["ID"] = item.ID
	env["Title"] = item.Title
	env["Year"] = year
	env["Rating"] = rating
	env["Rated"] = rated
	env["HasPoster"] = item.PosterPath != ""
	env["HasBackdrop"] = item.BackdropPath != ""

	return env
}
