package router

import (
	"sync"

	"github.com/skiffhttp/skiff/httpx"
)

// Table is the ordered route registry. Registration order is
// semantically significant: the first matching route wins. The table
// is the only resource shared across connection handlers; a
// reader-writer lock allows many concurrent dispatches while
// registration holds the exclusive lock.
type Table struct {
	mu          sync.RWMutex
	routes      []*Route
	middlewares []Middleware
}

// Match is the result of a successful route lookup.
type Match struct {
	Route  *Route
	Params map[string]string
}

// New creates an empty route table.
func New() *Table {
	return &Table{}
}

// Add registers a route, compiling its pattern once. The route is
// owned by the table afterwards and must not be mutated.
func (t *Table) Add(route *Route) error {
	if err := route.compileMatcher(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes = append(t.routes, route)
	return nil
}

// Use appends a global middleware. Global middleware runs before any
// route matching, in registration order.
func (t *Table) Use(mw Middleware) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.middlewares = append(t.middlewares, mw)
}

// Middlewares returns a snapshot of the global middleware chain.
func (t *Table) Middlewares() []Middleware {
	t.mu.RLock()
	defer t.mu.RUnlock()
	chain := make([]Middleware, len(t.middlewares))
	copy(chain, t.middlewares)
	return chain
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.routes)
}

// Find resolves (path, method, subdomain) to a route and its extracted
// parameters. It returns *MethodNotAllowedError when some route
// accepts the path and subdomain but not the method, and
// *NotFoundError when nothing matches. Subdomain comparison is strict
// string equality: a route with no subdomain constraint only matches
// requests with no resolved subdomain.
func (t *Table) Find(path string, method httpx.Method, subdomain string) (*Match, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	pathKnown := false

	for _, route := range t.routes {
		if route.Subdomain != subdomain {
			continue
		}

		rule := route.match(path)
		if rule == ruleNone {
			continue
		}
		pathKnown = true

		if route.Method != method {
			continue
		}

		// An explicit pattern is authoritative: a segment-wise match
		// on a pattern-carrying route that the pattern rejects ends
		// the lookup, it does not fall through to later routes.
		if rule == ruleSegments && route.matcher != nil {
			return nil, &NotFoundError{Path: path, Method: method, Subdomain: subdomain}
		}

		return &Match{Route: route, Params: route.params(path)}, nil
	}

	if pathKnown {
		return nil, &MethodNotAllowedError{
			Path:    path,
			Method:  method,
			Allowed: t.allowedLocked(path, subdomain),
		}
	}
	return nil, &NotFoundError{Path: path, Method: method, Subdomain: subdomain}
}

// AllowedMethods returns the de-duplicated set of methods registered
// for the path and subdomain, in registration order.
func (t *Table) AllowedMethods(path, subdomain string) []httpx.Method {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allowedLocked(path, subdomain)
}

// allowedLocked collects allowed methods. Callers must hold the lock.
func (t *Table) allowedLocked(path, subdomain string) []httpx.Method {
	var methods []httpx.Method
	seen := make(map[httpx.Method]bool)

	for _, route := range t.routes {
		if route.Subdomain != subdomain {
			continue
		}
		if route.match(path) == ruleNone {
			continue
		}
		if !seen[route.Method] {
			seen[route.Method] = true
			methods = append(methods, route.Method)
		}
	}
	return methods
}
