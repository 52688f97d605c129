// Package router provides the route table and path-matching engine.
package router

import (
	"regexp"

	"github.com/skiffhttp/skiff/httpx"
)

// Handler processes a matched request and produces a response.
type Handler func(*httpx.Request) *httpx.Response

// Middleware inspects a request before the handler runs. A non-nil
// response short-circuits the pipeline: everything downstream,
// including the handler, is skipped.
type Middleware func(*httpx.Request) *httpx.Response

// Route is a registered (method, path pattern, subdomain, handler)
// tuple with attached middleware. Routes are created once at
// registration time and never mutated afterwards.
type Route struct {
	// Subdomain constrains the route to requests whose derived
	// subdomain is equal to it. The empty string matches only
	// requests with no resolved subdomain.
	Subdomain string

	// Path is the registered path pattern. Segments starting with
	// ':' are treated as named parameters.
	Path string

	// Method is the HTTP method the route responds to.
	Method httpx.Method

	// Regex is an optional explicit full-path pattern. When set it
	// takes precedence over the pattern auto-derived from ':name'
	// segments and is authoritative for the route: a request that
	// only matches the path segment-wise is still rejected when the
	// pattern does not accept it.
	Regex string

	// Handler is invoked on a successful match.
	Handler Handler

	// Middlewares run in order before the handler, after the global
	// middleware chain.
	Middlewares []Middleware

	matcher *regexp.Regexp
}

// Pattern returns the compiled pattern source, or the empty string
// for purely static routes.
func (r *Route) Pattern() string {
	if r.matcher == nil {
		return ""
	}
	return r.matcher.String()
}
