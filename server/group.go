package server

import (
	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/router"
)

// Group registers routes under a shared path prefix with shared
// middleware. Group middleware is captured at the moment a route is
// declared: middleware added to the group afterwards does not apply
// to routes already declared.
type Group struct {
	prefix      string
	server      *Server
	middlewares []router.Middleware
}

// Group runs fn against a new group with the given path prefix.
func (s *Server) Group(prefix string, fn func(*Group)) {
	fn(&Group{prefix: prefix, server: s})
}

// Use appends a middleware to the group. Only routes declared after
// this call receive it.
func (g *Group) Use(mw router.Middleware) *Group {
	g.middlewares = append(g.middlewares, mw)
	return g
}

// Route starts building a route under the group prefix, carrying the
// group middleware declared so far.
func (g *Group) Route(path string, method httpx.Method) *RouteBuilder {
	builder := g.server.Route(g.prefix+path, method)
	builder.middlewares = append(builder.middlewares, g.middlewares...)
	return builder
}
