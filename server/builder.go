package server

import (
	"errors"
	"net/http"

	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/render"
	"github.com/skiffhttp/skiff/router"
)

// ContextFunc builds a template context from a request.
type ContextFunc func(*httpx.Request) render.Context

// RouteBuilder assembles a route fluently before registration.
type RouteBuilder struct {
	server      *Server
	path        string
	method      httpx.Method
	subdomain   string
	regex       string
	middlewares []router.Middleware
	handler     router.Handler
	template    string
	contextFn   ContextFunc
}

// Route starts building a route for the given path and method.
func (s *Server) Route(path string, method httpx.Method) *RouteBuilder {
	return &RouteBuilder{
		server: s,
		path:   path,
		method: method,
	}
}

// WithSubdomain constrains the route to a subdomain.
func (b *RouteBuilder) WithSubdomain(subdomain string) *RouteBuilder {
	b.subdomain = subdomain
	return b
}

// WithRegex sets an explicit full-path pattern for the route,
// overriding the pattern derived from ':name' segments.
func (b *RouteBuilder) WithRegex(pattern string) *RouteBuilder {
	b.regex = pattern
	return b
}

// WithMiddleware appends a route-scoped middleware.
func (b *RouteBuilder) WithMiddleware(mw router.Middleware) *RouteBuilder {
	b.middlewares = append(b.middlewares, mw)
	return b
}

// WithHandler sets the route handler.
func (b *RouteBuilder) WithHandler(h router.Handler) *RouteBuilder {
	b.handler = h
	return b
}

// WithTemplate names the template rendered when no handler is set.
func (b *RouteBuilder) WithTemplate(name string) *RouteBuilder {
	b.template = name
	return b
}

// WithContext sets the function producing the template context.
func (b *RouteBuilder) WithContext(fn ContextFunc) *RouteBuilder {
	b.contextFn = fn
	return b
}

// Register compiles the route and adds it to the table. Registration
// order decides precedence between overlapping routes.
func (b *RouteBuilder) Register() error {
	return b.server.table.Add(&router.Route{
		Subdomain:   b.subdomain,
		Path:        b.path,
		Method:      b.method,
		Regex:       b.regex,
		Handler:     b.buildHandler(),
		Middlewares: b.middlewares,
	})
}

// buildHandler returns the configured handler, or synthesizes one
// from the template settings. Renderer "not found" maps to 404, any
// other render error to 500.
func (b *RouteBuilder) buildHandler() router.Handler {
	if b.handler != nil {
		return b.handler
	}

	template := b.template
	contextFn := b.contextFn
	renderer := b.server.renderer

	return func(req *httpx.Request) *httpx.Response {
		if template == "" {
			return htmlResponse(http.StatusInternalServerError, "No handler or template configured.")
		}
		if renderer == nil {
			return htmlResponse(http.StatusInternalServerError, "No template renderer configured.")
		}

		ctx := render.Context{}
		if contextFn != nil {
			ctx = contextFn(req)
		}

		output, err := renderer.Render(template, ctx)
		if errors.Is(err, render.ErrTemplateNotFound) {
			return htmlResponse(http.StatusNotFound, "Template '"+template+"' not found!")
		}
		if err != nil {
			return htmlResponse(http.StatusInternalServerError, "Internal Server Error")
		}

		return htmlResponse(http.StatusOK, output)
	}
}

// htmlResponse builds a text/html response.
func htmlResponse(status int, body string) *httpx.Response {
	return httpx.NewResponse(status, body).WithHeader("Content-Type", "text/html")
}
