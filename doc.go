/*
Package skiff provides an embedded HTTP server with a route table,
path matching, layered middleware, and safe static file serving.

Routes are registered through a fluent builder on the server. Path
patterns support static segments, ':name' parameters, and explicit
full-path regular expressions with named capture groups; routes can
additionally be scoped to a subdomain derived from the Host header.
Matching is first-registered-wins.

Middleware runs at three scopes: global, group, and route. A
middleware is a function from request to optional response; returning
a non-nil response short-circuits everything downstream, including
the handler.

Requests under a reserved path prefix (default /static/) are served
from a configured root directory behind a guard that rejects path
traversal, absolute paths, root escapes, and symlinks.

Basic usage:

	cfg := config.Default()
	srv := server.New(cfg, server.WithLogger(logger))

	srv.Route("/hello/:name", httpx.MethodGet).
		WithHandler(func(req *httpx.Request) *httpx.Response {
			return httpx.NewResponse(200, "Hello, "+req.Params["name"])
		}).
		Register()

	srv.Start(context.Background())

See the examples directory for a runnable program.
*/
package skiff
