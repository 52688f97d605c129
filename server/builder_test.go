package server

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/observability"
	"github.com/skiffhttp/skiff/render"
)

func templateServer(t *testing.T, templates map[string]string) *Server {
	t.Helper()

	dir := t.TempDir()
	for name, content := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	renderer, err := render.NewTemplateRenderer([]string{dir})
	require.NoError(t, err)

	return New(nil, WithLogger(observability.NopLogger()), WithRenderer(renderer))
}

func parseReq(t *testing.T, raw string) *httpx.Request {
	t.Helper()
	req, err := httpx.ParseRequest(raw)
	require.NoError(t, err)
	return req
}

func TestRouteBuilder_TemplateHandler(t *testing.T) {
	t.Parallel()

	srv := templateServer(t, map[string]string{
		"greet.html": "<h1>Hi {{.who}}</h1>",
	})

	b := srv.Route("/greet", httpx.MethodGet).
		WithTemplate("greet.html").
		WithContext(func(req *httpx.Request) render.Context {
			return render.Context{"who": req.Params["name"]}
		})
	require.NoError(t, b.Register())

	req := parseReq(t, "GET /greet?name=Ada HTTP/1.1\r\nHost: x\r\n\r\n")
	resp := b.buildHandler()(req)

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Headers["Content-Type"])
	assert.Equal(t, "<h1>Hi Ada</h1>", resp.Body)
}

func TestRouteBuilder_MissingTemplateIs404(t *testing.T) {
	t.Parallel()

	srv := templateServer(t, nil)

	b := srv.Route("/page", httpx.MethodGet).WithTemplate("absent.html")
	resp := b.buildHandler()(parseReq(t, "GET /page HTTP/1.1\r\n\r\n"))

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Body, "absent.html")
}

func TestRouteBuilder_NoTemplateNoHandlerIs500(t *testing.T) {
	t.Parallel()

	srv := templateServer(t, nil)

	b := srv.Route("/page", httpx.MethodGet)
	resp := b.buildHandler()(parseReq(t, "GET /page HTTP/1.1\r\n\r\n"))

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRouteBuilder_NoRendererIs500(t *testing.T) {
	t.Parallel()

	srv := New(nil, WithLogger(observability.NopLogger()))

	b := srv.Route("/page", httpx.MethodGet).WithTemplate("page.html")
	resp := b.buildHandler()(parseReq(t, "GET /page HTTP/1.1\r\n\r\n"))

	require.NotNil(t, resp)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRouteBuilder_HandlerBeatsTemplate(t *testing.T) {
	t.Parallel()

	srv := templateServer(t, map[string]string{"page.html": "from template"})

	b := srv.Route("/page", httpx.MethodGet).
		WithTemplate("page.html").
		WithHandler(func(*httpx.Request) *httpx.Response {
			return httpx.NewResponse(http.StatusOK, "from handler")
		})
	resp := b.buildHandler()(parseReq(t, "GET /page HTTP/1.1\r\n\r\n"))

	require.NotNil(t, resp)
	assert.Equal(t, "from handler", resp.Body)
}
