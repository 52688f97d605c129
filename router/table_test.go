package router

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skiffhttp/skiff/httpx"
)

func handlerWithBody(body string) Handler {
	return func(req *httpx.Request) *httpx.Response {
		return httpx.NewResponse(http.StatusOK, body)
	}
}

func mustAdd(t *testing.T, table *Table, route *Route) {
	t.Helper()
	if route.Handler == nil {
		route.Handler = handlerWithBody("ok")
	}
	require.NoError(t, table.Add(route))
}

func TestTable_Find_ExactMatch(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/about", Method: httpx.MethodGet})
	mustAdd(t, table, &Route{Path: "/contact", Method: httpx.MethodGet})

	match, err := table.Find("/about", httpx.MethodGet, "")
	require.NoError(t, err)
	assert.Equal(t, "/about", match.Route.Path)
	assert.Empty(t, match.Params)
}

func TestTable_Find_RegistrationOrderIrrelevantForDisjointRoutes(t *testing.T) {
	t.Parallel()

	// The same lookups must succeed regardless of the order in which
	// non-overlapping routes were registered.
	paths := []string{"/a", "/b", "/c"}

	forward := New()
	for _, p := range paths {
		mustAdd(t, forward, &Route{Path: p, Method: httpx.MethodGet})
	}

	backward := New()
	for i := len(paths) - 1; i >= 0; i-- {
		mustAdd(t, backward, &Route{Path: paths[i], Method: httpx.MethodGet})
	}

	for _, p := range paths {
		m1, err := forward.Find(p, httpx.MethodGet, "")
		require.NoError(t, err)
		m2, err := backward.Find(p, httpx.MethodGet, "")
		require.NoError(t, err)
		assert.Equal(t, p, m1.Route.Path)
		assert.Equal(t, p, m2.Route.Path)
	}
}

func TestTable_Find_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{
		Path: "/dup", Method: httpx.MethodGet, Handler: handlerWithBody("first"),
	})
	mustAdd(t, table, &Route{
		Path: "/dup", Method: httpx.MethodGet, Handler: handlerWithBody("second"),
	})

	match, err := table.Find("/dup", httpx.MethodGet, "")
	require.NoError(t, err)

	resp := match.Route.Handler(&httpx.Request{})
	assert.Equal(t, "first", resp.Body)
}

func TestTable_Find_SubdomainStrictEquality(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/info", Method: httpx.MethodGet, Subdomain: "api"})
	mustAdd(t, table, &Route{Path: "/plain", Method: httpx.MethodGet})

	// Subdomain route requires the subdomain.
	_, err := table.Find("/info", httpx.MethodGet, "")
	assert.ErrorIs(t, err, ErrRouteNotFound)

	match, err := table.Find("/info", httpx.MethodGet, "api")
	require.NoError(t, err)
	assert.Equal(t, "api", match.Route.Subdomain)

	// A route without a subdomain constraint matches only requests
	// without a resolved subdomain.
	_, err = table.Find("/plain", httpx.MethodGet, "api")
	assert.ErrorIs(t, err, ErrRouteNotFound)

	_, err = table.Find("/plain", httpx.MethodGet, "")
	assert.NoError(t, err)
}

func TestTable_Find_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/thing", Method: httpx.MethodGet})
	mustAdd(t, table, &Route{Path: "/thing", Method: httpx.MethodPost})

	_, err := table.Find("/thing", httpx.MethodDelete, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMethodNotAllowed)

	var mismatch *MethodNotAllowedError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []httpx.Method{httpx.MethodGet, httpx.MethodPost}, mismatch.Allowed)
}

func TestTable_Find_NotFound(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/known", Method: httpx.MethodGet})

	_, err := table.Find("/unknown", httpx.MethodGet, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRouteNotFound)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestTable_Find_ParameterExtraction(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/users/:id/posts/:post", Method: httpx.MethodGet})

	match, err := table.Find("/users/7/posts/42", httpx.MethodGet, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "7", "post": "42"}, match.Params)
}

func TestTable_Find_ExplicitPatternAuthoritative(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{
		Path:   "/v1/orders/:order_id",
		Method: httpx.MethodGet,
		Regex:  `^/v1/orders/(?P<order_id>[a-zA-Z0-9_-]+)$`,
	})

	match, err := table.Find("/v1/orders/order-123_456", httpx.MethodGet, "")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"order_id": "order-123_456"}, match.Params)

	// A path that only matches segment-wise is rejected when the
	// route's pattern does not accept it.
	_, err = table.Find("/v1/orders/order id", httpx.MethodGet, "")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestTable_AllowedMethods(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/multi", Method: httpx.MethodGet})
	mustAdd(t, table, &Route{Path: "/multi", Method: httpx.MethodPost})
	mustAdd(t, table, &Route{Path: "/multi", Method: httpx.MethodGet})
	mustAdd(t, table, &Route{Path: "/multi", Method: httpx.MethodPut, Subdomain: "api"})
	mustAdd(t, table, &Route{Path: "/other", Method: httpx.MethodDelete})

	methods := table.AllowedMethods("/multi", "")
	assert.Equal(t, []httpx.Method{httpx.MethodGet, httpx.MethodPost}, methods)

	methods = table.AllowedMethods("/multi", "api")
	assert.Equal(t, []httpx.Method{httpx.MethodPut}, methods)

	assert.Empty(t, table.AllowedMethods("/missing", ""))
}

func TestTable_AllowedMethods_DynamicPath(t *testing.T) {
	t.Parallel()

	table := New()
	mustAdd(t, table, &Route{Path: "/users/:id", Method: httpx.MethodGet})
	mustAdd(t, table, &Route{Path: "/users/:id", Method: httpx.MethodDelete})

	methods := table.AllowedMethods("/users/42", "")
	assert.Equal(t, []httpx.Method{httpx.MethodGet, httpx.MethodDelete}, methods)
}

func TestTable_Use_Middlewares(t *testing.T) {
	t.Parallel()

	table := New()
	assert.Empty(t, table.Middlewares())

	table.Use(func(req *httpx.Request) *httpx.Response { return nil })
	table.Use(func(req *httpx.Request) *httpx.Response { return nil })

	assert.Len(t, table.Middlewares(), 2)
}

func TestTable_Add_InvalidRegex(t *testing.T) {
	t.Parallel()

	table := New()
	err := table.Add(&Route{Path: "/x", Method: httpx.MethodGet, Regex: "[invalid"})
	assert.Error(t, err)
	assert.Equal(t, 0, table.Len())
}
