package httpx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse_Format(t *testing.T) {
	t.Parallel()

	resp := NewResponse(200, "hello").
		WithHeader("Content-Type", "text/plain").
		WithHeader("X-Frame-Options", "DENY")

	wire := resp.Format()

	assert.True(t, strings.HasPrefix(wire, "HTTP/1.1 200 OK\r\n"))
	assert.Contains(t, wire, "Content-Type: text/plain\r\n")
	assert.Contains(t, wire, "X-Frame-Options: DENY\r\n")
	assert.Contains(t, wire, "Content-Length: 5\r\n")
	assert.True(t, strings.HasSuffix(wire, "\r\n\r\nhello"))
}

func TestResponse_Format_NoBody(t *testing.T) {
	t.Parallel()

	wire := NewResponse(301, "").WithHeader("Location", "/about").Format()

	assert.Equal(t, "HTTP/1.1 301 Moved Permanently\r\nLocation: /about\r\n\r\n", wire)
}

func TestResponse_Format_UnknownStatus(t *testing.T) {
	t.Parallel()

	wire := NewResponse(799, "").Format()
	assert.True(t, strings.HasPrefix(wire, "HTTP/1.1 799 Unknown\r\n"))
}

func TestResponse_Format_ExplicitContentLengthKept(t *testing.T) {
	t.Parallel()

	wire := NewResponse(200, "abc").WithHeader("Content-Length", "3").Format()
	assert.Equal(t, 1, strings.Count(wire, "Content-Length"))
}

func TestResponse_WithHeaderChaining(t *testing.T) {
	t.Parallel()

	resp := NewResponse(404, "Not Found").
		WithHeader("A", "1").
		WithHeader("B", "2")

	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "1", resp.Headers["A"])
	assert.Equal(t, "2", resp.Headers["B"])
}
