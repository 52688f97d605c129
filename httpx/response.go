package httpx

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Response represents an HTTP response under construction. Headers are
// attached with WithHeader; once handed to the dispatcher the response
// is treated as immutable.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// NewResponse creates a response with the given status code and body.
func NewResponse(statusCode int, body string) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    make(map[string]string),
		Body:       body,
	}
}

// WithHeader attaches a header and returns the response for chaining.
func (r *Response) WithHeader(name, value string) *Response {
	r.Headers[name] = value
	return r
}

// Format serializes the response into its wire representation:
// status line, headers, blank line, body. Content-Length is emitted
// whenever a body is present. Headers are written in sorted order so
// the output is deterministic.
func (r *Response) Format() string {
	var b strings.Builder

	reason := http.StatusText(r.StatusCode)
	if reason == "" {
		reason = "Unknown"
	}
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", r.StatusCode, reason)

	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\r\n", name, r.Headers[name])
	}

	if _, set := r.Headers["Content-Length"]; !set && r.Body != "" {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", len(r.Body))
	}

	b.WriteString("\r\n")
	b.WriteString(r.Body)

	return b.String()
}
