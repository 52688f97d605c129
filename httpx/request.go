// Package httpx provides the HTTP wire primitives for the server: the
// request parser, the response builder, and the serialization format.
package httpx

import (
	"errors"
	"strings"
)

// ErrInvalidRequest is returned when the raw bytes do not form a
// parseable HTTP request.
var ErrInvalidRequest = errors.New("invalid HTTP request")

// Request represents a parsed HTTP request.
//
// Params starts out holding the query parameters; path parameters are
// merged in by the dispatcher after a successful route match. Header
// names are stored lower-cased; use Header for lookups.
type Request struct {
	Method    Method
	Path      string
	Subdomain string
	Body      string
	Params    map[string]string
	headers   map[string]string
}

// Header returns the value of a header, case-insensitively.
func (r *Request) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

// SetHeader sets a header value. Used by middleware that annotates
// requests before they reach the handler.
func (r *Request) SetHeader(name, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[strings.ToLower(name)] = value
}

// MergeParams merges extracted path parameters into the request
// params. An existing query parameter of the same name is never
// overwritten.
func (r *Request) MergeParams(params map[string]string) {
	for k, v := range params {
		if _, exists := r.Params[k]; !exists {
			r.Params[k] = v
		}
	}
}

// ParseRequest parses a raw HTTP request into a Request. The raw data
// is expected to contain the full head terminated by a blank line; the
// body is whatever follows it.
func ParseRequest(raw string) (*Request, error) {
	head, body, _ := strings.Cut(raw, "\r\n\r\n")

	lines := strings.Split(head, "\r\n")
	if len(lines) == 0 {
		return nil, ErrInvalidRequest
	}

	parts := strings.Fields(lines[0])
	if len(parts) < 2 {
		return nil, ErrInvalidRequest
	}

	path, query, _ := strings.Cut(parts[1], "?")

	req := &Request{
		Method:  ParseMethod(parts[0]),
		Path:    path,
		Body:    body,
		Params:  parseQuery(query),
		headers: parseHeaders(lines[1:]),
	}

	return req, nil
}

// parseQuery parses a raw query string into a parameter map. Malformed
// pairs without an equals sign are dropped.
func parseQuery(query string) map[string]string {
	params := make(map[string]string)
	if query == "" {
		return params
	}
	for _, pair := range strings.Split(query, "&") {
		if key, value, ok := strings.Cut(pair, "="); ok && key != "" {
			params[key] = value
		}
	}
	return params
}

// parseHeaders parses header lines into a lower-cased name map.
func parseHeaders(lines []string) map[string]string {
	headers := make(map[string]string)
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return headers
}
