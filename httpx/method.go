package httpx

import "strings"

// Method represents an HTTP request method.
type Method string

// Supported HTTP methods.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

// ParseMethod converts a request-line token into a Method.
// Unknown tokens are preserved verbatim after upper-casing so that
// a 405 response can still report them.
func ParseMethod(s string) Method {
	return Method(strings.ToUpper(s))
}

// String returns the wire representation of the method.
func (m Method) String() string {
	return string(m)
}
