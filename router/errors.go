package router

import (
	"errors"
	"fmt"

	"github.com/skiffhttp/skiff/httpx"
)

// Sentinel errors for match outcomes, checked with errors.Is.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// NotFoundError reports that no registered route matches a request.
type NotFoundError struct {
	Path      string
	Method    httpx.Method
	Subdomain string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route found for %s %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if target == ErrRouteNotFound {
		return true
	}
	_, ok := target.(*NotFoundError)
	return ok
}

// MethodNotAllowedError reports that the path is registered but not
// for the requested method. Allowed carries the methods registered
// for the path, in registration order, for the Allow header.
type MethodNotAllowedError struct {
	Path    string
	Method  httpx.Method
	Allowed []httpx.Method
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s", e.Method, e.Path)
}

// Is checks if the error matches the target.
func (e *MethodNotAllowedError) Is(target error) bool {
	if target == ErrMethodNotAllowed {
		return true
	}
	_, ok := target.(*MethodNotAllowedError)
	return ok
}
