// Package middleware provides optional built-in middleware for the
// server. All middleware follows the short-circuit contract: a nil
// return passes the request downstream, a non-nil response ends
// processing immediately.
package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/observability"
	"github.com/skiffhttp/skiff/router"
)

// HeaderXRequestID is the request ID header name.
const HeaderXRequestID = "X-Request-ID"

// Logging returns a middleware that logs every request passing
// through it. It never short-circuits.
func Logging(logger observability.Logger) router.Middleware {
	return func(req *httpx.Request) *httpx.Response {
		logger.Info("request",
			observability.String("method", req.Method.String()),
			observability.String("path", req.Path),
			observability.String("subdomain", req.Subdomain),
		)
		return nil
	}
}

// RequestID returns a middleware that stamps each request with a
// generated X-Request-ID header when none is present.
func RequestID() router.Middleware {
	return func(req *httpx.Request) *httpx.Response {
		if req.Header(HeaderXRequestID) == "" {
			req.SetHeader(HeaderXRequestID, uuid.New().String())
		}
		return nil
	}
}

// RateLimit returns a middleware enforcing a global token-bucket
// rate limit. Rejected requests receive 429 with a Retry-After hint.
func RateLimit(rps float64, burst int) router.Middleware {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(req *httpx.Request) *httpx.Response {
		if limiter.Allow() {
			return nil
		}
		return httpx.NewResponse(http.StatusTooManyRequests, "Too Many Requests").
			WithHeader("Retry-After", "1")
	}
}
