package server

import (
	"bytes"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/skiffhttp/skiff/httpx"
	"github.com/skiffhttp/skiff/observability"
	"github.com/skiffhttp/skiff/router"
	"github.com/skiffhttp/skiff/static"
)

// HeaderMockSubdomain is the test-only override consulted when the
// Host header is absent or carries no dot.
const HeaderMockSubdomain = "X-Mock-Subdomain"

// readChunkSize is the per-read buffer size for request accumulation.
const readChunkSize = 1024

// handleConnection runs the full per-connection lifecycle. Every
// failure is isolated to this connection: transport errors are logged
// and the connection abandoned, never retried.
func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	raw, err := s.readRequest(conn)
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.logger.Warn("failed to read request", observability.Error(err))
		}
		return
	}

	req, err := httpx.ParseRequest(raw)
	if err != nil {
		s.sendResponse(conn, "", httpx.NewResponse(http.StatusBadRequest, "Bad Request"))
		return
	}

	req.Subdomain = resolveSubdomain(req)

	if strings.HasPrefix(req.Path, s.cfg.StaticPrefix) {
		s.sendResponse(conn, req.Method.String(), s.serveStatic(req))
		return
	}

	s.sendResponse(conn, req.Method.String(), s.dispatch(req))
}

// readRequest accumulates bytes until the header/body separator
// appears. The body is whatever was captured in the initial read; no
// chunked or streaming support.
func (s *Server) readRequest(conn net.Conn) (string, error) {
	var data []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			data = append(data, chunk[:n]...)
			if bytes.Contains(data, []byte("\r\n\r\n")) {
				return string(data), nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(data) > 0 {
				return string(data), nil
			}
			return "", err
		}
	}
}

// resolveSubdomain derives the subdomain from the Host header: the
// substring before the first dot. An absent or undotted Host falls
// back to the test-only override header.
func resolveSubdomain(req *httpx.Request) string {
	host := req.Header("Host")
	if host != "" && strings.Contains(host, ".") {
		sub, _, _ := strings.Cut(host, ".")
		return sub
	}
	return req.Header(HeaderMockSubdomain)
}

// dispatch runs the route-resolution branch: global middleware,
// trailing slash redirect, matching, route middleware, handler.
func (s *Server) dispatch(req *httpx.Request) *httpx.Response {
	for _, mw := range s.table.Middlewares() {
		if resp := mw(req); resp != nil {
			return resp
		}
	}

	if strings.HasSuffix(req.Path, "/") && req.Path != "/" {
		trimmed := strings.TrimRight(req.Path, "/")
		if _, err := s.table.Find(trimmed, req.Method, req.Subdomain); err == nil {
			return httpx.NewResponse(http.StatusMovedPermanently, "").
				WithHeader("Location", trimmed)
		}
	}

	match, err := s.table.Find(req.Path, req.Method, req.Subdomain)
	if err != nil {
		var mismatch *router.MethodNotAllowedError
		if errors.As(err, &mismatch) {
			return httpx.NewResponse(http.StatusMethodNotAllowed, "Method Not Allowed").
				WithHeader("Allow", joinMethods(mismatch.Allowed))
		}
		return httpx.NewResponse(http.StatusNotFound, "Not Found")
	}

	for _, mw := range match.Route.Middlewares {
		if resp := mw(req); resp != nil {
			return resp
		}
	}

	req.MergeParams(match.Params)

	return match.Route.Handler(req)
}

// serveStatic runs the static asset branch: guard resolution followed
// by file-level checks.
func (s *Server) serveStatic(req *httpx.Request) *httpx.Response {
	requested := strings.TrimPrefix(req.Path, s.cfg.StaticPrefix)

	safePath, err := static.Resolve(requested, s.cfg.StaticDir)
	if err != nil {
		getServerMetrics().staticDenied.Inc()
		s.logger.Warn("static path denied",
			observability.String("path", req.Path),
			observability.Error(err),
		)
		return httpx.NewResponse(http.StatusForbidden, "Forbidden")
	}

	info, err := os.Stat(safePath)
	if errors.Is(err, os.ErrNotExist) {
		return httpx.NewResponse(http.StatusNotFound, "File Not Found")
	}
	if err != nil {
		return httpx.NewResponse(http.StatusInternalServerError, "Internal Server Error")
	}

	if info.IsDir() || static.IsForbidden(safePath) {
		getServerMetrics().staticDenied.Inc()
		return httpx.NewResponse(http.StatusForbidden, "Forbidden")
	}

	if info.Size() > s.cfg.MaxStaticFileSize {
		return httpx.NewResponse(http.StatusRequestEntityTooLarge, "Payload Too Large")
	}

	content, err := os.ReadFile(safePath)
	if err != nil {
		return httpx.NewResponse(http.StatusInternalServerError, "Internal Server Error")
	}

	return httpx.NewResponse(http.StatusOK, string(content)).
		WithHeader("Content-Type", static.DetectMIMEType(safePath)).
		WithHeader("X-Content-Type-Options", "nosniff").
		WithHeader("X-Frame-Options", "DENY")
}

// sendResponse serializes and writes a response. A write failure
// aborts only this connection.
func (s *Server) sendResponse(conn net.Conn, method string, resp *httpx.Response) {
	wire := resp.Format()

	n, err := conn.Write([]byte(wire))
	if err != nil {
		s.logger.Warn("failed to write response",
			observability.String("remoteAddr", conn.RemoteAddr().String()),
			observability.Error(err),
		)
		return
	}

	metrics := getServerMetrics()
	metrics.bytesWritten.Add(float64(n))
	if method != "" {
		metrics.requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	}
}

// joinMethods renders an Allow header value.
func joinMethods(methods []httpx.Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = m.String()
	}
	return strings.Join(parts, ", ")
}
