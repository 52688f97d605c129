// Package server owns the connection lifecycle of the embedded HTTP
// server: accept, read, parse, static asset gate, middleware, route
// matching, handler invocation, and response writing.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/skiffhttp/skiff/config"
	"github.com/skiffhttp/skiff/observability"
	"github.com/skiffhttp/skiff/render"
	"github.com/skiffhttp/skiff/router"
)

// Server is an embedded HTTP server. Routes are registered through
// Route and Group before or after Start; the route table is guarded
// by a reader-writer lock, so late registration never blocks
// in-flight dispatches longer than the registration itself.
type Server struct {
	cfg      *config.Config
	table    *router.Table
	logger   observability.Logger
	renderer render.Renderer
	tracker  *ConnectionTracker

	mu       sync.Mutex
	listener net.Listener
	running  bool
	wg       sync.WaitGroup
}

// Option is a functional option for configuring the server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRenderer sets the template renderer used by routes registered
// with WithTemplate.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

// New creates a server with the given configuration. A nil config
// uses defaults.
func New(cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &Server{
		cfg:    cfg,
		table:  router.New(),
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.tracker = NewConnectionTracker(cfg.MaxConnections, s.logger)

	return s
}

// Table returns the route table.
func (s *Server) Table() *router.Table {
	return s.table
}

// Use appends a global middleware.
func (s *Server) Use(mw router.Middleware) {
	s.table.Use(mw)
}

// Address returns the bound listen address, or the configured address
// when the server has not started yet.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Address
}

// Start binds the listen address and serves connections until the
// context is cancelled or Stop is called. Each accepted connection is
// handled on its own goroutine; no connection blocks another.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}

	lc := &net.ListenConfig{}
	listener, err := lc.Listen(ctx, "tcp", s.cfg.Address)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.logger.Info("server started",
		observability.String("address", listener.Addr().String()),
		observability.String("staticPrefix", s.cfg.StaticPrefix),
		observability.String("staticDir", s.cfg.StaticDir),
	)

	go func() {
		<-ctx.Done()
		s.closeListener()
	}()

	return s.acceptLoop(listener)
}

// acceptLoop accepts connections until the listener is closed.
func (s *Server) acceptLoop(listener net.Listener) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("server stopped accepting connections")
				s.wg.Wait()
				return nil
			}
			s.logger.Warn("failed to accept connection", observability.Error(err))
			continue
		}

		tracked, err := s.tracker.Add(conn)
		if err != nil {
			s.logger.Warn("connection rejected", observability.Error(err))
			_ = conn.Close()
			continue
		}

		getServerMetrics().activeConnections.Inc()
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer getServerMetrics().activeConnections.Dec()
			defer s.tracker.Remove(tracked.ID)
			s.handleConnection(conn)
		}()
	}
}

// Stop closes the listener and all open connections.
func (s *Server) Stop() {
	s.closeListener()
	s.tracker.CloseAll()
	s.wg.Wait()
}

// closeListener closes the listener once.
func (s *Server) closeListener() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	if s.listener != nil {
		_ = s.listener.Close()
	}
}
