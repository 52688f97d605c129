package server

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/skiffhttp/skiff/observability"
)

// ConnectionTracker tracks open connections for graceful shutdown and
// enforces the connection ceiling.
type ConnectionTracker struct {
	connections sync.Map
	maxConns    int
	connCount   int64
	logger      observability.Logger
}

// TrackedConnection is an open connection with its metadata.
type TrackedConnection struct {
	ID         string
	RemoteAddr string
	StartTime  time.Time
	conn       net.Conn
}

// NewConnectionTracker creates a new connection tracker.
func NewConnectionTracker(maxConns int, logger observability.Logger) *ConnectionTracker {
	if maxConns <= 0 {
		maxConns = 10000
	}

	return &ConnectionTracker{
		maxConns: maxConns,
		logger:   logger,
	}
}

// Add registers a new connection. It returns an error when the
// connection ceiling is reached.
func (t *ConnectionTracker) Add(conn net.Conn) (*TrackedConnection, error) {
	count := atomic.LoadInt64(&t.connCount)
	if int(count) >= t.maxConns {
		return nil, fmt.Errorf("maximum connections reached: %d", t.maxConns)
	}

	tracked := &TrackedConnection{
		ID:         uuid.New().String(),
		RemoteAddr: conn.RemoteAddr().String(),
		StartTime:  time.Now(),
		conn:       conn,
	}

	t.connections.Store(tracked.ID, tracked)
	atomic.AddInt64(&t.connCount, 1)

	t.logger.Debug("connection added",
		observability.String("id", tracked.ID),
		observability.String("remoteAddr", tracked.RemoteAddr),
	)

	return tracked, nil
}

// Remove unregisters a connection.
func (t *ConnectionTracker) Remove(id string) {
	if _, loaded := t.connections.LoadAndDelete(id); loaded {
		atomic.AddInt64(&t.connCount, -1)
		t.logger.Debug("connection removed", observability.String("id", id))
	}
}

// Count returns the current number of open connections.
func (t *ConnectionTracker) Count() int {
	return int(atomic.LoadInt64(&t.connCount))
}

// CloseAll closes every tracked connection.
func (t *ConnectionTracker) CloseAll() {
	t.connections.Range(func(key, value any) bool {
		tracked := value.(*TrackedConnection)
		if tracked.conn != nil {
			if err := tracked.conn.Close(); err != nil {
				t.logger.Debug("error closing connection",
					observability.String("id", tracked.ID),
					observability.Error(err),
				)
			}
		}
		return true
	})
}
