package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds Prometheus metrics for the dispatch path.
type serverMetrics struct {
	requestsTotal     *prometheus.CounterVec
	activeConnections prometheus.Gauge
	staticDenied      prometheus.Counter
	bytesWritten      prometheus.Counter
}

var (
	serverMetricsInstance *serverMetrics
	serverMetricsOnce     sync.Once
)

// getServerMetrics returns the singleton server metrics instance.
func getServerMetrics() *serverMetrics {
	serverMetricsOnce.Do(func() {
		serverMetricsInstance = &serverMetrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "skiff",
					Subsystem: "server",
					Name:      "requests_total",
					Help:      "Total number of dispatched requests",
				},
				[]string{"method", "status"},
			),
			activeConnections: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "skiff",
					Subsystem: "server",
					Name:      "active_connections",
					Help:      "Current number of open connections",
				},
			),
			staticDenied: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "skiff",
					Subsystem: "server",
					Name:      "static_denied_total",
					Help:      "Total number of static asset guard rejections",
				},
			),
			bytesWritten: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "skiff",
					Subsystem: "server",
					Name:      "response_bytes_total",
					Help:      "Total number of response bytes written",
				},
			),
		}
	})
	return serverMetricsInstance
}
