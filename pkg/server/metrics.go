package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus metrics for the server.
type metrics struct {
	sessionsActive prometheus.Gauge
	sessionsTotal  prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	renderDuration prometheus.Histogram
	updatesSent    prometheus.Counter
	updateBytes    prometheus.Counter
	wsErrors       *prometheus.CounterVec
}

// newMetrics registers the server metrics with the given registry.
//
// Metrics exposed:
//   - <ns>_sessions_active: Gauge of connected sessions
//   - <ns>_sessions_total: Counter of sessions ever created
//   - <ns>_events_total: Counter of delivered events by status
//   - <ns>_render_duration_seconds: Histogram of render durations
//   - <ns>_updates_sent_total: Counter of layout updates sent
//   - <ns>_update_bytes_total: Counter of serialized update bytes
//   - <ns>_websocket_errors_total: Counter of WebSocket errors by type
func newMetrics(namespace string, registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of connected WebSocket sessions",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of sessions created",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of client events delivered",
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Layout render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		updatesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_sent_total",
			Help:      "Total number of layout updates sent to clients",
		}),

		updateBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_bytes_total",
			Help:      "Total serialized bytes of layout updates",
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),
	}
}
