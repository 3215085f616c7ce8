package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finai",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finai",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "finai",
			Subsystem: "ws",
			Name:      "connections",
			Help:      "Current number of open realtime connections.",
		},
	)

	// WSFrames result: delivered / dropped
	WSFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finai",
			Subsystem: "ws",
			Name:      "frames_total",
			Help:      "Realtime frames fanned out to subscribers.",
		},
		[]string{"result"},
	)

	OutboxEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finai",
			Subsystem: "outbox",
			Name:      "events_total",
			Help:      "Application outbox events relayed.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		HTTPRequests,
		HTTPDuration,
		WSConnections,
		WSFrames,
		OutboxEvents,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
