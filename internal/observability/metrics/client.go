package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics instruments the document client: poll tick outcomes, cache
// churn and remote request latencies. The watch agent serves them on
// /metrics.
type ClientMetrics struct {
	service  string
	registry *prometheus.Registry

	pollTicksTotal *prometheus.CounterVec
	cacheUpdates   *prometheus.CounterVec
	remoteTotal    *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	uploadsTotal   *prometheus.CounterVec
}

func NewClientMetrics(service string) *ClientMetrics {
	registry := prometheus.NewRegistry()

	pollTicksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doclytics",
			Subsystem: "poller",
			Name:      "ticks_total",
			Help:      "Total status poll ticks by outcome.",
		},
		[]string{"service", "outcome"},
	)
	cacheUpdates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doclytics",
			Subsystem: "cache",
			Name:      "updates_total",
			Help:      "Total mutations notified by each local cache.",
		},
		[]string{"service", "cache"},
	)
	remoteTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doclytics",
			Subsystem: "remote",
			Name:      "requests_total",
			Help:      "Total remote service requests by operation and HTTP status (0 = no response).",
		},
		[]string{"service", "operation", "status"},
	)
	remoteDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "doclytics",
			Subsystem: "remote",
			Name:      "request_duration_seconds",
			Help:      "Remote service request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "doclytics",
			Subsystem: "agent",
			Name:      "uploads_total",
			Help:      "Total watch-directory uploads by result.",
		},
		[]string{"service", "result"},
	)

	registry.MustRegister(pollTicksTotal, cacheUpdates, remoteTotal, remoteDuration, uploadsTotal)

	return &ClientMetrics{
		service:        service,
		registry:       registry,
		pollTicksTotal: pollTicksTotal,
		cacheUpdates:   cacheUpdates,
		remoteTotal:    remoteTotal,
		remoteDuration: remoteDuration,
		uploadsTotal:   uploadsTotal,
	}
}

func (m *ClientMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ClientMetrics) ObservePollTick(outcome string) {
	m.pollTicksTotal.WithLabelValues(m.service, outcome).Inc()
}

func (m *ClientMetrics) ObserveCacheUpdate(cache string) {
	m.cacheUpdates.WithLabelValues(m.service, cache).Inc()
}

func (m *ClientMetrics) ObserveRemoteRequest(operation string, statusCode int, duration time.Duration) {
	m.remoteTotal.WithLabelValues(m.service, operation, strconv.Itoa(statusCode)).Inc()
	m.remoteDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func (m *ClientMetrics) ObserveUpload(result string) {
	m.uploadsTotal.WithLabelValues(m.service, result).Inc()
}
