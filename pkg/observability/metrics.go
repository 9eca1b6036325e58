package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the security pipeline
type Metrics struct {
	// Pipeline metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitRejections prometheus.Counter

	// Audit metrics
	AuditWritesTotal   *prometheus.CounterVec
	AuditFallbackTotal prometheus.Counter
	AuditDroppedTotal  prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentlab_security_requests_total",
				Help: "Total requests processed by the security pipeline",
			},
			[]string{"action", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contentlab_security_request_duration_seconds",
				Help:    "Security pipeline request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		RateLimitRejections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contentlab_ratelimit_rejections_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
		AuditWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contentlab_audit_writes_total",
				Help: "Audit events written, by sink outcome",
			},
			[]string{"outcome"},
		),
		AuditFallbackTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contentlab_audit_fallback_total",
				Help: "Audit events re-routed to the fallback log sink",
			},
		),
		AuditDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contentlab_audit_dropped_total",
				Help: "Audit events that overflowed the queue and were written synchronously",
			},
		),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RateLimitRejections,
		m.AuditWritesTotal,
		m.AuditFallbackTotal,
		m.AuditDroppedTotal,
	)

	return m
}

// Handler returns an HTTP handler for the /metrics endpoint
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
