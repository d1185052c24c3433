// Package metrics exposes Prometheus instruments for annotation saves and HTTP
// traffic on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "takeoff"

// Metrics holds the registered collectors.
type Metrics struct {
	registry     *prometheus.Registry
	saves        *prometheus.CounterVec
	saveDuration *prometheus.HistogramVec
	notices      *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotation_saves_total",
			Help:      "Annotation saves by mode, annotation type and result.",
		}, []string{"mode", "type", "result"}),
		saveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "annotation_save_duration_seconds",
			Help:      "Duration of annotation saves.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotation_notices_total",
			Help:      "User notices emitted after committed saves.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
	}

	m.registry.MustRegister(
		m.saves,
		m.saveDuration,
		m.notices,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveSave records one save attempt.
func (m *Metrics) ObserveSave(mode, annotationType, result string, d time.Duration) {
	m.saves.WithLabelValues(mode, annotationType, result).Inc()
	m.saveDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// IncNotice counts one delivered notice.
func (m *Metrics) IncNotice(kind string) {
	m.notices.WithLabelValues(kind).Inc()
}

// ObserveHTTP counts one served request.
func (m *Metrics) ObserveHTTP(method string, status int) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
