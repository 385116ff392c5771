// Package metrics holds the Prometheus collectors for the HTTP surface and
// for PDF rendering.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "po_generator"

// Metrics is a set of collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	AssetWarnings  *prometheus.CounterVec

	PONumbersAllocated prometheus.Counter
	PONumberConflicts  prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_renders_total",
			Help:      "Purchase order renders by outcome",
		}, []string{"outcome"}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pdf_render_duration_seconds",
			Help:      "Duration of purchase order renders in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
		AssetWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdf_asset_warnings_total",
			Help:      "Optional images omitted from a render",
		}, []string{"asset"}),
		PONumbersAllocated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "po_numbers_allocated_total",
			Help:      "PO numbers handed out by the allocator",
		}),
		PONumberConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "po_number_conflicts_total",
			Help:      "Purchase order creations rejected by a PO number collision",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}

// ObserveRender records one render attempt. outcome is "ok" or "error".
func (m *Metrics) ObserveRender(outcome string, elapsed time.Duration) {
	m.RendersTotal.WithLabelValues(outcome).Inc()
	m.RenderDuration.Observe(elapsed.Seconds())
}

// AssetOmitted counts an optional image that could not be loaded.
func (m *Metrics) AssetOmitted(asset string) {
	m.AssetWarnings.WithLabelValues(asset).Inc()
}
