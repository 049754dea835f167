// Package metrics provides Prometheus metrics for report exports and the HTTP API
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "costseg"

const (
	StatusSuccess = "success"
	StatusFailure = "failure"

	FormatPDF  = "pdf"
	FormatJSON = "json"

	RecoveredMissingSource = "missing_source"
	RecoveredMissingAsset  = "missing_asset"
)

// Metrics holds the collectors registered on one registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	exportsTotal    *prometheus.CounterVec
	exportDuration  *prometheus.HistogramVec
	exportPages     prometheus.Histogram
	recoveredTotal  *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Total number of report exports",
			},
			[]string{"format", "status"},
		),
		exportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Time taken to produce an export",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"format"},
		),
		exportPages: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_pages",
				Help:      "Number of pages in exported PDF documents",
				Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
			},
		),
		recoveredTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "export_recovered_total",
				Help:      "Exports that continued after a missing template source or cover image",
			},
			[]string{"kind"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) RecordExport(format, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.exportsTotal.WithLabelValues(format, status).Inc()
	m.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
}

func (m *Metrics) RecordPages(pages int) {
	if m == nil {
		return
	}
	m.exportPages.Observe(float64(pages))
}

func (m *Metrics) RecordRecovered(kind string) {
	if m == nil {
		return
	}
	m.recoveredTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRequest(method, route string, code int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
