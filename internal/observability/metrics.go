package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's prometheus collectors.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorCount      *prometheus.CounterVec
	scoreRequests   *prometheus.CounterVec
	leadsStored     prometheus.Gauge
}

// NewMetrics registers collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"path", "method"},
		),
		errorCount: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP requests that ended in a domain error",
			},
			[]string{"path", "method", "code"},
		),
		scoreRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_score_requests_total",
				Help: "Scoring outcomes by the path that produced them",
			},
			[]string{"source"},
		),
		leadsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "leads_stored",
				Help: "Number of leads currently held by the store",
			},
		),
	}
}

// Registry exposes the underlying registry for the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestCount.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errorCount.WithLabelValues(path, method, code).Inc()
}

// RecordScore counts a scoring outcome by source.
func (m *Metrics) RecordScore(source string) {
	if m == nil {
		return
	}
	m.scoreRequests.WithLabelValues(source).Inc()
}

// SetLeadCount tracks the size of the lead collection.
func (m *Metrics) SetLeadCount(n int) {
	if m == nil {
		return
	}
	m.leadsStored.Set(float64(n))
}
