// Package metrics provides Prometheus metrics for jobly
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skryldev/jobly/db"
)

// Metrics holds all Prometheus metrics for jobly
type Metrics struct {
	registry *prometheus.Registry

	// Database metrics
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg. A nil reg gets a
// fresh registry that also carries the Go runtime and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	// Database metrics
	m.DBQueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobly_db_queries_total",
			Help: "Total number of SQL statements executed",
		},
		[]string{"statement", "status"},
	)

	m.DBQueryDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobly_db_query_duration_seconds",
			Help:    "Duration of SQL statements in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"statement"},
	)

	// HTTP request metrics
	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobly_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobly_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	return m
}

// Registry returns the registry the metrics live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordQuery records one SQL statement. It satisfies db.MetricsCollector.
func (m *Metrics) RecordQuery(query string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	kind := StatementKind(query)
	m.DBQueriesTotal.WithLabelValues(kind, status).Inc()
	m.DBQueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordHTTPRequest records a served request. route is the matched pattern,
// not the raw path, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// StatementKind returns the lower-cased leading keyword of query for the
// four DML statements, and "other" for everything else.
func StatementKind(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "other"
	}
	switch kw := strings.ToLower(fields[0]); kw {
	case "select", "insert", "update", "delete":
		return kw
	}
	return "other"
}

var _ db.MetricsCollector = (*Metrics)(nil)
