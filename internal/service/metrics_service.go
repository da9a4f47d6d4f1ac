package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns a private Prometheus registry for HTTP, cache and
// import instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	imports         *prometheus.CounterVec
	importedMarks   prometheus.Counter
	importDuration  prometheus.Histogram
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_lookups_total",
		Help: "Dashboard cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_cache_latency_seconds",
		Help:    "Latency of dashboard cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mark_imports_total",
		Help: "Mark file imports by outcome code",
	}, []string{"outcome"})

	importedMarks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mark_import_rows_created_total",
		Help: "Marks persisted by bulk imports",
	})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mark_import_duration_seconds",
		Help:    "Wall time of mark imports",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(
		requestDuration, requestTotal, cacheLookups, cacheLatency, imports, importedMarks, importDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		cacheLatency:    cacheLatency,
		imports:         imports,
		importedMarks:   importedMarks,
		importDuration:  importDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request duration and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup result.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheLatency.Observe(duration.Seconds())
}

// RecordImport records one finished import. outcome is "success" or an error code.
func (m *MetricsService) RecordImport(outcome string, created int, duration time.Duration) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(outcome).Inc()
	m.importedMarks.Add(float64(created))
	m.importDuration.Observe(duration.Seconds())
}
