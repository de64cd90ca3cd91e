package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/admissions-portal-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for the health endpoint.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	applicationsCreated   prometheus.Counter
	applicationsSubmitted prometheus.Counter
	statusTransitions     *prometheus.CounterVec
	attachmentsStored     prometheus.Counter
	attachmentDeleteFails prometheus.Counter
	cleanupRetries        *prometheus.CounterVec

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	createdCount         uint64
	submittedCount       uint64
	deleteFailureCount   uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	applicationsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "applications_created_total",
		Help: "Draft applications created",
	})

	applicationsSubmitted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "applications_submitted_total",
		Help: "Applications that passed submission checks",
	})

	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "application_status_transitions_total",
		Help: "Application status changes by target status",
	}, []string{"status"})

	attachmentsStored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attachments_stored_total",
		Help: "Attachment files written to storage",
	})

	attachmentDeleteFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attachment_delete_failures_total",
		Help: "Attachment removals that failed and were handed to the cleanup queue",
	})

	cleanupRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attachment_cleanup_jobs_total",
		Help: "Background attachment cleanup outcomes",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		applicationsCreated, applicationsSubmitted, statusTransitions, attachmentsStored, attachmentDeleteFails, cleanupRetries, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:              registry,
		handler:               handler,
		requestDuration:       requestDuration,
		requestTotal:          requestTotal,
		cacheLatency:          cacheLatency,
		cacheWrite:            cacheWrite,
		cacheHitRatio:         cacheHitRatio,
		cacheHits:             cacheHits,
		cacheMisses:           cacheMisses,
		applicationsCreated:   applicationsCreated,
		applicationsSubmitted: applicationsSubmitted,
		statusTransitions:     statusTransitions,
		attachmentsStored:     attachmentsStored,
		attachmentDeleteFails: attachmentDeleteFails,
		cleanupRetries:        cleanupRetries,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ApplicationCreated counts a new draft.
func (m *MetricsService) ApplicationCreated() {
	if m == nil {
		return
	}
	m.applicationsCreated.Inc()
	atomic.AddUint64(&m.createdCount, 1)
}

// ApplicationSubmitted counts a successful submission.
func (m *MetricsService) ApplicationSubmitted() {
	if m == nil {
		return
	}
	m.applicationsSubmitted.Inc()
	atomic.AddUint64(&m.submittedCount, 1)
}

// StatusTransition counts a status change to status.
func (m *MetricsService) StatusTransition(status models.ApplicationStatus) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(string(status)).Inc()
}

// AttachmentsStored counts files written to storage.
func (m *MetricsService) AttachmentsStored(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.attachmentsStored.Add(float64(n))
}

// AttachmentDeleteFailed counts a swallowed file removal failure.
func (m *MetricsService) AttachmentDeleteFailed() {
	if m == nil {
		return
	}
	m.attachmentDeleteFails.Inc()
	atomic.AddUint64(&m.deleteFailureCount, 1)
}

// CleanupOutcome counts a background cleanup attempt by outcome (removed, retry, exhausted, dropped).
func (m *MetricsService) CleanupOutcome(outcome string) {
	if m == nil {
		return
	}
	m.cleanupRetries.WithLabelValues(outcome).Inc()
}

// Snapshot returns aggregated counters for the health endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var cacheRatio float64
	if totalLookups := hits + misses; totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ApplicationsCreated:      atomic.LoadUint64(&m.createdCount),
		ApplicationsSubmitted:    atomic.LoadUint64(&m.submittedCount),
		AttachmentDeleteFailures: atomic.LoadUint64(&m.deleteFailureCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
