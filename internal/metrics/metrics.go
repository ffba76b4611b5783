// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Refresh results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	CatalogSize     prometheus.Gauge
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brbshorts_catalog_refresh_total",
			Help: "Catalog refreshes against the YouTube Data API, by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "brbshorts_catalog_refresh_duration_seconds",
			Help:    "Duration of catalog refreshes in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brbshorts_catalog_cache_hits_total",
			Help: "Catalog reads served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brbshorts_catalog_cache_misses_total",
			Help: "Catalog reads that required a refresh.",
		}),
		CatalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "brbshorts_catalog_videos",
			Help: "Number of videos in the last successful refresh.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brbshorts_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	reg.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.CacheHits,
		m.CacheMisses,
		m.CatalogSize,
		m.RequestDuration,
	)
	return m
}

// ObserveRefresh records one refresh attempt. size is ignored on failure.
func (m *Metrics) ObserveRefresh(err error, took time.Duration, size int) {
	if m == nil {
		return
	}
	m.RefreshDuration.Observe(took.Seconds())
	if err != nil {
		m.RefreshTotal.WithLabelValues(ResultFailure).Inc()
		return
	}
	m.RefreshTotal.WithLabelValues(ResultSuccess).Inc()
	m.CatalogSize.Set(float64(size))
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, statusLabel(status)).Observe(took.Seconds())
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
