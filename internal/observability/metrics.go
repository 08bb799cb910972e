package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "place_search"

// Metrics holds the Prometheus counters, histograms, and gauges for the search service.
type Metrics struct {
	Queries        *prometheus.CounterVec // labels: outcome={hit,miss,invalid,failed}
	ResultsServed  prometheus.Histogram
	QueryDuration  prometheus.Histogram
	CacheEntries   prometheus.Gauge
	CacheEvictions *prometheus.CounterVec // labels: reason={expired_read,sweep}

	// Provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: source, outcome={success,empty,error,skipped}
	ProviderDuration *prometheus.HistogramVec // labels: source
	ProviderResults  *prometheus.CounterVec   // labels: source

	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Queries,
		m.ResultsServed,
		m.QueryDuration,
		m.CacheEntries,
		m.CacheEvictions,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderResults,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Search queries by outcome.",
		}, []string{"outcome"}),
		ResultsServed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_served",
			Help:      "Number of places returned per query.",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 10, 12},
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end duration of a search query, cache hits included.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_entries",
			Help:      "Entries currently held by the result cache.",
		}),
		CacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Expired cache entries removed, by reason.",
		}, []string{"reason"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Provider calls by source and outcome.",
		}, []string{"source", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Upstream provider call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8},
		}, []string{"source"}),
		ProviderResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_results_total",
			Help:      "Candidates delivered by each provider before deduplication.",
		}, []string{"source"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Search events handed to the event publisher, by outcome.",
		}, []string{"outcome"}),
	}
}
