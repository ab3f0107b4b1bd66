package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the metadata aggregation
// engine, organized by subsystem: aggregate operations (title searches and
// DOI lookups as seen by callers), per-source traffic, and deduplication.
// Everything is registered via promauto with the default registry.
type Metrics struct {
	// SearchesStarted counts aggregated title searches initiated.
	SearchesStarted prometheus.Counter

	// SearchesCompleted counts aggregated title searches that produced a
	// result set (possibly empty).
	SearchesCompleted prometheus.Counter

	// SearchesFailed counts aggregated title searches that ended in an
	// aggregation failure.
	SearchesFailed prometheus.Counter

	// SearchDuration observes end-to-end title search duration in seconds.
	SearchDuration prometheus.Histogram

	// PapersPerSearch observes the number of unique records per search.
	PapersPerSearch prometheus.Histogram

	// LookupsStarted counts aggregated DOI lookups initiated.
	LookupsStarted prometheus.Counter

	// LookupsCompleted counts aggregated DOI lookups that resolved a record.
	LookupsCompleted prometheus.Counter

	// LookupsNotFound counts aggregated DOI lookups where no source knew
	// the identifier.
	LookupsNotFound prometheus.Counter

	// LookupsFailed counts aggregated DOI lookups that ended in an
	// aggregation failure.
	LookupsFailed prometheus.Counter

	// SourceRequestsTotal counts source API calls, labeled by source and
	// operation ("search" or "lookup").
	SourceRequestsTotal *prometheus.CounterVec

	// SourceRequestsFailed counts failed source API calls, labeled by
	// source and operation.
	SourceRequestsFailed *prometheus.CounterVec

	// SourceRequestDuration observes source API call duration in seconds,
	// labeled by source and operation.
	SourceRequestDuration *prometheus.HistogramVec

	// PapersBySource counts records contributed to result sets, labeled
	// by source.
	PapersBySource *prometheus.CounterVec

	// DuplicatesSkipped counts records dropped because an earlier source
	// already contributed the same work.
	DuplicatesSkipped prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Aggregate title searches
		SearchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_started_total",
			Help:      "Total number of aggregated title searches started",
		}),
		SearchesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_completed_total",
			Help:      "Total number of aggregated title searches completed",
		}),
		SearchesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_failed_total",
			Help:      "Total number of aggregated title searches that failed",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of aggregated title searches in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		PapersPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "papers_per_search",
			Help:      "Number of unique records returned per aggregated search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),

		// Aggregate DOI lookups
		LookupsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_started_total",
			Help:      "Total number of aggregated DOI lookups started",
		}),
		LookupsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_completed_total",
			Help:      "Total number of aggregated DOI lookups that resolved a record",
		}),
		LookupsNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_not_found_total",
			Help:      "Total number of aggregated DOI lookups with no match anywhere",
		}),
		LookupsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_failed_total",
			Help:      "Total number of aggregated DOI lookups that failed",
		}),

		// Per-source traffic
		SourceRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Total number of source API calls",
		}, []string{"source", "operation"}),
		SourceRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_failed_total",
			Help:      "Total number of failed source API calls",
		}, []string{"source", "operation"}),
		SourceRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Duration of source API calls in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source", "operation"}),
		PapersBySource: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_by_source_total",
			Help:      "Total number of records contributed by source",
		}, []string{"source"}),

		// Deduplication
		DuplicatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_skipped_total",
			Help:      "Total number of records dropped as duplicates of an earlier source's record",
		}),
	}
}

// RecordSearchStarted records that an aggregated title search has started.
func (m *Metrics) RecordSearchStarted() {
	m.SearchesStarted.Inc()
}

// RecordSearchCompleted records a finished title search and its yield.
func (m *Metrics) RecordSearchCompleted(paperCount int, durationSeconds float64) {
	m.SearchesCompleted.Inc()
	m.SearchDuration.Observe(durationSeconds)
	m.PapersPerSearch.Observe(float64(paperCount))
}

// RecordSearchFailed records a title search that ended in aggregation failure.
func (m *Metrics) RecordSearchFailed(durationSeconds float64) {
	m.SearchesFailed.Inc()
	m.SearchDuration.Observe(durationSeconds)
}

// RecordLookupStarted records that an aggregated DOI lookup has started.
func (m *Metrics) RecordLookupStarted() {
	m.LookupsStarted.Inc()
}

// RecordLookupCompleted records a DOI lookup that resolved a record.
func (m *Metrics) RecordLookupCompleted() {
	m.LookupsCompleted.Inc()
}

// RecordLookupNotFound records a DOI lookup with no match at any source.
func (m *Metrics) RecordLookupNotFound() {
	m.LookupsNotFound.Inc()
}

// RecordLookupFailed records a DOI lookup that ended in aggregation failure.
func (m *Metrics) RecordLookupFailed() {
	m.LookupsFailed.Inc()
}

// RecordSourceRequest records one source API call.
func (m *Metrics) RecordSourceRequest(source, operation string, durationSeconds float64) {
	m.SourceRequestsTotal.WithLabelValues(source, operation).Inc()
	m.SourceRequestDuration.WithLabelValues(source, operation).Observe(durationSeconds)
}

// RecordSourceRequestFailed records one failed source API call.
func (m *Metrics) RecordSourceRequestFailed(source, operation string) {
	m.SourceRequestsFailed.WithLabelValues(source, operation).Inc()
}

// RecordPapersBySource records records contributed by a source.
func (m *Metrics) RecordPapersBySource(source string, count int) {
	m.PapersBySource.WithLabelValues(source).Add(float64(count))
}

// RecordDuplicateSkipped records a record dropped by deduplication.
func (m *Metrics) RecordDuplicateSkipped() {
	m.DuplicatesSkipped.Inc()
}
