package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_aggregator_new")

	assert.NotNil(t, m.SearchesStarted)
	assert.NotNil(t, m.SearchesCompleted)
	assert.NotNil(t, m.SearchesFailed)
	assert.NotNil(t, m.SearchDuration)
	assert.NotNil(t, m.PapersPerSearch)
	assert.NotNil(t, m.LookupsStarted)
	assert.NotNil(t, m.LookupsCompleted)
	assert.NotNil(t, m.LookupsNotFound)
	assert.NotNil(t, m.LookupsFailed)
	assert.NotNil(t, m.SourceRequestsTotal)
	assert.NotNil(t, m.SourceRequestsFailed)
	assert.NotNil(t, m.SourceRequestDuration)
	assert.NotNil(t, m.PapersBySource)
	assert.NotNil(t, m.DuplicatesSkipped)
}

func TestRecordSearchCompleted(t *testing.T) {
	m := NewMetrics("test_search_completed")

	initial := testutil.ToFloat64(m.SearchesCompleted)
	m.RecordSearchCompleted(4, 1.5)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesCompleted))

	histCount, err := getHistogramSampleCount(m.SearchDuration)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)

	yieldCount, err := getHistogramSampleCount(m.PapersPerSearch)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), yieldCount)
}

func TestRecordSearchFailed(t *testing.T) {
	m := NewMetrics("test_search_failed")

	initial := testutil.ToFloat64(m.SearchesFailed)
	m.RecordSearchFailed(1.0)
	assert.Equal(t, initial+1, testutil.ToFloat64(m.SearchesFailed))
}

func TestRecordLookupOutcomes(t *testing.T) {
	m := NewMetrics("test_lookup_outcomes")

	m.RecordLookupStarted()
	m.RecordLookupCompleted()
	m.RecordLookupNotFound()
	m.RecordLookupFailed()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsCompleted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsNotFound))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LookupsFailed))
}

func TestRecordSourceRequest(t *testing.T) {
	m := NewMetrics("test_source_request")

	m.RecordSourceRequest("crossref", "search", 0.5)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceRequestsTotal.WithLabelValues("crossref", "search")))
}

func TestRecordSourceRequestFailed(t *testing.T) {
	m := NewMetrics("test_source_request_failed")

	m.RecordSourceRequestFailed("openalex", "lookup")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SourceRequestsFailed.WithLabelValues("openalex", "lookup")))
}

func TestRecordPapersBySource(t *testing.T) {
	m := NewMetrics("test_papers_by_source")

	m.RecordPapersBySource("pubmed", 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.PapersBySource.WithLabelValues("pubmed")))
}

func TestRecordDuplicateSkipped(t *testing.T) {
	m := NewMetrics("test_duplicate_skipped")

	initial := testutil.ToFloat64(m.DuplicatesSkipped)
	m.RecordDuplicateSkipped()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.DuplicatesSkipped))
}

// Helper to get histogram sample count
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
