// Package observability provides logging and metrics support for the
// metadata aggregation engine.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for searches, lookups, and source traffic
//   - Context helpers for propagating the request ID
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("query", q).Msg("search started")
//
// Scope a logger to a request or a source:
//
//	logger = observability.WithRequestContext(logger, requestID)
//	logger = observability.WithSourceContext(logger, "crossref", "search")
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("litagg")
//
// Record metrics:
//
//	metrics.RecordSearchStarted()
//	metrics.RecordSourceRequest("openalex", "search", 0.42)
//	metrics.RecordDuplicateSkipped()
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - query: the caller's search text
//   - doi: the identifier being looked up
//   - source: bibliographic source tag (crossref, openalex, etc.)
//   - operation: source operation (search, lookup)
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
