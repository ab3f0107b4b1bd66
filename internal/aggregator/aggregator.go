// Package aggregator fans a single caller query out over an ordered set of
// bibliographic sources and merges the answers into one deduplicated,
// bounded result set.
//
// Traversal is strictly sequential in registration order: earlier sources
// are more authoritative, and their records win deduplication against
// later ones. A failing source is logged and skipped; the engine degrades
// to whatever the remaining sources can answer, and only fails a call
// outright when no source could answer at all.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/observability"
	"github.com/scholaris/metadata-aggregator/internal/sources"
)

// DefaultLimit is the result bound used when the caller passes a
// non-positive limit.
const DefaultLimit = 5

// Provider binds a source client to its routing capabilities. Sources
// without a usable title search (the preprint detail APIs) are registered
// with SupportsTitle false so the search path never wastes a call on them.
type Provider struct {
	// Source is the adapter client.
	Source sources.Source

	// SupportsTitle routes SearchTitle traversals through this source.
	SupportsTitle bool

	// SupportsDOI routes LookupDOI traversals through this source.
	SupportsDOI bool
}

// Service is the aggregation orchestrator. It is immutable after New and
// safe for concurrent use.
type Service struct {
	titleOrder []sources.Source
	doiOrder   []sources.Source
	logger     zerolog.Logger
	metrics    *observability.Metrics
}

// New creates a Service from an ordered provider list. Order is priority:
// earlier providers are consulted first on every call.
func New(providers []Provider, logger zerolog.Logger, metrics *observability.Metrics) *Service {
	s := &Service{
		logger:  logger.With().Str("component", "aggregator").Logger(),
		metrics: metrics,
	}
	for _, p := range providers {
		if p.Source == nil {
			continue
		}
		if p.SupportsTitle {
			s.titleOrder = append(s.titleOrder, p.Source)
		}
		if p.SupportsDOI {
			s.doiOrder = append(s.doiOrder, p.Source)
		}
	}
	return s
}

// Search auto-detects the query kind: anything that cleans up to a
// well-formed DOI is routed to LookupDOI and wrapped as a one-element
// result, everything else is a title search. A blank query is an empty
// result, not an error.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	if domain.LooksLikeDOI(q) {
		paper, err := s.LookupDOI(ctx, q)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return []domain.Paper{*paper}, nil
	}

	return s.SearchTitle(ctx, q, limit)
}

// SearchTitle walks the title-capable sources in priority order, merging
// records by Key until limit unique records are collected. Source failures
// are recorded and skipped; the whole call fails only when every record
// set came back empty AND at least one source failed.
func (s *Service) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.metrics.RecordSearchStarted()
	start := time.Now()
	logger := observability.WithSearchContext(s.logger, q, limit)

	out := make([]domain.Paper, 0, limit)
	seen := make(map[string]struct{}, limit)
	var diagnostics []string

	for _, src := range s.titleOrder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := s.callSearch(ctx, src, q, limit)
		if err != nil {
			if isCallerCancellation(err) {
				return nil, err
			}
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %v", src.Name(), err))
			logger.Warn().Err(err).Str("source", src.Name()).Msg("source search failed, continuing")
			continue
		}

		contributed := 0
		for _, paper := range items {
			key := paper.Key()
			if _, dup := seen[key]; dup {
				s.metrics.RecordDuplicateSkipped()
				continue
			}
			seen[key] = struct{}{}
			out = append(out, paper)
			contributed++
			if len(out) >= limit {
				s.metrics.RecordPapersBySource(src.Name(), contributed)
				s.metrics.RecordSearchCompleted(len(out), time.Since(start).Seconds())
				return out, nil
			}
		}
		if contributed > 0 {
			s.metrics.RecordPapersBySource(src.Name(), contributed)
		}
	}

	if len(out) == 0 && len(diagnostics) > 0 {
		s.metrics.RecordSearchFailed(time.Since(start).Seconds())
		logger.Error().Strs("sources", diagnostics).Msg("all sources failed")
		return nil, domain.NewAggregationError("search", diagnostics)
	}

	s.metrics.RecordSearchCompleted(len(out), time.Since(start).Seconds())
	return out, nil
}

// LookupDOI walks the DOI-capable sources in priority order and returns
// the first record any of them resolves, with its embedded DOI re-cleaned
// for consistency. All sources answering "not found" is a not-found
// result; a failure is reported only when NO source could answer at all
// (every attempt ended in a source error).
func (s *Service) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("paper", doi)
	}

	s.metrics.RecordLookupStarted()
	logger := s.logger.With().Str("doi", d).Logger()

	var diagnostics []string
	sawNotFound := false

	for _, src := range s.doiOrder {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		paper, err := s.callLookup(ctx, src, d)
		if err != nil {
			if isCallerCancellation(err) {
				return nil, err
			}
			if errors.Is(err, domain.ErrNotFound) {
				sawNotFound = true
				continue
			}
			diagnostics = append(diagnostics, fmt.Sprintf("%s: %v", src.Name(), err))
			logger.Warn().Err(err).Str("source", src.Name()).Msg("source lookup failed, continuing")
			continue
		}

		if paper.DOI != "" {
			paper.DOI = domain.CleanDOI(paper.DOI)
		}
		s.metrics.RecordLookupCompleted()
		s.metrics.RecordPapersBySource(src.Name(), 1)
		return paper, nil
	}

	if !sawNotFound && len(diagnostics) > 0 {
		s.metrics.RecordLookupFailed()
		logger.Error().Strs("sources", diagnostics).Msg("all sources failed")
		return nil, domain.NewAggregationError("lookup", diagnostics)
	}

	s.metrics.RecordLookupNotFound()
	return nil, domain.NewNotFoundError("paper", d)
}

// callSearch runs one source search with per-call metrics.
func (s *Service) callSearch(ctx context.Context, src sources.Source, q string, limit int) ([]domain.Paper, error) {
	start := time.Now()
	items, err := src.SearchTitle(ctx, q, limit)
	if err != nil {
		s.metrics.RecordSourceRequestFailed(src.Name(), "search")
		return nil, err
	}
	s.metrics.RecordSourceRequest(src.Name(), "search", time.Since(start).Seconds())
	return items, nil
}

// callLookup runs one source lookup with per-call metrics. A not-found
// answer counts as a successful request.
func (s *Service) callLookup(ctx context.Context, src sources.Source, doi string) (*domain.Paper, error) {
	start := time.Now()
	paper, err := src.LookupDOI(ctx, doi)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.RecordSourceRequest(src.Name(), "lookup", time.Since(start).Seconds())
		} else {
			s.metrics.RecordSourceRequestFailed(src.Name(), "lookup")
		}
		return nil, err
	}
	s.metrics.RecordSourceRequest(src.Name(), "lookup", time.Since(start).Seconds())
	return paper, nil
}

// isCallerCancellation distinguishes the caller abandoning the whole
// aggregation from a single source timing out. A per-source timeout
// arrives as a SourceError whose cause chain still carries
// context.DeadlineExceeded, so the SourceError check must come first or
// one slow source would abort the traversal.
func isCallerCancellation(err error) bool {
	var srcErr *domain.SourceError
	if errors.As(err, &srcErr) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
