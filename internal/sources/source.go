// Package sources provides the contract and shared plumbing for
// bibliographic source clients.
//
// Each external bibliographic API (Crossref, OpenAlex, PubMed, etc.)
// implements the Source interface, mapping its native response schema onto
// the canonical domain.Paper record. Per-source HTTP dispatch, politeness
// pacing and timeout handling are factored into HTTPClient, which every
// adapter holds by composition.
//
// Example usage:
//
//	client := crossref.New(cfg, transport)
//	papers, err := client.SearchTitle(ctx, "cognitive bias", 5)
package sources

import (
	"context"
	"strings"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

// maxAuthorNames caps how many author names an adapter renders before
// falling back to an "et al." marker.
const maxAuthorNames = 4

// Source is the capability contract every bibliographic source client
// implements. Either operation may be effectively unsupported by a given
// source; which operations the aggregator actually routes to an adapter is
// declared separately when the adapter is registered.
type Source interface {
	// SearchTitle queries the source's free-text search endpoint and
	// returns matching records in the source's native relevance order,
	// truncated to limit. A blank title yields an empty result without a
	// network call. Failures are reported as *domain.SourceError.
	SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error)

	// LookupDOI resolves a single DOI to at most one record. A source
	// that has no matching record returns domain.ErrNotFound; that is an
	// answer, not a failure. Failures are reported as *domain.SourceError.
	LookupDOI(ctx context.Context, doi string) (*domain.Paper, error)

	// Name returns the source tag used for attribution, logging and
	// error reporting (e.g. "crossref").
	Name() string
}

// ResolverURL builds the canonical doi.org landing page for a cleaned DOI.
// Returns the empty string when no DOI is known.
func ResolverURL(doi string) string {
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// FormatAuthors renders a display-ready author summary: at most four names
// joined by commas, with an "et al." marker when the full list is longer.
// total is the length of the source's complete author list, which may
// exceed len(names) when the caller already truncated it.
func FormatAuthors(names []string, total int) string {
	kept := make([]string, 0, maxAuthorNames)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		kept = append(kept, n)
		if len(kept) == maxAuthorNames {
			break
		}
	}
	out := strings.Join(kept, ", ")
	if total > maxAuthorNames && out != "" {
		out += " et al."
	}
	return out
}
