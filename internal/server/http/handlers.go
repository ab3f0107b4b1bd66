package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/observability"
)

// maxQueryLength bounds the q parameter; anything longer is noise, not a
// title.
const maxQueryLength = 500

// searchParams is the validated query-string surface of GET /search.
type searchParams struct {
	Query string `validate:"required,max=500"`
	Limit int    `validate:"-"`
}

// searchHandler handles GET /api/v1/search?q=...&limit=N. The query is
// either a free-text title or anything that cleans up to a DOI; the engine
// decides which.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestContext(s.logger, observability.RequestIDFromContext(ctx))

	params := searchParams{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		params.Limit = limit
	}

	if err := s.validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("q is required and at most %d characters", maxQueryLength))
		return
	}
	if params.Limit == 0 {
		params.Limit = s.defaultLimit
	}
	if params.Limit < 1 || params.Limit > s.maxLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", s.maxLimit))
		return
	}

	papers, err := s.aggregator.Search(ctx, params.Query, params.Limit)
	if err != nil {
		logger.Error().Err(err).Str("query", params.Query).Msg("search failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSearchResponse(params.Query, papers))
}

// lookupHandler handles GET /api/v1/lookup?doi=...
func (s *Server) lookupHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.WithRequestContext(s.logger, observability.RequestIDFromContext(ctx))

	doi := strings.TrimSpace(r.URL.Query().Get("doi"))
	if doi == "" {
		writeError(w, http.StatusBadRequest, "doi is required")
		return
	}
	if len(doi) > maxQueryLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("doi must be at most %d characters", maxQueryLength))
		return
	}

	paper, err := s.aggregator.LookupDOI(ctx, doi)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error().Err(err).Str("doi", doi).Msg("lookup failed")
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, paperToResponse(*paper))
}

// writeDomainError maps domain errors onto HTTP status codes. Source
// diagnostics stay in the logs; callers get a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "paper not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.Is(err, domain.ErrAllSourcesFailed):
		writeError(w, http.StatusBadGateway, "no source could be reached")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "request timed out")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
