package httpserver

import (
	"github.com/scholaris/metadata-aggregator/internal/domain"
)

// paperResponse is the JSON shape of one canonical record.
type paperResponse struct {
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	DOI     string `json:"doi,omitempty"`
	URL     string `json:"url,omitempty"`
	Authors string `json:"authors,omitempty"`
	Source  string `json:"source"`
	CitedBy *int   `json:"cited_by,omitempty"`
}

type searchResponse struct {
	Query  string          `json:"query"`
	Count  int             `json:"count"`
	Papers []paperResponse `json:"papers"`
}

func paperToResponse(p domain.Paper) paperResponse {
	return paperResponse{
		Title:   p.Title,
		Year:    p.Year,
		DOI:     p.DOI,
		URL:     p.URL,
		Authors: p.Authors,
		Source:  p.Source,
		CitedBy: p.CitedBy,
	}
}

func newSearchResponse(query string, papers []domain.Paper) searchResponse {
	out := searchResponse{
		Query:  query,
		Count:  len(papers),
		Papers: make([]paperResponse, len(papers)),
	}
	for i, p := range papers {
		out.Papers[i] = paperToResponse(p)
	}
	return out
}
