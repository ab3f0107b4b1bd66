// Package doaj queries the DOAJ public search API (doaj.org/api/v2).
//
// The v2 API embeds the query expression in the URL path. Field-qualified
// queries are not guaranteed across deployments, so every search runs in
// two passes: a fielded query first, then a plain free-text query when
// the fielded one matches nothing.
package doaj

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/sources"
)

const (
	// DefaultBaseURL is the default DOAJ API base URL.
	DefaultBaseURL = "https://doaj.org/api/v2"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 16 * time.Second

	// DefaultMinInterval is the default spacing between requests.
	DefaultMinInterval = 250 * time.Millisecond

	sourceName = "doaj"

	defaultRows = 5
)

// Config holds configuration for the DOAJ client.
type Config struct {
	// BaseURL is the DOAJ API base URL.
	// Defaults to https://doaj.org/api/v2
	BaseURL string

	// APIKey is an optional token sent as a Bearer credential. The public
	// search endpoints work without one.
	APIKey string

	// Timeout is the request timeout. Defaults to 16 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests.
	// Defaults to 250ms.
	MinInterval time.Duration

	// UserAgent overrides the default client identifier.
	UserAgent string
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MinInterval == 0 {
		c.MinInterval = DefaultMinInterval
	}
}

// Client implements the sources.Source interface for DOAJ.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new DOAJ client sharing the given outbound transport.
func New(cfg Config, transport http.RoundTripper) *Client {
	cfg.applyDefaults()

	httpCfg := sources.HTTPClientConfig{
		SourceName:  sourceName,
		Timeout:     cfg.Timeout,
		MinInterval: cfg.MinInterval,
		UserAgent:   cfg.UserAgent,
		Transport:   transport,
	}
	if cfg.APIKey != "" {
		httpCfg.APIKey = "Bearer " + cfg.APIKey
		httpCfg.APIKeyHeader = "Authorization"
	}

	return NewWithHTTPClient(cfg, sources.NewHTTPClient(httpCfg))
}

// NewWithHTTPClient creates a new DOAJ client with a custom HTTP helper.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		http:   httpClient,
	}
}

// Name returns the source tag.
func (c *Client) Name() string {
	return sourceName
}

// SearchTitle queries /search/articles, trying a bibjson.title fielded
// expression before falling back to free text.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	papers, err := c.searchRaw(ctx, fmt.Sprintf("bibjson.title:%q", q), limit)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		papers, err = c.searchRaw(ctx, q, limit)
		if err != nil {
			return nil, err
		}
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI searches the bibjson identifier index for the DOI, falling
// back to free text like SearchTitle does.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("article", doi)
	}

	papers, err := c.searchRaw(ctx, fmt.Sprintf("bibjson.identifier.id:%q", d), 1)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		papers, err = c.searchRaw(ctx, d, 1)
		if err != nil {
			return nil, err
		}
	}
	if len(papers) == 0 {
		return nil, domain.NewNotFoundError("article", d)
	}
	return &papers[0], nil
}

// searchRaw runs one pass against /search/articles/{query}. The query
// expression is percent-encoded into a single path segment.
func (c *Client) searchRaw(ctx context.Context, query string, rows int) ([]domain.Paper, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(rows))

	reqURL := c.config.BaseURL + "/search/articles/" + url.PathEscape(query) + "?" + params.Encode()

	var resp searchResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Results))
	for _, item := range resp.Results {
		papers = append(papers, itemToPaper(item))
	}
	return papers, nil
}

// itemToPaper maps a DOAJ article onto the canonical record. The DOI is
// dug out of the bibjson identifier list; the URL prefers the article's
// first link over the DOI resolver.
func itemToPaper(item article) domain.Paper {
	bib := item.BibJSON

	title := strings.TrimSpace(bib.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := ""
	for _, ident := range bib.Identifier {
		if strings.EqualFold(strings.TrimSpace(ident.Type), "doi") && strings.TrimSpace(ident.ID) != "" {
			doi = domain.CleanDOI(ident.ID)
			break
		}
	}

	pageURL := ""
	for _, link := range bib.Link {
		if u := strings.TrimSpace(link.URL); u != "" {
			pageURL = u
			break
		}
	}
	if pageURL == "" {
		pageURL = sources.ResolverURL(doi)
	}

	names := make([]string, 0, len(bib.Author))
	for _, a := range bib.Author {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    bib.Year.Int(),
		DOI:     doi,
		URL:     pageURL,
		Authors: sources.FormatAuthors(names, len(bib.Author)),
		Source:  sourceName,
	}
}
