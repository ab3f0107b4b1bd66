// Package semanticscholar queries the Semantic Scholar Graph API.
//
// The public tier is tightly rate limited; an API key (sent in the
// x-api-key header) permits a much shorter request interval, so the
// default pacing depends on whether a key is configured.
package semanticscholar

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/sources"
)

const (
	// DefaultBaseURL is the default Graph API base URL.
	DefaultBaseURL = "https://api.semanticscholar.org/graph/v1"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 16 * time.Second

	// DefaultMinIntervalWithKey is the request spacing when an API key is
	// configured.
	DefaultMinIntervalWithKey = 200 * time.Millisecond

	// DefaultMinIntervalNoKey is the request spacing on the public tier.
	DefaultMinIntervalNoKey = time.Second

	sourceName = "semanticscholar"

	// requestFields trims responses to the fields the engine maps.
	requestFields = "title,year,authors,url,citationCount,externalIds"

	defaultRows = 5
)

// Config holds configuration for the Semantic Scholar client.
type Config struct {
	// BaseURL is the Graph API base URL.
	// Defaults to https://api.semanticscholar.org/graph/v1
	BaseURL string

	// APIKey is the optional Semantic Scholar API key.
	APIKey string

	// Timeout is the request timeout. Defaults to 16 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests. Defaults to
	// 200ms with an API key, 1s without.
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
		if c.APIKey != "" {
			c.MinInterval = DefaultMinIntervalWithKey
		} else {
			c.MinInterval = DefaultMinIntervalNoKey
		}
	}
}

// Client implements the sources.Source interface for Semantic Scholar.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new Semantic Scholar client sharing the given transport.
func New(cfg Config, transport http.RoundTripper) *Client {
	cfg.applyDefaults()

	httpClient := sources.NewHTTPClient(sources.HTTPClientConfig{
		SourceName:   sourceName,
		Timeout:      cfg.Timeout,
		MinInterval:  cfg.MinInterval,
		UserAgent:    cfg.UserAgent,
		APIKey:       cfg.APIKey,
		APIKeyHeader: "x-api-key",
		Transport:    transport,
	})

	return NewWithHTTPClient(cfg, httpClient)
}

// NewWithHTTPClient creates a new Semantic Scholar client with a custom
// HTTP helper. This is useful for testing with mock servers.
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

// SearchTitle runs a keyword search over /paper/search.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	params := url.Values{}
	params.Set("query", q)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", requestFields)

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/paper/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Data))
	for _, p := range resp.Data {
		papers = append(papers, paperToDomain(p))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI resolves a DOI via the /paper/DOI:{doi} external-id form.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("paper", doi)
	}

	params := url.Values{}
	params.Set("fields", requestFields)

	var p paperRecord
	err := c.http.GetJSON(ctx, c.config.BaseURL+"/paper/DOI:"+d+"?"+params.Encode(), &p)
	if err != nil {
		if sources.IsNotFoundStatus(err) {
			return nil, domain.NewNotFoundError("paper", d)
		}
		return nil, err
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, domain.NewNotFoundError("paper", d)
	}

	paper := paperToDomain(p)
	return &paper, nil
}

// paperToDomain maps a Graph API paper record onto the canonical record.
// The DOI lives under externalIds, not at the top level.
func paperToDomain(p paperRecord) domain.Paper {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := domain.CleanDOI(p.ExternalIDs.DOI)

	pageURL := strings.TrimSpace(p.URL)
	if pageURL == "" {
		pageURL = sources.ResolverURL(doi)
	}

	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    p.Year,
		DOI:     doi,
		URL:     pageURL,
		Authors: sources.FormatAuthors(names, len(p.Authors)),
		Source:  sourceName,
		CitedBy: p.CitationCount,
	}
}
