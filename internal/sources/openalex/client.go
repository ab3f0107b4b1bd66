// Package openalex queries the OpenAlex works API (api.openalex.org).
//
// OpenAlex indexes most of the scholarly record and reports citation
// counts. A contact email routes requests into the polite pool, which
// permits higher request rates.
package openalex

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
	// DefaultBaseURL is the default OpenAlex API base URL.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 14 * time.Second

	// DefaultMinInterval is the default spacing between requests. OpenAlex
	// tolerates high rates; the pacing is politeness, not a hard limit.
	DefaultMinInterval = 50 * time.Millisecond

	sourceName = "openalex"

	// selectFields trims responses to the fields the engine maps.
	selectFields = "id,title,doi,publication_year,authorships,primary_location,cited_by_count"

	defaultRows = 5
)

// Config holds configuration for the OpenAlex client.
type Config struct {
	// BaseURL is the OpenAlex API base URL.
	// Defaults to https://api.openalex.org
	BaseURL string

	// Mailto is the contact email for the polite pool. Optional.
	Mailto string

	// Timeout is the request timeout. Defaults to 14 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests.
	// Defaults to 50ms.
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

// Client implements the sources.Source interface for OpenAlex.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new OpenAlex client sharing the given outbound transport.
func New(cfg Config, transport http.RoundTripper) *Client {
	cfg.applyDefaults()

	httpClient := sources.NewHTTPClient(sources.HTTPClientConfig{
		SourceName:  sourceName,
		Timeout:     cfg.Timeout,
		MinInterval: cfg.MinInterval,
		UserAgent:   cfg.UserAgent,
		Transport:   transport,
	})

	return NewWithHTTPClient(cfg, httpClient)
}

// NewWithHTTPClient creates a new OpenAlex client with a custom HTTP
// helper. This is useful for testing with mock servers.
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

// SearchTitle runs a relevance search over /works.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	params := url.Values{}
	params.Set("search", q)
	params.Set("per-page", strconv.Itoa(limit))
	params.Set("select", selectFields)
	c.addMailto(params)

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/works?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Results))
	for _, w := range resp.Results {
		papers = append(papers, workToPaper(w))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI resolves a DOI via the external-id path form
// /works/https://doi.org/{doi}. OpenAlex requires the external id to be
// fully percent-encoded as a single path segment.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("work", doi)
	}

	params := url.Values{}
	params.Set("select", selectFields)
	c.addMailto(params)

	extID := url.PathEscape("https://doi.org/" + d)
	var w work
	err := c.http.GetJSON(ctx, c.config.BaseURL+"/works/"+extID+"?"+params.Encode(), &w)
	if err != nil {
		if sources.IsNotFoundStatus(err) {
			return nil, domain.NewNotFoundError("work", d)
		}
		return nil, err
	}
	if w.ID == "" && w.Title == "" {
		return nil, domain.NewNotFoundError("work", d)
	}

	paper := workToPaper(w)
	return &paper, nil
}

func (c *Client) addMailto(params url.Values) {
	if c.config.Mailto != "" {
		params.Set("mailto", c.config.Mailto)
	}
}

// workToPaper maps an OpenAlex work onto the canonical record. OpenAlex
// reports DOIs as full resolver URLs; they are cleaned before use. The
// citation count is passed through verbatim.
func workToPaper(w work) domain.Paper {
	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := domain.CleanDOI(w.DOI)

	pageURL := ""
	if w.PrimaryLocation != nil {
		pageURL = strings.TrimSpace(w.PrimaryLocation.LandingPageURL)
	}
	if pageURL == "" {
		pageURL = sources.ResolverURL(doi)
	}

	names := make([]string, 0, len(w.Authorships))
	for _, a := range w.Authorships {
		if n := strings.TrimSpace(a.Author.DisplayName); n != "" {
			names = append(names, n)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    w.PublicationYear,
		DOI:     doi,
		URL:     pageURL,
		Authors: sources.FormatAuthors(names, len(w.Authorships)),
		Source:  sourceName,
		CitedBy: w.CitedByCount,
	}
}
