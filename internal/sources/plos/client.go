// Package plos queries the PLOS Solr search API (api.plos.org).
//
// PLOS exposes a Solr index; both search and DOI lookup go through the
// same endpoint with fielded q= expressions. Article ids in the index
// double as DOIs, so the id field is the primary DOI carrier.
package plos

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
	// DefaultBaseURL is the default PLOS search endpoint.
	DefaultBaseURL = "http://api.plos.org/search"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 16 * time.Second

	// DefaultMinInterval is the default spacing between requests.
	DefaultMinInterval = 200 * time.Millisecond

	sourceName = "plos"

	defaultRows = 5
)

// Config holds configuration for the PLOS client.
type Config struct {
	// BaseURL is the full Solr search endpoint.
	// Defaults to http://api.plos.org/search
	BaseURL string

	// APIKey is the optional PLOS API key, sent as the api_key parameter.
	APIKey string

	// Timeout is the request timeout. Defaults to 16 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests.
	// Defaults to 200ms.
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

// Client implements the sources.Source interface for PLOS.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new PLOS client sharing the given outbound transport.
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

// NewWithHTTPClient creates a new PLOS client with a custom HTTP helper.
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

// SearchTitle runs a fielded title query against the Solr index.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	resp, err := c.query(ctx, fmt.Sprintf("title:%q", q), limit)
	if err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		papers = append(papers, docToPaper(doc, ""))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI runs a fielded doi query. When the matched document carries no
// usable id of its own, the looked-up DOI is kept.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("article", doi)
	}

	resp, err := c.query(ctx, fmt.Sprintf("doi:%q", d), 1)
	if err != nil {
		return nil, err
	}
	if len(resp.Response.Docs) == 0 {
		return nil, domain.NewNotFoundError("article", d)
	}

	paper := docToPaper(resp.Response.Docs[0], d)
	return &paper, nil
}

func (c *Client) query(ctx context.Context, q string, rows int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("wt", "json")
	params.Set("rows", strconv.Itoa(rows))
	if c.config.APIKey != "" {
		params.Set("api_key", c.config.APIKey)
	}

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// docToPaper maps a Solr document onto the canonical record. fallbackDOI
// is used when neither the id nor the doi field holds a well-formed DOI.
func docToPaper(doc solrDoc, fallbackDOI string) domain.Paper {
	title := strings.TrimSpace(doc.TitleDisplay)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := extractDOI(doc)
	if doi == "" {
		doi = fallbackDOI
	}

	year := 0
	if d := strings.TrimSpace(doc.PublicationDate); len(d) >= 4 {
		if y, err := strconv.Atoi(d[:4]); err == nil {
			year = y
		}
	}

	names := make([]string, 0, len(doc.AuthorDisplay))
	for _, a := range doc.AuthorDisplay {
		if n := strings.TrimSpace(a); n != "" {
			names = append(names, n)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    year,
		DOI:     doi,
		URL:     sources.ResolverURL(doi),
		Authors: sources.FormatAuthors(names, len(doc.AuthorDisplay)),
		Source:  sourceName,
	}
}

// extractDOI recovers a DOI from the document, preferring the id field.
// Both fields are ignored unless the whole value parses as a DOI.
func extractDOI(doc solrDoc) string {
	for _, raw := range []string{doc.ID, doc.DOI} {
		if raw = strings.TrimSpace(raw); raw != "" && domain.LooksLikeDOI(raw) {
			return domain.CleanDOI(raw)
		}
	}
	return ""
}
