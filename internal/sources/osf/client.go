// Package osf queries the OSF preprints API (api.osf.io/v2).
//
// The client is scoped to a single preprint provider (psyarxiv by
// default); the provider is deployment configuration, not a per-call
// argument. OSF's list payloads do not embed author names, so records
// from this source carry an empty author summary.
package osf

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
	// DefaultBaseURL is the default OSF API base URL.
	DefaultBaseURL = "https://api.osf.io/v2"

	// DefaultProvider is the preprint provider filtered by default.
	DefaultProvider = "psyarxiv"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 18 * time.Second

	// DefaultMinInterval is the default spacing between requests.
	DefaultMinInterval = 250 * time.Millisecond

	sourceName = "osf"

	defaultRows = 5
)

// Config holds configuration for the OSF preprints client.
type Config struct {
	// BaseURL is the OSF API base URL.
	// Defaults to https://api.osf.io/v2
	BaseURL string

	// Provider selects the preprint provider (e.g. "psyarxiv", "socarxiv").
	// Defaults to psyarxiv.
	Provider string

	// Timeout is the request timeout. Defaults to 18 seconds.
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
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MinInterval == 0 {
		c.MinInterval = DefaultMinInterval
	}
}

// Client implements the sources.Source interface for OSF preprints.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new OSF client sharing the given outbound transport.
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

// NewWithHTTPClient creates a new OSF client with a custom HTTP helper.
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

// SearchTitle filters the provider's preprints by title.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	params := url.Values{}
	params.Set("filter[provider]", c.config.Provider)
	params.Set("filter[title]", q)
	params.Set("page[size]", strconv.Itoa(limit))

	var resp listResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/preprints/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Data))
	for _, p := range resp.Data {
		papers = append(papers, preprintToPaper(p))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI filters the provider's preprints by DOI.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("preprint", doi)
	}

	params := url.Values{}
	params.Set("filter[provider]", c.config.Provider)
	params.Set("filter[doi]", d)
	params.Set("page[size]", "1")

	var resp listResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/preprints/?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, domain.NewNotFoundError("preprint", d)
	}

	paper := preprintToPaper(resp.Data[0])
	return &paper, nil
}

// preprintToPaper maps an OSF preprint onto the canonical record. The year
// comes from the first parseable of date_published, date_created and
// date_modified.
func preprintToPaper(p preprint) domain.Paper {
	title := strings.TrimSpace(p.Attributes.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := domain.CleanDOI(p.Attributes.DOI)

	year := 0
	for _, d := range []string{p.Attributes.DatePublished, p.Attributes.DateCreated, p.Attributes.DateModified} {
		d = strings.TrimSpace(d)
		if len(d) < 4 {
			continue
		}
		if y, err := strconv.Atoi(d[:4]); err == nil {
			year = y
			break
		}
	}

	pageURL := strings.TrimSpace(p.Links.HTML)
	if pageURL == "" {
		pageURL = sources.ResolverURL(doi)
	}

	return domain.Paper{
		Title:  title,
		Year:   year,
		DOI:    doi,
		URL:    pageURL,
		Source: sourceName,
	}
}
