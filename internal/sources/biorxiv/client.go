// Package biorxiv queries the bioRxiv/medRxiv details API
// (api.biorxiv.org). One Client serves either archive; the Server field
// selects which, and doubles as the source tag on returned records.
//
// The API has no practical title search (that would require walking date
// intervals), so SearchTitle always reports zero results and only DOI
// lookup does network work.
package biorxiv

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/sources"
)

const (
	// DefaultBaseURL is the default bioRxiv API base URL.
	DefaultBaseURL = "https://api.biorxiv.org"

	// ServerBiorxiv selects the bioRxiv archive.
	ServerBiorxiv = "biorxiv"

	// ServerMedrxiv selects the medRxiv archive.
	ServerMedrxiv = "medrxiv"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 18 * time.Second

	// DefaultMinInterval is the default spacing between requests.
	DefaultMinInterval = 200 * time.Millisecond
)

// Config holds configuration for a bioRxiv/medRxiv client.
type Config struct {
	// BaseURL is the API base URL. Defaults to https://api.biorxiv.org
	// (both archives are served from the same host).
	BaseURL string

	// Server selects the archive, ServerBiorxiv or ServerMedrxiv.
	// Defaults to ServerBiorxiv.
	Server string

	// Timeout is the request timeout. Defaults to 18 seconds.
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
	if c.Server == "" {
		c.Server = ServerBiorxiv
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MinInterval == 0 {
		c.MinInterval = DefaultMinInterval
	}
}

// Client implements the sources.Source interface for one preprint archive.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new client sharing the given outbound transport.
func New(cfg Config, transport http.RoundTripper) *Client {
	cfg.applyDefaults()

	httpClient := sources.NewHTTPClient(sources.HTTPClientConfig{
		SourceName:  cfg.Server,
		Timeout:     cfg.Timeout,
		MinInterval: cfg.MinInterval,
		UserAgent:   cfg.UserAgent,
		Transport:   transport,
	})

	return NewWithHTTPClient(cfg, httpClient)
}

// NewWithHTTPClient creates a new client with a custom HTTP helper.
// This is useful for testing with mock servers.
func NewWithHTTPClient(cfg Config, httpClient *sources.HTTPClient) *Client {
	cfg.applyDefaults()

	return &Client{
		config: cfg,
		http:   httpClient,
	}
}

// Name returns the archive name ("biorxiv" or "medrxiv").
func (c *Client) Name() string {
	return c.config.Server
}

// SearchTitle reports no results; the archive offers no title search.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	return nil, nil
}

// LookupDOI fetches /details/{server}/{doi}/na/json and maps the first
// collection entry.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("preprint", doi)
	}

	reqURL := c.config.BaseURL + "/details/" + c.config.Server + "/" + d + "/na/json"

	var resp detailsResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		if sources.IsNotFoundStatus(err) {
			return nil, domain.NewNotFoundError("preprint", d)
		}
		return nil, err
	}
	if len(resp.Collection) == 0 {
		return nil, domain.NewNotFoundError("preprint", d)
	}

	paper := c.entryToPaper(resp.Collection[0])
	return &paper, nil
}

// entryToPaper maps a details entry onto the canonical record. The year is
// the leading four digits of the date string; authors arrive preformatted
// as a single string.
func (c *Client) entryToPaper(e detailsEntry) domain.Paper {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := domain.CleanDOI(e.DOI)

	year := 0
	if d := strings.TrimSpace(e.Date); len(d) >= 4 {
		if y, err := strconv.Atoi(d[:4]); err == nil {
			year = y
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    year,
		DOI:     doi,
		URL:     sources.ResolverURL(doi),
		Authors: strings.TrimSpace(e.Authors),
		Source:  c.config.Server,
	}
}
