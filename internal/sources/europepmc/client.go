// Package europepmc queries the Europe PMC REST API (ebi.ac.uk).
//
// Europe PMC indexes preprints alongside published articles; records
// without a DOI still get a usable viewer URL built from the source and
// id fields.
package europepmc

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
	// DefaultBaseURL is the default Europe PMC REST base URL.
	DefaultBaseURL = "https://www.ebi.ac.uk/europepmc/webservices/rest"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 14 * time.Second

	// DefaultMinInterval is the default spacing between requests. Europe
	// PMC publishes no hard limit; this keeps the client under ~8 req/s.
	DefaultMinInterval = 120 * time.Millisecond

	sourceName = "europepmc"

	// viewerBaseURL is the article viewer used when a record has no DOI.
	viewerBaseURL = "https://europepmc.org/article"

	defaultRows = 5
)

// Config holds configuration for the Europe PMC client.
type Config struct {
	// BaseURL is the REST API base URL.
	// Defaults to https://www.ebi.ac.uk/europepmc/webservices/rest
	BaseURL string

	// Timeout is the request timeout. Defaults to 14 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests.
	// Defaults to 120ms.
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

// Client implements the sources.Source interface for Europe PMC.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new Europe PMC client sharing the given transport.
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

// NewWithHTTPClient creates a new Europe PMC client with a custom HTTP
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

// SearchTitle runs a fielded TITLE query.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	results, err := c.search(ctx, `TITLE:"`+q+`"`, limit)
	if err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(results))
	for _, item := range results {
		papers = append(papers, itemToPaper(item))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI runs a fielded DOI query and maps the first hit.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("article", doi)
	}

	results, err := c.search(ctx, "DOI:"+d, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.NewNotFoundError("article", d)
	}

	paper := itemToPaper(results[0])
	return &paper, nil
}

func (c *Client) search(ctx context.Context, query string, rows int) ([]resultItem, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	params.Set("pageSize", strconv.Itoa(rows))

	var resp searchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return resp.ResultList.Result, nil
}

// itemToPaper maps a Europe PMC result onto the canonical record. pubYear
// arrives as a string; authorString is already display-formatted. Records
// without a DOI link to the europepmc.org viewer instead.
func itemToPaper(item resultItem) domain.Paper {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	doi := domain.CleanDOI(item.DOI)

	pageURL := sources.ResolverURL(doi)
	if pageURL == "" {
		src := strings.TrimSpace(item.Source)
		id := strings.TrimSpace(item.ID)
		if src != "" && id != "" {
			pageURL = viewerBaseURL + "/" + src + "/" + id
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    item.PubYear.Int(),
		DOI:     doi,
		URL:     pageURL,
		Authors: strings.TrimSpace(item.AuthorString),
		Source:  sourceName,
	}
}
