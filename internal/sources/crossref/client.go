// Package crossref queries the Crossref REST API (api.crossref.org).
//
// Crossref is the highest-priority source: its records are journal-article
// filtered and carry DOIs for nearly everything it returns. Providing a
// contact mailto routes requests into the polite pool.
package crossref

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
	// DefaultBaseURL is the default Crossref API base URL.
	DefaultBaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 12 * time.Second

	// sourceName tags every record and error produced by this client.
	sourceName = "crossref"

	// selectFields trims Crossref responses to the fields the engine maps.
	selectFields = "DOI,title,URL,author,issued,is-referenced-by-count"

	// defaultRows is used when the caller passes a non-positive limit.
	defaultRows = 5
)

// Config holds configuration for the Crossref client.
type Config struct {
	// BaseURL is the Crossref API base URL.
	// Defaults to https://api.crossref.org
	BaseURL string

	// Mailto is the contact email for the polite pool. Optional.
	Mailto string

	// Timeout is the request timeout. Defaults to 12 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests. Crossref does
	// not publish a hard limit; zero disables pacing.
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
}

// Client implements the sources.Source interface for Crossref.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

// Ensure Client implements the Source interface.
var _ sources.Source = (*Client)(nil)

// New creates a new Crossref client. The transport is the process-wide
// shared outbound transport; nil falls back to the default.
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

// NewWithHTTPClient creates a new Crossref client with a custom HTTP
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

// SearchTitle queries /works with a journal-article filter and returns
// records in Crossref's relevance order.
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
	params.Set("rows", strconv.Itoa(limit))
	params.Set("filter", "type:journal-article")
	params.Set("select", selectFields)
	c.addMailto(params)

	var resp worksResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/works?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Message.Items))
	for _, item := range resp.Message.Items {
		papers = append(papers, itemToPaper(item))
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI resolves a DOI via the direct /works/{doi} endpoint. Crossref
// expects the DOI verbatim in the path, slashes included.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("paper", doi)
	}

	params := url.Values{}
	params.Set("select", selectFields)
	c.addMailto(params)

	var resp workResponse
	err := c.http.GetJSON(ctx, c.config.BaseURL+"/works/"+d+"?"+params.Encode(), &resp)
	if err != nil {
		if sources.IsNotFoundStatus(err) {
			return nil, domain.NewNotFoundError("paper", d)
		}
		return nil, err
	}

	paper := itemToPaper(resp.Message)
	return &paper, nil
}

func (c *Client) addMailto(params url.Values) {
	if c.config.Mailto != "" {
		params.Set("mailto", c.config.Mailto)
	}
}

// itemToPaper maps a Crossref work onto the canonical record. The year is
// taken from the first populated date of issued, published-online,
// published-print and created, in that order.
func itemToPaper(item workItem) domain.Paper {
	title := ""
	if len(item.Title) > 0 {
		title = strings.TrimSpace(item.Title[0])
	}
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	year := 0
	for _, d := range []dateParts{item.Issued, item.PublishedOnline, item.PublishedPrint, item.Created} {
		if y := d.year(); y != 0 {
			year = y
			break
		}
	}

	doi := domain.CleanDOI(item.DOI)

	pageURL := strings.TrimSpace(item.URL)
	if pageURL == "" {
		pageURL = sources.ResolverURL(doi)
	}

	names := make([]string, 0, len(item.Author))
	for _, a := range item.Author {
		full := strings.TrimSpace(strings.TrimSpace(a.Given) + " " + strings.TrimSpace(a.Family))
		if full != "" {
			names = append(names, full)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    year,
		DOI:     doi,
		URL:     pageURL,
		Authors: sources.FormatAuthors(names, len(item.Author)),
		Source:  sourceName,
		CitedBy: item.IsReferencedByCount,
	}
}
