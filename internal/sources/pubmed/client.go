// Package pubmed queries NCBI PubMed through the E-utilities API.
//
// Every operation is two-step: esearch resolves the query to a list of
// PMIDs, then esummary fetches the summary objects in one batch. The
// batch runs even for a single id because esearch returns no metadata at
// all. NCBI etiquette parameters (tool, email, api_key) ride on every
// request, and an api_key raises the permitted request rate.
package pubmed

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/scholaris/metadata-aggregator/internal/domain"
	"github.com/scholaris/metadata-aggregator/internal/sources"
)

const (
	// DefaultBaseURL is the default E-utilities base URL.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

	// DefaultTool is the default tool name reported to NCBI.
	DefaultTool = "scholaris-metadata-aggregator"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 16 * time.Second

	// DefaultMinIntervalWithKey is the request spacing with an api_key
	// (NCBI permits 10 req/s).
	DefaultMinIntervalWithKey = 120 * time.Millisecond

	// DefaultMinIntervalNoKey is the request spacing without a key
	// (NCBI permits 3 req/s).
	DefaultMinIntervalNoKey = 340 * time.Millisecond

	sourceName = "pubmed"

	defaultRows = 5
)

// pubYearRe picks a plausible year out of free-form pubdate strings like
// "2003 Nov-Dec" or "2021 Jan 15".
var pubYearRe = regexp.MustCompile(`(19\d{2}|20\d{2})`)

// Config holds configuration for the PubMed client.
type Config struct {
	// BaseURL is the E-utilities base URL.
	// Defaults to https://eutils.ncbi.nlm.nih.gov/entrez/eutils
	BaseURL string

	// APIKey is the optional NCBI API key, sent as the api_key parameter.
	APIKey string

	// Tool identifies the calling application to NCBI.
	Tool string

	// Email is the contact address NCBI asks heavy users to provide.
	Email string

	// Timeout is the request timeout. Defaults to 16 seconds.
	Timeout time.Duration

	// MinInterval is the minimum spacing between requests. Defaults to
	// 120ms with an API key, 340ms without.
	MinInterval time.Duration

	// UserAgent overrides the default client identifier.
	UserAgent string
}

// applyDefaults sets default values for unset configuration fields.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Tool == "" {
		c.Tool = DefaultTool
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

// Client implements the sources.Source interface for PubMed.
type Client struct {
	config Config
	http   *sources.HTTPClient
}

var _ sources.Source = (*Client)(nil)

// New creates a new PubMed client sharing the given outbound transport.
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

// NewWithHTTPClient creates a new PubMed client with a custom HTTP helper.
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

// SearchTitle runs a title-fielded esearch followed by an esummary batch.
func (c *Client) SearchTitle(ctx context.Context, title string, limit int) ([]domain.Paper, error) {
	q := strings.TrimSpace(title)
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultRows
	}

	pmids, err := c.esearch(ctx, q+"[ti]", limit)
	if err != nil {
		return nil, err
	}

	papers, err := c.esummary(ctx, pmids)
	if err != nil {
		return nil, err
	}
	if len(papers) > limit {
		papers = papers[:limit]
	}
	return papers, nil
}

// LookupDOI resolves a DOI through the [AID] (article identifier) field.
func (c *Client) LookupDOI(ctx context.Context, doi string) (*domain.Paper, error) {
	d := domain.CleanDOI(doi)
	if d == "" {
		return nil, domain.NewNotFoundError("article", doi)
	}

	pmids, err := c.esearch(ctx, d+"[AID]", 1)
	if err != nil {
		return nil, err
	}

	papers, err := c.esummary(ctx, pmids)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, domain.NewNotFoundError("article", d)
	}
	return &papers[0], nil
}

// esearch resolves a term to relevance-sorted PMIDs.
func (c *Client) esearch(ctx context.Context, term string, rows int) ([]string, error) {
	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("term", term)
	params.Set("retmode", "json")
	params.Set("retmax", strconv.Itoa(rows))
	params.Set("sort", "relevance")

	var resp esearchResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/esearch.fcgi?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	pmids := make([]string, 0, len(resp.ESearchResult.IDList))
	for _, id := range resp.ESearchResult.IDList {
		if id = strings.TrimSpace(id); id != "" {
			pmids = append(pmids, id)
		}
	}
	return pmids, nil
}

// esummary fetches summary objects for the given PMIDs in one batch and
// maps them in uids order.
func (c *Client) esummary(ctx context.Context, pmids []string) ([]domain.Paper, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	params := c.baseParams()
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "json")

	var resp esummaryResponse
	if err := c.http.GetJSON(ctx, c.config.BaseURL+"/esummary.fcgi?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(resp.Result.UIDs))
	for _, uid := range resp.Result.UIDs {
		doc, ok := resp.Result.Docs[uid]
		if !ok {
			continue
		}
		papers = append(papers, docToPaper(uid, doc))
	}
	return papers, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("tool", c.config.Tool)
	if c.config.Email != "" {
		params.Set("email", c.config.Email)
	}
	if c.config.APIKey != "" {
		params.Set("api_key", c.config.APIKey)
	}
	return params
}

// docToPaper maps an esummary record onto the canonical record. The DOI is
// dug out of the articleids list; the URL always points at the PubMed
// abstract page for the PMID.
func docToPaper(uid string, doc summaryDoc) domain.Paper {
	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = domain.UntitledPlaceholder
	}

	year := 0
	if m := pubYearRe.FindString(doc.PubDate); m != "" {
		year, _ = strconv.Atoi(m)
	}

	doi := ""
	for _, aid := range doc.ArticleIDs {
		if strings.EqualFold(strings.TrimSpace(aid.IDType), "doi") && strings.TrimSpace(aid.Value) != "" {
			doi = domain.CleanDOI(aid.Value)
			break
		}
	}

	names := make([]string, 0, len(doc.Authors))
	for _, a := range doc.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}

	return domain.Paper{
		Title:   title,
		Year:    year,
		DOI:     doi,
		URL:     "https://pubmed.ncbi.nlm.nih.gov/" + uid + "/",
		Authors: sources.FormatAuthors(names, len(doc.Authors)),
		Source:  sourceName,
	}
}
