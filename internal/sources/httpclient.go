package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

const (
	// maxErrorBody bounds how much of an error response body is kept for
	// the SourceError diagnostic.
	maxErrorBody = 512

	// maxResponseBody bounds decoded response bodies to prevent resource
	// exhaustion from a misbehaving source.
	maxResponseBody = 10 << 20

	// defaultUserAgent identifies the service when no override is set.
	defaultUserAgent = "Scholaris-MetadataAggregator/1.0"
)

// HTTPClientConfig configures the shared per-source HTTP helper.
type HTTPClientConfig struct {
	// SourceName is the adapter tag carried by every SourceError.
	SourceName string

	// Timeout is the per-request timeout for this source.
	Timeout time.Duration

	// MinInterval is the minimum spacing between successive requests to
	// this source. Zero disables pacing.
	MinInterval time.Duration

	// UserAgent is the client identifier sent with every request.
	UserAgent string

	// APIKey is an optional credential for the source.
	APIKey string

	// APIKeyHeader is the header name the credential is sent in
	// (e.g. "x-api-key", "Authorization"). Ignored when APIKey is empty.
	APIKeyHeader string

	// Transport is the process-wide shared outbound transport. Nil falls
	// back to http.DefaultTransport.
	Transport http.RoundTripper
}

// HTTPClient wraps http.Client with per-source rate limiting, timeout
// bounding and error classification. Every adapter holds one; all of them
// share a single underlying transport. It is safe for concurrent use.
//
// The engine performs no retries: one failed attempt per source per call
// is final.
type HTTPClient struct {
	client  *http.Client
	limiter *RateLimiter
	config  HTTPClientConfig
}

// NewHTTPClient creates a new HTTP helper for one source.
func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: cfg.Transport,
			Timeout:   cfg.Timeout,
		},
		limiter: NewRateLimiter(cfg.MinInterval),
		config:  cfg,
	}
}

// GetJSON issues a rate-limited GET against rawURL and decodes the JSON
// response into out. Any non-2xx status, transport failure or unparseable
// top-level body is returned as a *domain.SourceError carrying the source
// name and a short diagnostic; raw transport and parsing errors never
// escape as-is.
func (c *HTTPClient) GetJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" && c.config.APIKeyHeader != "" {
		req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.NewSourceError(c.config.SourceName, resp.StatusCode, strings.TrimSpace(string(body)), nil)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return domain.NewSourceError(c.config.SourceName, 0, "malformed response", err)
	}
	return nil
}

// IsNotFoundStatus reports whether err is a SourceError carrying an HTTP
// 404 status. Adapters use it to turn a missing-record status into
// domain.ErrNotFound instead of a source failure.
func IsNotFoundStatus(err error) bool {
	var srcErr *domain.SourceError
	return errors.As(err, &srcErr) && srcErr.StatusCode == http.StatusNotFound
}

// classifyTransportError maps a transport-level failure onto a SourceError
// with a "timeout" or "network error" diagnostic. Context cancellation from
// the caller is passed through untouched so it is not mistaken for a source
// fault.
func (c *HTTPClient) classifyTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return domain.NewSourceError(c.config.SourceName, 0, "timeout", err)
	}
	return domain.NewSourceError(c.config.SourceName, 0, "network error", err)
}
