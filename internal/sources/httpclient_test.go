package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

func newTestHTTPClient(sourceName string, timeout time.Duration) *HTTPClient {
	return NewHTTPClient(HTTPClientConfig{
		SourceName: sourceName,
		Timeout:    timeout,
		UserAgent:  "TestClient/1.0",
	})
}

func TestHTTPClient_GetJSON(t *testing.T) {
	t.Run("decodes successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "TestClient/1.0", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"title":"A Paper","year":2020}`))
		}))
		defer server.Close()

		client := newTestHTTPClient("testsource", 5*time.Second)

		var out struct {
			Title string `json:"title"`
			Year  int    `json:"year"`
		}
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.NoError(t, err)
		assert.Equal(t, "A Paper", out.Title)
		assert.Equal(t, 2020, out.Year)
	})

	t.Run("sends API key header when configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret", r.Header.Get("x-api-key"))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewHTTPClient(HTTPClientConfig{
			SourceName:   "testsource",
			APIKey:       "secret",
			APIKeyHeader: "x-api-key",
		})

		var out map[string]interface{}
		require.NoError(t, client.GetJSON(context.Background(), server.URL, &out))
	})

	t.Run("non-2xx status becomes SourceError with truncated body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			for i := 0; i < 100; i++ {
				w.Write([]byte("upstream exploded "))
			}
		}))
		defer server.Close()

		client := newTestHTTPClient("testsource", 5*time.Second)

		var out map[string]interface{}
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.Error(t, err)

		var srcErr *domain.SourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, "testsource", srcErr.Source)
		assert.Equal(t, http.StatusBadGateway, srcErr.StatusCode)
		assert.LessOrEqual(t, len(srcErr.Message), maxErrorBody)
	})

	t.Run("timeout becomes SourceError with timeout diagnostic", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := newTestHTTPClient("testsource", 20*time.Millisecond)

		var out map[string]interface{}
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.Error(t, err)

		var srcErr *domain.SourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, "timeout", srcErr.Message)
		assert.Zero(t, srcErr.StatusCode)
	})

	t.Run("connection failure becomes SourceError with network diagnostic", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // refuse connections

		client := newTestHTTPClient("testsource", 5*time.Second)

		var out map[string]interface{}
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.Error(t, err)

		var srcErr *domain.SourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, "network error", srcErr.Message)
	})

	t.Run("malformed top-level JSON becomes SourceError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		}))
		defer server.Close()

		client := newTestHTTPClient("testsource", 5*time.Second)

		var out map[string]interface{}
		err := client.GetJSON(context.Background(), server.URL, &out)
		require.Error(t, err)

		var srcErr *domain.SourceError
		require.ErrorAs(t, err, &srcErr)
		assert.Equal(t, "malformed response", srcErr.Message)
	})

	t.Run("caller cancellation is not a SourceError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		client := newTestHTTPClient("testsource", 5*time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out map[string]interface{}
		err := client.GetJSON(ctx, server.URL, &out)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		var srcErr *domain.SourceError
		assert.False(t, errors.As(err, &srcErr))
	})
}
