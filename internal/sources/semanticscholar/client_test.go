package semanticscholar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

func newTestClient(serverURL, apiKey string) *Client {
	return New(Config{
		BaseURL:     serverURL,
		APIKey:      apiKey,
		Timeout:     5 * time.Second,
		MinInterval: time.Millisecond,
	}, nil)
}

func TestConfig_applyDefaults(t *testing.T) {
	t.Run("interval depends on key presence", func(t *testing.T) {
		withKey := Config{APIKey: "secret"}
		withKey.applyDefaults()
		assert.Equal(t, DefaultMinIntervalWithKey, withKey.MinInterval)

		noKey := Config{}
		noKey.applyDefaults()
		assert.Equal(t, DefaultMinIntervalNoKey, noKey.MinInterval)
	})
}

func TestClient_SearchTitle(t *testing.T) {
	t.Run("sends the api key header and maps records", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/paper/search", r.URL.Path)
			assert.Equal(t, "attachment theory", r.URL.Query().Get("query"))
			assert.Equal(t, requestFields, r.URL.Query().Get("fields"))
			assert.Equal(t, "secret", r.Header.Get("x-api-key"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": [
					{
						"title": "Attachment and Loss",
						"year": 1969,
						"url": "https://www.semanticscholar.org/paper/abc",
						"citationCount": 30000,
						"authors": [{"name": "John Bowlby"}],
						"externalIds": {"DOI": "10.5555/attachment"}
					}
				]
			}`))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL, "secret").SearchTitle(context.Background(), "attachment theory", 5)
		require.NoError(t, err)
		require.Len(t, papers, 1)

		p := papers[0]
		assert.Equal(t, "Attachment and Loss", p.Title)
		assert.Equal(t, 1969, p.Year)
		assert.Equal(t, "10.5555/attachment", p.DOI)
		assert.Equal(t, "https://www.semanticscholar.org/paper/abc", p.URL)
		assert.Equal(t, "John Bowlby", p.Authors)
		assert.Equal(t, "semanticscholar", p.Source)
		require.NotNil(t, p.CitedBy)
		assert.Equal(t, 30000, *p.CitedBy)
	})

	t.Run("blank title short-circuits", func(t *testing.T) {
		papers, err := newTestClient("http://127.0.0.1:0", "").SearchTitle(context.Background(), " ", 5)
		require.NoError(t, err)
		assert.Empty(t, papers)
	})
}

func TestClient_LookupDOI(t *testing.T) {
	t.Run("uses the DOI external-id path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/paper/DOI:10.5555/attachment", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"title": "Attachment and Loss",
				"year": 1969,
				"externalIds": {"DOI": "10.5555/attachment"}
			}`))
		}))
		defer server.Close()

		paper, err := newTestClient(server.URL, "").LookupDOI(context.Background(), "10.5555/attachment")
		require.NoError(t, err)
		require.NotNil(t, paper)
		assert.Equal(t, "Attachment and Loss", paper.Title)
		assert.Equal(t, "https://doi.org/10.5555/attachment", paper.URL)
	})

	t.Run("titleless body maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, "").LookupDOI(context.Background(), "10.9999/gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Paper not found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL, "").LookupDOI(context.Background(), "10.9999/gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
