package openalex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return New(Config{
		BaseURL:     serverURL,
		Mailto:      "test@example.com",
		Timeout:     5 * time.Second,
		MinInterval: time.Millisecond,
	}, nil)
}

func TestClient_SearchTitle(t *testing.T) {
	t.Run("maps works to papers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/works", r.URL.Path)
			assert.Equal(t, "growth mindset", r.URL.Query().Get("search"))
			assert.Equal(t, "3", r.URL.Query().Get("per-page"))
			assert.Equal(t, "test@example.com", r.URL.Query().Get("mailto"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"results": [
					{
						"id": "https://openalex.org/W2115158200",
						"title": "Mindset: The New Psychology of Success",
						"doi": "https://doi.org/10.1234/mindset",
						"publication_year": 2006,
						"cited_by_count": 11000,
						"authorships": [
							{"author": {"display_name": "Carol S. Dweck"}}
						],
						"primary_location": {"landing_page_url": "https://example.org/mindset"}
					},
					{
						"id": "https://openalex.org/W999",
						"title": "",
						"doi": "",
						"authorships": []
					}
				]
			}`))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).SearchTitle(context.Background(), "growth mindset", 3)
		require.NoError(t, err)
		require.Len(t, papers, 2)

		first := papers[0]
		assert.Equal(t, "Mindset: The New Psychology of Success", first.Title)
		assert.Equal(t, 2006, first.Year)
		assert.Equal(t, "10.1234/mindset", first.DOI, "resolver prefix is stripped")
		assert.Equal(t, "https://example.org/mindset", first.URL)
		assert.Equal(t, "Carol S. Dweck", first.Authors)
		assert.Equal(t, "openalex", first.Source)
		require.NotNil(t, first.CitedBy)
		assert.Equal(t, 11000, *first.CitedBy)

		second := papers[1]
		assert.Equal(t, domain.UntitledPlaceholder, second.Title)
		assert.Nil(t, second.CitedBy)
	})

	t.Run("blank title short-circuits", func(t *testing.T) {
		papers, err := newTestClient("http://127.0.0.1:0").SearchTitle(context.Background(), "", 5)
		require.NoError(t, err)
		assert.Empty(t, papers)
	})
}

func TestClient_LookupDOI(t *testing.T) {
	t.Run("encodes the external id as one path segment", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The resolver URL must arrive percent-encoded, not as
			// nested path segments.
			assert.True(t, strings.HasPrefix(r.URL.EscapedPath(), "/works/https:%2F%2Fdoi.org%2F10.1234%2Fmindset"),
				"got path %q", r.URL.EscapedPath())
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": "https://openalex.org/W2115158200",
				"title": "Mindset: The New Psychology of Success",
				"doi": "https://doi.org/10.1234/mindset",
				"publication_year": 2006,
				"cited_by_count": 11000,
				"authorships": [{"author": {"display_name": "Carol S. Dweck"}}]
			}`))
		}))
		defer server.Close()

		paper, err := newTestClient(server.URL).LookupDOI(context.Background(), "doi:10.1234/mindset")
		require.NoError(t, err)
		require.NotNil(t, paper)
		assert.Equal(t, "10.1234/mindset", paper.DOI)
		assert.Equal(t, "https://doi.org/10.1234/mindset", paper.URL, "falls back to the resolver URL")
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"404"}`, http.StatusNotFound)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).LookupDOI(context.Background(), "10.9999/missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty body maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).LookupDOI(context.Background(), "10.9999/empty")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
