package osf

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

func newTestClient(serverURL string) *Client {
	return New(Config{
		BaseURL:     serverURL,
		Provider:    "psyarxiv",
		Timeout:     5 * time.Second,
		MinInterval: time.Millisecond,
	}, nil)
}

func TestClient_SearchTitle(t *testing.T) {
	t.Run("filters by provider and title", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/preprints/", r.URL.Path)
			assert.Equal(t, "psyarxiv", r.URL.Query().Get("filter[provider]"))
			assert.Equal(t, "implicit bias", r.URL.Query().Get("filter[title]"))
			assert.Equal(t, "5", r.URL.Query().Get("page[size]"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": [
					{
						"attributes": {
							"title": "Implicit Bias in Hiring Decisions",
							"doi": "10.31234/osf.io/abcde",
							"date_published": "2021-03-15T09:00:00.000000Z"
						},
						"links": {"html": "https://osf.io/preprints/psyarxiv/abcde"}
					}
				]
			}`))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).SearchTitle(context.Background(), "implicit bias", 5)
		require.NoError(t, err)
		require.Len(t, papers, 1)

		p := papers[0]
		assert.Equal(t, "Implicit Bias in Hiring Decisions", p.Title)
		assert.Equal(t, 2021, p.Year)
		assert.Equal(t, "10.31234/osf.io/abcde", p.DOI)
		assert.Equal(t, "https://osf.io/preprints/psyarxiv/abcde", p.URL)
		assert.Empty(t, p.Authors, "OSF listings carry no author names")
		assert.Equal(t, "osf", p.Source)
	})

	t.Run("blank title short-circuits", func(t *testing.T) {
		papers, err := newTestClient("http://127.0.0.1:0").SearchTitle(context.Background(), "  ", 5)
		require.NoError(t, err)
		assert.Empty(t, papers)
	})
}

func TestClient_LookupDOI(t *testing.T) {
	t.Run("filters by DOI", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10.31234/osf.io/abcde", r.URL.Query().Get("filter[doi]"))
			assert.Equal(t, "1", r.URL.Query().Get("page[size]"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"data": [
					{
						"attributes": {
							"title": "Implicit Bias in Hiring Decisions",
							"doi": "10.31234/osf.io/abcde",
							"date_created": "2020-12-01"
						},
						"links": {}
					}
				]
			}`))
		}))
		defer server.Close()

		paper, err := newTestClient(server.URL).LookupDOI(context.Background(), "doi:10.31234/osf.io/abcde")
		require.NoError(t, err)
		require.NotNil(t, paper)
		assert.Equal(t, 2020, paper.Year, "falls back through the date chain")
		assert.Equal(t, "https://doi.org/10.31234/osf.io/abcde", paper.URL)
	})

	t.Run("empty listing maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).LookupDOI(context.Background(), "10.9999/gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
