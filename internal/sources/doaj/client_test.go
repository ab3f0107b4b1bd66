package doaj

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholaris/metadata-aggregator/internal/domain"
)

func newTestClient(serverURL string) *Client {
	return New(Config{
		BaseURL:     serverURL,
		Timeout:     5 * time.Second,
		MinInterval: time.Millisecond,
	}, nil)
}

const sampleHitBody = `{
	"results": [
		{
			"bibjson": {
				"title": "Open Access and Cognitive Therapy Outcomes",
				"year": "2018",
				"identifier": [
					{"type": "pissn", "id": "1234-5678"},
					{"type": "doi", "id": "https://doi.org/10.3390/oa.2018"}
				],
				"author": [{"name": "Ada Example"}],
				"link": [{"url": "https://journal.example.org/article/42"}]
			}
		}
	]
}`

func TestClient_SearchTitle(t *testing.T) {
	t.Run("fielded query embedded in the path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/search/articles/"))
			require.NoError(t, err)
			assert.Equal(t, `bibjson.title:"cognitive therapy"`, query)
			assert.Equal(t, "5", r.URL.Query().Get("pageSize"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleHitBody))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).SearchTitle(context.Background(), "cognitive therapy", 5)
		require.NoError(t, err)
		require.Len(t, papers, 1)

		p := papers[0]
		assert.Equal(t, "Open Access and Cognitive Therapy Outcomes", p.Title)
		assert.Equal(t, 2018, p.Year, "string year is parsed")
		assert.Equal(t, "10.3390/oa.2018", p.DOI)
		assert.Equal(t, "https://journal.example.org/article/42", p.URL, "article link wins over the resolver")
		assert.Equal(t, "Ada Example", p.Authors)
		assert.Equal(t, "doaj", p.Source)
	})

	t.Run("falls back to free text on zero fielded hits", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&calls, 1)
			query, _ := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/search/articles/"))
			w.Header().Set("Content-Type", "application/json")
			if n == 1 {
				assert.True(t, strings.HasPrefix(query, "bibjson.title:"))
				w.Write([]byte(`{"results": []}`))
				return
			}
			assert.Equal(t, "cognitive therapy", query)
			w.Write([]byte(sampleHitBody))
		}))
		defer server.Close()

		papers, err := newTestClient(server.URL).SearchTitle(context.Background(), "cognitive therapy", 5)
		require.NoError(t, err)
		assert.Len(t, papers, 1)
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})
}

func TestClient_LookupDOI(t *testing.T) {
	t.Run("identifier query then not found", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"results": []}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).LookupDOI(context.Background(), "10.9999/gone")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "both passes run before giving up")
	})

	t.Run("first pass hit is returned directly", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(sampleHitBody))
		}))
		defer server.Close()

		paper, err := newTestClient(server.URL).LookupDOI(context.Background(), "10.3390/oa.2018")
		require.NoError(t, err)
		require.NotNil(t, paper)
		assert.Equal(t, "10.3390/oa.2018", paper.DOI)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}
