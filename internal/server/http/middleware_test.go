package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_EchoesCallerID(t *testing.T) {
	s := NewServer(Config{DefaultLimit: 5, MaxLimit: 50}, &fakeAggregator{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	s := NewServer(Config{DefaultLimit: 5, MaxLimit: 50}, &fakeAggregator{}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestJSONContentType(t *testing.T) {
	s := NewServer(Config{DefaultLimit: 5, MaxLimit: 50}, &fakeAggregator{}, zerolog.Nop())

	rec := doRequest(t, s, "/api/v1/search?q=anything")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
