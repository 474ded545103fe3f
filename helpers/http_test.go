package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "wgwatcher/pkg/errors"
)

func TestPageFetcher(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that headers are set
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "de,en;q=0.9", r.Header.Get("Accept-Language"))

		// Send a response
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Hallo, Welt!</body></html>"))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, "test-agent/1.0")
	body, err := fetcher.Fetch(server.URL)
	assert.NoError(t, err)
	assert.Contains(t, body, "Hallo, Welt!")
}

func TestPageFetcherNonUTF8(t *testing.T) {
	// Create a test server that returns a non-UTF8 response
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "Größe" in ISO-8859-1 encoding
		w.Write([]byte("<html><body>Gr\xf6\xdfe</body></html>"))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, "test-agent/1.0")
	body, err := fetcher.Fetch(server.URL)
	assert.NoError(t, err)
	assert.Contains(t, body, "Größe")
}

func TestPageFetcherError(t *testing.T) {
	// Create a test server that returns an error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5*time.Second, "test-agent/1.0")
	_, err := fetcher.Fetch(server.URL)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
}

func TestPageFetcherInvalidURL(t *testing.T) {
	fetcher := NewPageFetcher(5*time.Second, "test-agent/1.0")
	_, err := fetcher.Fetch("http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeFetch))
}
