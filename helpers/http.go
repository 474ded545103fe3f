package helpers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	apperrors "wgwatcher/pkg/errors"
)

// acceptLanguage prefers the target site's language with an English fallback
const acceptLanguage = "de,en;q=0.9"

// PageFetcher sends GET requests with a fixed user agent and timeout
type PageFetcher struct {
	client    *http.Client
	userAgent string
}

// NewPageFetcher creates a fetcher with the given timeout and user agent
func NewPageFetcher(timeout time.Duration, userAgent string) *PageFetcher {
	return &PageFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch sends an HTTP GET request, converts the response body to UTF-8
// (if needed), and returns it as a string.
func (f *PageFetcher) Fetch(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", apperrors.NewFetch(url, "failed to create request", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", apperrors.NewFetch(url, "failed to fetch URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewFetch(url, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewFetch(url, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))

	// If already UTF-8, return as is
	if name == "utf-8" || name == "UTF-8" {
		return string(bodyBytes), nil
	}

	// Convert to UTF-8 if necessary
	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return "", apperrors.NewFetch(url, "failed to read converted UTF-8 body", err)
	}

	return buf.String(), nil
}
