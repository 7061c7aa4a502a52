// Package content fetches article pages, extracts readable text from them and detects
// the language of the extracted text.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// maxPageSize limits the body read from a single page
const maxPageSize = 10 << 20

// Fetcher downloads pages with browser-like headers
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher makes a Fetcher with the given request timeout and user agent
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; MinePenge/1.0)"
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}, userAgent: userAgent}
}

// Fetch retrieves the body of the page at urlStr, non-200 responses are errors.
// HTML in legacy charsets like iso-8859-1 is decoded to utf-8.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %s", urlStr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	addBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, urlStr)
	}

	// html pages are converted to utf-8, other content is returned as is
	var r io.Reader = io.LimitReader(resp.Body, maxPageSize)
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "html") {
		if r, err = charset.NewReader(r, ct); err != nil {
			return nil, fmt.Errorf("decode body of %s: %w", urlStr, err)
		}
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", urlStr, err)
	}
	return body, nil
}
