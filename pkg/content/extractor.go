package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
)

//go:generate moq -out mocks/page_fetcher.go -pkg mocks -skip-ensure -fmt goimports . PageFetcher

// ErrNoContent is returned when neither extractor finds article text
var ErrNoContent = errors.New("no content extracted")

// PageFetcher downloads raw pages
type PageFetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// Page is the readable part of an article page
type Page struct {
	URL         string
	Title       string
	Text        string
	Description string
	Published   *time.Time
}

// Extractor gets article text from pages, trafilatura first and readability when it yields too little
type Extractor struct {
	fetcher   PageFetcher
	minLength int
}

// NewExtractor makes an Extractor, text shorter than minLength runes triggers the fallback extractor
func NewExtractor(fetcher PageFetcher, minLength int) *Extractor {
	return &Extractor{fetcher: fetcher, minLength: minLength}
}

// Extract fetches the page at urlStr and extracts its content
func (e *Extractor) Extract(ctx context.Context, urlStr string) (Page, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return Page{}, fmt.Errorf("parse URL: %w", err)
	}
	body, err := e.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return Page{}, err
	}
	return e.Parse(body, parsedURL)
}

// Parse extracts content from an already fetched page
func (e *Extractor) Parse(body []byte, pageURL *url.URL) (Page, error) {
	page := Page{URL: pageURL.String()}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   false,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     pageURL,
	}
	if result, err := trafilatura.Extract(bytes.NewReader(body), opts); err == nil && result != nil {
		page.Text = strings.TrimSpace(result.ContentText)
		page.Title = strings.TrimSpace(result.Metadata.Title)
		page.Description = strings.TrimSpace(result.Metadata.Description)
		if !result.Metadata.Date.IsZero() {
			published := result.Metadata.Date
			page.Published = &published
		}
	}

	if utf8.RuneCountInString(page.Text) < e.minLength || page.Title == "" {
		e.fallback(body, pageURL, &page)
	}

	if page.Text == "" {
		return Page{}, fmt.Errorf("%w from %s", ErrNoContent, pageURL)
	}
	return page, nil
}

// fallback fills gaps left by trafilatura with go-readability output
func (e *Extractor) fallback(body []byte, pageURL *url.URL, page *Page) {
	rp := readability.NewParser()
	article, err := rp.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		return
	}
	if text := strings.TrimSpace(article.TextContent); utf8.RuneCountInString(text) > utf8.RuneCountInString(page.Text) {
		page.Text = text
	}
	if page.Title == "" {
		page.Title = strings.TrimSpace(article.Title)
	}
	if page.Description == "" {
		page.Description = strings.TrimSpace(article.Excerpt)
	}
	if page.Published == nil && article.PublishedTime != nil {
		page.Published = article.PublishedTime
	}
}
