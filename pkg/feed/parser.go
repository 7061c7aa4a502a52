// Package feed discovers article links in RSS/Atom feeds and sitemaps, and renders the
// dataset back out as RSS and OPML.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Fetcher downloads raw documents
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// Entry is a single feed item pointing to an article
type Entry struct {
	Title     string
	Link      string
	Summary   string // plain text
	Published *time.Time
}

// Parser reads RSS/Atom feeds
type Parser struct {
	fetcher Fetcher
	policy  *bluemonday.Policy
}

// NewParser makes a Parser downloading feeds with fetcher
func NewParser(fetcher Fetcher) *Parser {
	return &Parser{fetcher: fetcher, policy: bluemonday.StrictPolicy()}
}

// Parse fetches and parses the feed at url
func (p *Parser) Parse(ctx context.Context, url string) ([]Entry, error) {
	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return p.ParseBytes(body)
}

// ParseBytes parses feed content, items without a link are skipped
func (p *Parser) ParseBytes(body []byte) ([]Entry, error) {
	f, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	res := make([]Entry, 0, len(f.Items))
	for _, item := range f.Items {
		if item.Link == "" {
			continue
		}
		e := Entry{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: p.plainText(item.Description),
		}
		if e.Summary == "" {
			e.Summary = p.plainText(item.Content)
		}

		switch {
		case item.PublishedParsed != nil:
			e.Published = item.PublishedParsed
		case item.UpdatedParsed != nil:
			e.Published = item.UpdatedParsed
		}
		res = append(res, e)
	}
	return res, nil
}

// plainText strips markup from feed html and collapses whitespace
func (p *Parser) plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(p.policy.Sanitize(s))), " ")
}
