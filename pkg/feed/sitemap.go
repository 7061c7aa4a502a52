package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
)

// maxSitemapDepth limits how far nested sitemap indexes are followed
const maxSitemapDepth = 2

// SitemapReader lists page urls from sitemap.xml files
type SitemapReader struct {
	fetcher Fetcher
}

// NewSitemapReader makes a SitemapReader downloading sitemaps with fetcher
func NewSitemapReader(fetcher Fetcher) *SitemapReader {
	return &SitemapReader{fetcher: fetcher}
}

// URLs returns all page urls of the sitemap at url, sitemap indexes are expanded
func (s *SitemapReader) URLs(ctx context.Context, url string) ([]string, error) {
	return s.read(ctx, url, 0)
}

func (s *SitemapReader) read(ctx context.Context, url string, depth int) ([]string, error) {
	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap: %w", err)
	}
	pages, children, err := ParseSitemap(body)
	if err != nil {
		return nil, err
	}

	if depth >= maxSitemapDepth {
		return pages, nil
	}
	for _, child := range children {
		if ctx.Err() != nil {
			return pages, ctx.Err()
		}
		sub, err := s.read(ctx, child, depth+1)
		if err != nil {
			lgr.Printf("[WARN] skip sitemap %s, %v", child, err)
			continue
		}
		pages = append(pages, sub...)
	}
	return pages, nil
}

// ParseSitemap returns page urls and nested sitemap urls of a sitemap document
func ParseSitemap(body []byte) (pages, sitemaps []string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse sitemap: %w", err)
	}
	doc.Find("sitemap > loc").Each(func(_ int, sel *goquery.Selection) {
		if loc := strings.TrimSpace(sel.Text()); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	})
	doc.Find("url > loc").Each(func(_ int, sel *goquery.Selection) {
		if loc := strings.TrimSpace(sel.Text()); loc != "" {
			pages = append(pages, loc)
		}
	})
	return pages, sitemaps, nil
}
