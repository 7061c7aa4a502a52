// Package source discovers article urls of a configured site. One Adapter serves every site, the
// differences between sites live in config.SourceConfig.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/feed"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/feed_reader.go -pkg mocks -skip-ensure -fmt goimports . FeedReader
//go:generate moq -out mocks/sitemap_lister.go -pkg mocks -skip-ensure -fmt goimports . SitemapLister

// Fetcher downloads seed pages
type Fetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// FeedReader lists entries of an RSS or Atom feed
type FeedReader interface {
	Parse(ctx context.Context, url string) ([]feed.Entry, error)
}

// SitemapLister lists page urls of a sitemap
type SitemapLister interface {
	URLs(ctx context.Context, url string) ([]string, error)
}

// Link is a discovered article url with hints from the listing it came from
type Link struct {
	URL       string
	Title     string
	Summary   string
	Published *time.Time
}

// Params for NewAdapter
type Params struct {
	Fetcher       Fetcher
	Feeds         FeedReader
	Sitemaps      SitemapLister
	RetryAttempts int
	RetryDelay    time.Duration
}

// Adapter finds article links of one site from known urls, feeds, sitemaps and seed pages
type Adapter struct {
	cfg     config.SourceConfig
	base    *url.URL
	baseStr string
	params  Params
}

// dated paths like /2025/, /2025-06-01/ or /01-06-2025/
var datePattern = regexp.MustCompile(`/(20\d{2}|\d{4}-\d{2}-\d{2}|\d{2}-\d{2}-\d{4})/`)

// NewAdapter makes an Adapter for the site described by cfg
func NewAdapter(cfg config.SourceConfig, p Params) (*Adapter, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url of %s: %w", cfg.Name, err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url %q of %s has no host", cfg.BaseURL, cfg.Name)
	}
	if p.RetryAttempts <= 0 {
		p.RetryAttempts = 3
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = time.Second
	}
	if cfg.MaxLinksPerSeed <= 0 {
		cfg.MaxLinksPerSeed = 10
	}
	return &Adapter{cfg: cfg, base: base, baseStr: base.String(), params: p}, nil
}

// Name returns the source name stored on articles
func (a *Adapter) Name() string { return a.cfg.Name }

// Config returns the source configuration
func (a *Adapter) Config() config.SourceConfig { return a.cfg }

// Discover collects article links. Known urls come first, then feeds, sitemaps and seed pages.
// A failing channel is logged and skipped, the error is returned only if nothing was found.
func (a *Adapter) Discover(ctx context.Context) ([]Link, error) {
	seen := map[string]bool{}
	var links []Link
	var errs []error

	add := func(l Link) bool {
		if seen[l.URL] {
			return false
		}
		seen[l.URL] = true
		links = append(links, l)
		return true
	}

	for _, u := range a.cfg.KnownURLs {
		add(Link{URL: u})
	}

	if a.params.Feeds != nil {
		for _, f := range a.cfg.Feeds {
			entries, err := a.params.Feeds.Parse(ctx, f)
			if err != nil {
				lgr.Printf("[WARN] %s: feed %s failed, %v", a.cfg.Name, f, err)
				errs = append(errs, err)
				continue
			}
			taken := 0
			for _, e := range entries {
				if taken >= a.cfg.MaxLinksPerSeed {
					break
				}
				u, ok := a.resolve(e.Link)
				if !ok {
					continue
				}
				if add(Link{URL: u, Title: e.Title, Summary: e.Summary, Published: e.Published}) {
					taken++
				}
			}
		}
	}

	if a.params.Sitemaps != nil {
		for _, sm := range a.cfg.Sitemaps {
			urls, err := a.params.Sitemaps.URLs(ctx, sm)
			if err != nil {
				lgr.Printf("[WARN] %s: sitemap %s failed, %v", a.cfg.Name, sm, err)
				errs = append(errs, err)
				continue
			}
			taken := 0
			for _, raw := range urls {
				if taken >= a.cfg.MaxLinksPerSeed {
					break
				}
				u, ok := a.resolve(raw)
				if !ok || !a.LooksLikeArticle(u) {
					continue
				}
				if add(Link{URL: u}) {
					taken++
				}
			}
		}
	}

	for _, seed := range a.cfg.SeedPages {
		if ctx.Err() != nil {
			return links, ctx.Err()
		}
		body, err := a.fetchSeed(ctx, seed)
		if err != nil {
			lgr.Printf("[WARN] %s: seed page %s failed, %v", a.cfg.Name, seed, err)
			errs = append(errs, err)
			continue
		}
		taken := 0
		for _, u := range a.ExtractLinks(body) {
			if taken >= a.cfg.MaxLinksPerSeed {
				break
			}
			if add(Link{URL: u}) {
				taken++
			}
		}
		lgr.Printf("[DEBUG] %s: %d links from %s", a.cfg.Name, taken, seed)
	}

	if len(links) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("discover %s: %w", a.cfg.Name, errors.Join(errs...))
	}
	return links, nil
}

func (a *Adapter) fetchSeed(ctx context.Context, seed string) ([]byte, error) {
	var body []byte
	retrier := repeater.NewBackoff(a.params.RetryAttempts, a.params.RetryDelay, repeater.WithMaxDelay(8*time.Second))
	err := retrier.Do(ctx, func() error {
		b, err := a.params.Fetcher.Fetch(ctx, seed)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch seed page: %w", err)
	}
	return body, nil
}

// ExtractLinks returns article links of a listing page in document order. Elements matched by the
// link selectors are used first, either being a link or holding links. If they give nothing, every
// anchor matching an article pattern is taken.
func (a *Adapter) ExtractLinks(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		lgr.Printf("[WARN] %s: can't parse page, %v", a.cfg.Name, err)
		return nil
	}

	seen := map[string]bool{}
	var res []string
	collect := func(href string, accept func(string) bool) {
		u, ok := a.resolve(href)
		if !ok || seen[u] || !accept(u) {
			return
		}
		seen[u] = true
		res = append(res, u)
	}

	for _, selector := range a.cfg.LinkSelectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			sel.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
				collect(link.AttrOr("href", ""), a.LooksLikeArticle)
			})
			if goquery.NodeName(sel) == "a" {
				collect(sel.AttrOr("href", ""), a.LooksLikeArticle)
			}
		})
	}

	if len(res) == 0 {
		doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
			collect(link.AttrOr("href", ""), a.matchesArticlePattern)
		})
	}
	return res
}

// LooksLikeArticle reports whether u is likely an article page. Article patterns and dated paths
// are accepted. Other long enough urls on the site are accepted unless they match an exclude pattern.
func (a *Adapter) LooksLikeArticle(u string) bool {
	if a.matchesArticlePattern(u) {
		return true
	}
	pu, err := url.Parse(u)
	if err != nil || !strings.EqualFold(pu.Host, a.base.Host) || len(u) <= len(a.baseStr)+10 {
		return false
	}
	lower := strings.ToLower(u)
	for _, p := range a.cfg.ExcludePatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return false
		}
	}
	return true
}

func (a *Adapter) matchesArticlePattern(u string) bool {
	lower := strings.ToLower(u)
	for _, p := range a.cfg.ArticlePatterns {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return datePattern.MatchString(lower)
}

// resolve makes href absolute against the base url, drops the fragment and collapses duplicate slashes
func (a *Adapter) resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "tel:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := a.base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return "", false
	}
	u.Fragment = ""
	for strings.Contains(u.Path, "//") {
		u.Path = strings.ReplaceAll(u.Path, "//", "/")
	}
	return u.String(), true
}
