package scheduler

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/content"
	"github.com/minepenge/minepenge/pkg/feed"
	"github.com/minepenge/minepenge/pkg/source"
)

// pageFetcher is the http client used for one site
type pageFetcher interface {
	Fetch(ctx context.Context, urlStr string) ([]byte, error)
}

// limitedFetcher waits for the site limiter before every request
type limitedFetcher struct {
	fetcher pageFetcher
	limiter *rate.Limiter
}

func (l *limitedFetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit %s: %w", urlStr, err)
	}
	return l.fetcher.Fetch(ctx, urlStr)
}

// NewSources makes a Source for every enabled site. All requests to one site, seed pages, feeds,
// sitemaps and articles, share one rate limiter.
func NewSources(sources []config.SourceConfig, hc config.HarvestConfig) ([]Source, error) {
	res := make([]Source, 0, len(sources))
	for _, sc := range sources {
		if !sc.IsEnabled() {
			continue
		}
		lf := &limitedFetcher{
			fetcher: content.NewFetcher(hc.Timeout, hc.UserAgent),
			limiter: rate.NewLimiter(rate.Every(hc.RateLimit), 1),
		}
		adapter, err := source.NewAdapter(sc, source.Params{
			Fetcher:       lf,
			Feeds:         feed.NewParser(lf),
			Sitemaps:      feed.NewSitemapReader(lf),
			RetryAttempts: hc.RetryAttempts,
			RetryDelay:    hc.RetryDelay,
		})
		if err != nil {
			return nil, fmt.Errorf("make source %s: %w", sc.Name, err)
		}
		res = append(res, Source{Name: sc.Name, Discoverer: adapter, Extractor: content.NewExtractor(lf, hc.MinTextLength)})
	}
	return res, nil
}
