package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/feed"
	"github.com/minepenge/minepenge/pkg/source/mocks"
)

const listingPage = `<html><body>
<nav><a href="/">Forside</a><a href="/kontakt">Kontakt</a></nav>
<div class="teaser"><a href="/nyheder/penge/saadan-sparer-du-op">Sådan sparer du op</a></div>
<div class="teaser"><a href="https://www.dr.dk//nyheder/penge/pension-guide#top">Pension</a></div>
<article><h2><a href="/nyheder/penge/saadan-sparer-du-op">dublet</a></h2></article>
<a class="teaser" href="/nyheder/indland/boligmarked-i-2025-ser-lyst-ud">Bolig</a>
<div class="teaser"><a href="mailto:redaktion@dr.dk">mail</a><a href="/kategori/penge-og-tid">kategori</a></div>
<a href="/nyheder/erhverv/uden-selector">ikke valgt</a>
</body></html>`

func testSource() config.SourceConfig {
	return config.SourceConfig{
		Name:            "dr.dk",
		BaseURL:         "https://www.dr.dk/",
		LinkSelectors:   []string{"article", ".teaser"},
		ArticlePatterns: []string{"/penge/", "/indland/", "/erhverv/", "/blog/"},
		ExcludePatterns: []string{"/kategori", "/kontakt"},
		MaxLinksPerSeed: 10,
	}
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter(testSource(), Params{})
	require.NoError(t, err)
	assert.Equal(t, "dr.dk", a.Name())
	assert.Equal(t, 3, a.params.RetryAttempts)
	assert.Equal(t, time.Second, a.params.RetryDelay)

	_, err = NewAdapter(config.SourceConfig{Name: "bad", BaseURL: "not a url"}, Params{})
	require.Error(t, err)

	_, err = NewAdapter(config.SourceConfig{Name: "bad", BaseURL: "://x"}, Params{})
	require.Error(t, err)
}

func TestAdapter_ExtractLinks(t *testing.T) {
	a, err := NewAdapter(testSource(), Params{})
	require.NoError(t, err)

	links := a.ExtractLinks([]byte(listingPage))
	assert.Equal(t, []string{
		"https://www.dr.dk/nyheder/penge/saadan-sparer-du-op",
		"https://www.dr.dk/nyheder/penge/pension-guide",
		"https://www.dr.dk/nyheder/indland/boligmarked-i-2025-ser-lyst-ud",
	}, links)
}

func TestAdapter_ExtractLinks_Fallback(t *testing.T) {
	cfg := testSource()
	cfg.LinkSelectors = []string{".missing"}
	a, err := NewAdapter(cfg, Params{})
	require.NoError(t, err)

	links := a.ExtractLinks([]byte(`<html><body>
		<a href="/om-os/vores-historie-og-team">om</a>
		<a href="/blog/zero-based-budget">budget</a>
		<a href="https://www.dr.dk/blog/zero-based-budget">igen</a>
	</body></html>`))
	assert.Equal(t, []string{"https://www.dr.dk/blog/zero-based-budget"}, links)
}

func TestAdapter_LooksLikeArticle(t *testing.T) {
	a, err := NewAdapter(testSource(), Params{})
	require.NoError(t, err)

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.dr.dk/nyheder/penge/rente", true},
		{"https://www.dr.dk/NYHEDER/PENGE/rente", true},
		{"https://other.dk/2024/05/nyt-fra-banken", true},
		{"https://other.dk/x/2025-01-31/rente", true},
		{"https://other.dk/x/31-01-2025/rente", true},
		{"https://www.dr.dk/nogle-lange-artikel-navn", true},
		{"https://www.dr.dk/kategori/alle-de-lange", false},
		{"https://www.dr.dk/kort", false},
		{"https://other.dk/nogle-lange-artikel-navn", false},
		{"https://www.dr.dkfoo.com/nogle-lange-artikel-navn", false},
		{"https://www.dr.dk.example.com/nogle-lange-artikel-navn", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, a.LooksLikeArticle(tt.url))
		})
	}
}

func TestAdapter_Discover(t *testing.T) {
	published := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	cfg := testSource()
	cfg.KnownURLs = []string{"https://www.dr.dk/nyheder/penge/kendt"}
	cfg.Feeds = []string{"https://www.dr.dk/feed"}
	cfg.Sitemaps = []string{"https://www.dr.dk/sitemap.xml"}
	cfg.SeedPages = []string{"https://www.dr.dk/nyheder/penge"}

	fetcher := &mocks.FetcherMock{FetchFunc: func(_ context.Context, _ string) ([]byte, error) {
		return []byte(listingPage), nil
	}}
	feeds := &mocks.FeedReaderMock{ParseFunc: func(_ context.Context, _ string) ([]feed.Entry, error) {
		return []feed.Entry{
			{Title: "Kendt", Link: "https://www.dr.dk/nyheder/penge/kendt"},
			{Title: "Rente", Link: "/nyheder/penge/rente", Summary: "Renten stiger", Published: &published},
		}, nil
	}}
	sitemaps := &mocks.SitemapListerMock{URLsFunc: func(_ context.Context, _ string) ([]string, error) {
		return []string{"https://www.dr.dk/kontakt", "https://www.dr.dk/nyheder/indland/skat-2026"}, nil
	}}

	a, err := NewAdapter(cfg, Params{Fetcher: fetcher, Feeds: feeds, Sitemaps: sitemaps})
	require.NoError(t, err)

	links, err := a.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 6)
	assert.Equal(t, "https://www.dr.dk/nyheder/penge/kendt", links[0].URL)
	assert.Empty(t, links[0].Title, "known url is not overwritten by the feed entry")
	assert.Equal(t, Link{URL: "https://www.dr.dk/nyheder/penge/rente", Title: "Rente", Summary: "Renten stiger",
		Published: &published}, links[1])
	assert.Equal(t, "https://www.dr.dk/nyheder/indland/skat-2026", links[2].URL)
	assert.Equal(t, "https://www.dr.dk/nyheder/penge/saadan-sparer-du-op", links[3].URL)

	require.Len(t, fetcher.FetchCalls(), 1)
	assert.Equal(t, "https://www.dr.dk/nyheder/penge", fetcher.FetchCalls()[0].URLStr)
	assert.Equal(t, "https://www.dr.dk/feed", feeds.ParseCalls()[0].URL)
}

func TestAdapter_Discover_MaxLinksPerSeed(t *testing.T) {
	cfg := testSource()
	cfg.SeedPages = []string{"https://www.dr.dk/a"}
	cfg.MaxLinksPerSeed = 2
	fetcher := &mocks.FetcherMock{FetchFunc: func(_ context.Context, _ string) ([]byte, error) {
		return []byte(listingPage), nil
	}}
	a, err := NewAdapter(cfg, Params{Fetcher: fetcher})
	require.NoError(t, err)

	links, err := a.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func TestAdapter_Discover_Retry(t *testing.T) {
	cfg := testSource()
	cfg.SeedPages = []string{"https://www.dr.dk/a"}

	t.Run("recovers", func(t *testing.T) {
		attempts := 0
		fetcher := &mocks.FetcherMock{FetchFunc: func(_ context.Context, _ string) ([]byte, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("unexpected status code 503")
			}
			return []byte(listingPage), nil
		}}
		a, err := NewAdapter(cfg, Params{Fetcher: fetcher, RetryAttempts: 3, RetryDelay: time.Millisecond})
		require.NoError(t, err)
		links, err := a.Discover(context.Background())
		require.NoError(t, err)
		assert.Len(t, links, 3)
		assert.Len(t, fetcher.FetchCalls(), 3)
	})

	t.Run("gives up", func(t *testing.T) {
		fetcher := &mocks.FetcherMock{FetchFunc: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("unexpected status code 503")
		}}
		a, err := NewAdapter(cfg, Params{Fetcher: fetcher, RetryAttempts: 2, RetryDelay: time.Millisecond})
		require.NoError(t, err)
		_, err = a.Discover(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "discover dr.dk")
		assert.Contains(t, err.Error(), "fetch seed page")
		assert.Len(t, fetcher.FetchCalls(), 2)
	})

	t.Run("known urls survive failed seeds", func(t *testing.T) {
		cfg := cfg
		cfg.KnownURLs = []string{"https://www.dr.dk/blog/kendt"}
		fetcher := &mocks.FetcherMock{FetchFunc: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("boom")
		}}
		a, err := NewAdapter(cfg, Params{Fetcher: fetcher, RetryAttempts: 1, RetryDelay: time.Millisecond})
		require.NoError(t, err)
		links, err := a.Discover(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []Link{{URL: "https://www.dr.dk/blog/kendt"}}, links)
	})
}
