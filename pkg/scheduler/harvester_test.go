package scheduler

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/content"
	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/pipeline"
	"github.com/minepenge/minepenge/pkg/scheduler/mocks"
	"github.com/minepenge/minepenge/pkg/source"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeProcessor accepts pages by the outcome encoded in their text
func fakeProcessor() *mocks.ProcessorMock {
	return &mocks.ProcessorMock{ProcessFunc: func(raw domain.RawArticle, foundAt time.Time) (domain.Article, pipeline.Outcome) {
		switch {
		case strings.HasPrefix(raw.Text, "short"):
			return domain.Article{}, pipeline.OutcomeTooShort
		case strings.HasPrefix(raw.Text, "english"):
			return domain.Article{}, pipeline.OutcomeWrongLanguage
		case strings.HasPrefix(raw.Text, "sport"):
			return domain.Article{}, pipeline.OutcomeLowRelevance
		}
		return domain.Article{
			ID: pipeline.ArticleID(raw.URL), Title: raw.Title, Summary: raw.Summary, URL: raw.URL, Source: raw.Source,
			RelevanceScore: 10, FoundAt: foundAt, Tags: []string{"økonomi"},
		}, pipeline.OutcomeAccepted
	}}
}

func memStore(prior []domain.Article) *mocks.DatasetStoreMock {
	var mu sync.Mutex
	saved := domain.Dataset{Articles: prior}
	return &mocks.DatasetStoreMock{
		LoadFunc: func() (domain.Dataset, error) {
			mu.Lock()
			defer mu.Unlock()
			return saved, nil
		},
		SaveFunc: func(ds domain.Dataset) error {
			mu.Lock()
			defer mu.Unlock()
			saved = ds
			return nil
		},
		PathFunc: func() string { return "data/articles.json" },
	}
}

func pages(m map[string]string) *mocks.ExtractorMock {
	return &mocks.ExtractorMock{ExtractFunc: func(_ context.Context, urlStr string) (content.Page, error) {
		text, ok := m[urlStr]
		if !ok {
			return content.Page{}, content.ErrNoContent
		}
		return content.Page{URL: urlStr, Title: "titel " + urlStr, Text: text, Description: "beskrivelse"}, nil
	}}
}

func links(urls ...string) *mocks.DiscovererMock {
	return &mocks.DiscovererMock{DiscoverFunc: func(context.Context) ([]source.Link, error) {
		res := make([]source.Link, 0, len(urls))
		for _, u := range urls {
			res = append(res, source.Link{URL: u})
		}
		return res, nil
	}}
}

func TestHarvester_Run(t *testing.T) {
	prior := []domain.Article{{ID: 1, Title: "gammel", URL: "https://dr.dk/gammel", Source: "dr.dk", RelevanceScore: 7,
		Summary: "gammel artikel", FoundAt: now.Add(-48 * time.Hour)}}
	store := memStore(prior)
	runs := &mocks.RunStoreMock{SaveRunFunc: func(context.Context, domain.Run) error { return nil }}
	uploader := &mocks.UploaderMock{UploadFunc: func(context.Context, string) error { return nil }}
	publisher := &mocks.PublisherMock{PublishFunc: func(context.Context, []domain.Article) error { return nil }}
	recorder := &mocks.RecorderMock{
		ArticleProcessedFunc: func(string, string) {},
		LinksDiscoveredFunc:  func(string, int) {},
		RunFinishedFunc:      func(string, time.Duration, int, int) {},
	}

	h := NewHarvester(Params{
		Sources: []Source{
			{
				Name:       "dr.dk",
				Discoverer: links("https://dr.dk/gammel", "https://dr.dk/budget", "https://dr.dk/kort", "https://dr.dk/fejl"),
				Extractor:  pages(map[string]string{"https://dr.dk/budget": "budget tekst", "https://dr.dk/kort": "short"}),
			},
			{
				Name:       "moneymum.dk",
				Discoverer: links("https://moneymum.dk/blog/a", "https://moneymum.dk/blog/b", "https://moneymum.dk/blog/c"),
				Extractor: pages(map[string]string{"https://moneymum.dk/blog/a": "pension tekst",
					"https://moneymum.dk/blog/b": "english text", "https://moneymum.dk/blog/c": "sport"}),
			},
			{
				Name: "nede.dk",
				Discoverer: &mocks.DiscovererMock{DiscoverFunc: func(context.Context) ([]source.Link, error) {
					return nil, errors.New("discover nede.dk: unexpected status code 503")
				}},
				Extractor: pages(nil),
			},
		},
		Processor: fakeProcessor(),
		Store:     store,
		Runs:      runs,
		Uploader:  uploader,
		Publisher: publisher,
		Metrics:   recorder,
	})
	h.now = func() time.Time { return now }

	run, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, domain.RunPartial, run.Status)
	assert.Equal(t, 2, run.Accepted)
	assert.Equal(t, 2, run.New)
	assert.Equal(t, 3, run.Total)
	require.NotNil(t, run.FinishedAt)

	require.Len(t, run.Sources, 3)
	assert.Equal(t, domain.SourceReport{Source: "dr.dk", Found: 4, Known: 1, Validated: 2, Processed: 1, TooShort: 1,
		Failed: 1}, run.Sources[0])
	assert.Equal(t, domain.SourceReport{Source: "moneymum.dk", Found: 3, Validated: 3, Processed: 1, WrongLang: 1,
		LowRelevant: 1}, run.Sources[1])
	assert.Equal(t, "nede.dk", run.Sources[2].Source)
	assert.Contains(t, run.Sources[2].Error, "503")

	// dataset merged and saved
	require.Len(t, store.SaveCalls(), 1)
	saved := store.SaveCalls()[0].Ds
	assert.Len(t, saved.Articles, 3)
	assert.Equal(t, 3, saved.Metadata.TotalArticles)

	// sinks
	require.Len(t, uploader.UploadCalls(), 1)
	assert.Equal(t, "data/articles.json", uploader.UploadCalls()[0].Path)
	require.Len(t, publisher.PublishCalls(), 1)
	published := publisher.PublishCalls()[0].Articles
	require.Len(t, published, 2)
	for _, a := range published {
		assert.NotEqual(t, "https://dr.dk/gammel", a.URL)
	}
	require.Len(t, runs.SaveRunCalls(), 1)
	assert.Equal(t, run.ID, runs.SaveRunCalls()[0].Run.ID)

	// metrics
	assert.Len(t, recorder.ArticleProcessedCalls(), 6)
	assert.Len(t, recorder.LinksDiscoveredCalls(), 2)
	require.Len(t, recorder.RunFinishedCalls(), 1)
	assert.Equal(t, "partial", recorder.RunFinishedCalls()[0].Status)
	assert.Equal(t, 3, recorder.RunFinishedCalls()[0].Total)
}

func TestHarvester_Run_MergesListingHints(t *testing.T) {
	published := now.Add(-3 * time.Hour)
	proc := fakeProcessor()
	h := NewHarvester(Params{
		Sources: []Source{{
			Name: "blog.dk",
			Discoverer: &mocks.DiscovererMock{DiscoverFunc: func(context.Context) ([]source.Link, error) {
				return []source.Link{{URL: "https://blog.dk/a", Title: "fra feed", Summary: "feed resume", Published: &published}}, nil
			}},
			Extractor: &mocks.ExtractorMock{ExtractFunc: func(context.Context, string) (content.Page, error) {
				return content.Page{Text: "opsparing", Description: "side beskrivelse"}, nil
			}},
		}},
		Processor: proc,
		Store:     memStore(nil),
	})

	_, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, proc.ProcessCalls(), 1)
	raw := proc.ProcessCalls()[0].Raw
	assert.Equal(t, domain.RawArticle{URL: "https://blog.dk/a", Title: "fra feed", Text: "opsparing", Source: "blog.dk",
		Summary: "feed resume", Published: &published}, raw)
}

func TestHarvester_Run_DedupOptions(t *testing.T) {
	// page titles share one of two words: overlap 0.5, jaccard 0.33
	tests := []struct {
		name      string
		opts      []dedup.Option
		wantTotal int
		wantDups  int
	}{
		{name: "overlap", opts: []dedup.Option{dedup.WithThreshold(0.4)}, wantTotal: 1, wantDups: 1},
		{name: "jaccard", opts: []dedup.Option{dedup.WithMetric(dedup.MetricJaccard), dedup.WithThreshold(0.4)},
			wantTotal: 2},
		{name: "default threshold", wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHarvester(Params{
				Sources: []Source{{Name: "dr.dk", Discoverer: links("https://dr.dk/1", "https://dr.dk/2"),
					Extractor: pages(map[string]string{"https://dr.dk/1": "budget", "https://dr.dk/2": "budget"})}},
				Processor: fakeProcessor(),
				Store:     memStore(nil),
				Dedup:     tt.opts,
			})

			run, err := h.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 2, run.Accepted)
			assert.Equal(t, tt.wantTotal, run.Total)
			assert.Equal(t, tt.wantDups, run.Duplicates)
		})
	}
}

func TestHarvester_Run_SaveError(t *testing.T) {
	store := memStore(nil)
	store.SaveFunc = func(domain.Dataset) error { return errors.New("save dataset: disk full") }
	runs := &mocks.RunStoreMock{SaveRunFunc: func(context.Context, domain.Run) error { return nil }}
	uploader := &mocks.UploaderMock{UploadFunc: func(context.Context, string) error { return nil }}

	h := NewHarvester(Params{
		Sources:   []Source{{Name: "dr.dk", Discoverer: links("https://dr.dk/a"), Extractor: pages(map[string]string{"https://dr.dk/a": "budget"})}},
		Processor: fakeProcessor(),
		Store:     store,
		Runs:      runs,
		Uploader:  uploader,
	})

	run, err := h.Run(context.Background())
	require.EqualError(t, err, "save dataset: disk full")
	assert.Equal(t, domain.RunFailed, run.Status)
	assert.Equal(t, "save dataset: disk full", run.Error)
	assert.Empty(t, uploader.UploadCalls())
	require.Len(t, runs.SaveRunCalls(), 1)
	assert.Equal(t, domain.RunFailed, runs.SaveRunCalls()[0].Run.Status)
}

func TestHarvester_Run_SinkErrorsAreNotFatal(t *testing.T) {
	h := NewHarvester(Params{
		Sources:   []Source{{Name: "dr.dk", Discoverer: links("https://dr.dk/a"), Extractor: pages(map[string]string{"https://dr.dk/a": "budget"})}},
		Processor: fakeProcessor(),
		Store:     memStore(nil),
		Runs:      &mocks.RunStoreMock{SaveRunFunc: func(context.Context, domain.Run) error { return errors.New("database is locked") }},
		Uploader:  &mocks.UploaderMock{UploadFunc: func(context.Context, string) error { return errors.New("access denied") }},
		Publisher: &mocks.PublisherMock{PublishFunc: func(context.Context, []domain.Article) error { return errors.New("no brokers") }},
	})

	run, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RunOK, run.Status)
	assert.Equal(t, 1, run.New)
}

func TestHarvester_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memStore(nil)
	h := NewHarvester(Params{
		Sources: []Source{{Name: "dr.dk", Extractor: pages(nil), Discoverer: &mocks.DiscovererMock{
			DiscoverFunc: func(context.Context) ([]source.Link, error) {
				cancel()
				return nil, context.Canceled
			}}}},
		Processor: fakeProcessor(),
		Store:     store,
	})

	run, err := h.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.RunFailed, run.Status)
	assert.Empty(t, store.SaveCalls())
}

func TestPrintRun(t *testing.T) {
	var buf bytes.Buffer
	PrintRun(&buf, domain.Run{ID: "abc", Status: domain.RunPartial, Accepted: 3, New: 2, Duplicates: 1, Total: 40,
		Sources: []domain.SourceReport{{Source: "dr.dk", Found: 10, Processed: 3}, {Source: "nede.dk", Error: "timeout"}}})
	out := buf.String()
	assert.Contains(t, out, "run abc: partial")
	assert.Contains(t, out, "dr.dk")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "accepted 3, new 2, duplicates removed 1, dataset total 40")
}
