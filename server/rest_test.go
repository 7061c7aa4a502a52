package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/domain"
	"github.com/minepenge/minepenge/pkg/feedback"
	"github.com/minepenge/minepenge/pkg/scheduler"
	"github.com/minepenge/minepenge/server/mocks"
)

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func testDataset() domain.Dataset {
	return domain.Dataset{Articles: []domain.Article{
		{ID: 1, Title: "Budget for familien", URL: "https://www.dr.dk/budget", Source: "dr.dk", RelevanceScore: 12,
			FoundAt: testNow.Add(-24 * time.Hour), Tags: []string{"budgettering"}, Audience: "børnefamilie", Difficulty: "begynder"},
		{ID: 2, Title: "Pension for selvstændige", URL: "https://moneymum.dk/blog/pension", Source: "moneymum.dk",
			RelevanceScore: 18, FoundAt: testNow.Add(-10 * 24 * time.Hour), Tags: []string{"pension"}, Audience: "erhverv",
			Difficulty: "øvet"},
		{ID: 3, Title: "Lån til bolig", URL: "https://www.dr.dk/laan", Source: "DR.dk", RelevanceScore: 4,
			FoundAt: testNow.Add(-time.Hour), Tags: []string{"lån", "bolig"}, Audience: "boligejer", Difficulty: "øvet"},
	}}
}

type testDeps struct {
	articles  *mocks.ArticleStoreMock
	feedback  *mocks.FeedbackStoreMock
	runs      *mocks.RunHistoryMock
	harvester *mocks.HarvesterMock
	metrics   *mocks.MetricsProviderMock
}

func newTestServer(t *testing.T) (*Server, testDeps) {
	t.Helper()
	deps := testDeps{
		articles: &mocks.ArticleStoreMock{LoadFunc: func() (domain.Dataset, error) { return testDataset(), nil }},
		feedback: &mocks.FeedbackStoreMock{
			AddFunc:   func(domain.Feedback) error { return nil },
			StatsFunc: func(time.Time) (domain.FeedbackStats, error) { return domain.FeedbackStats{}, nil },
		},
		runs:      &mocks.RunHistoryMock{LastRunFunc: func(context.Context) (domain.Run, bool, error) { return domain.Run{}, false, nil }},
		harvester: &mocks.HarvesterMock{TriggerFunc: func() error { return nil }, RunningFunc: func() bool { return false }},
		metrics: &mocks.MetricsProviderMock{
			HandlerFunc:          func() http.Handler { return http.NotFoundHandler() },
			FeedbackReceivedFunc: func(string) {},
		},
	}
	srv := New(Params{Config: testConfig(":8080"), Articles: deps.articles, Feedback: deps.feedback, Runs: deps.runs,
		Harvester: deps.harvester, Metrics: deps.metrics}, "test", false)
	srv.now = func() time.Time { return testNow }
	return srv, deps
}

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func articleIDs(t *testing.T, w *httptest.ResponseRecorder) []int64 {
	t.Helper()
	var resp articlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	ids := make([]int64, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestServer_statusHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/status", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
	assert.Equal(t, "test", status["version"])
	assert.Equal(t, "2025-06-10T12:00:00Z", status["time"])
}

func TestServer_articleListings(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []int64
	}{
		{name: "all by relevance", target: "/api/v1/articles", want: []int64{2, 1, 3}},
		{name: "all with limit", target: "/api/v1/articles?limit=2", want: []int64{2, 1}},
		{name: "latest", target: "/api/v1/articles/latest", want: []int64{3, 1, 2}},
		{name: "latest with limit", target: "/api/v1/articles/latest?limit=1", want: []int64{3}},
		{name: "relevant default threshold", target: "/api/v1/articles/relevant", want: []int64{2, 1, 3}},
		{name: "relevant min score", target: "/api/v1/articles/relevant?min_score=10", want: []int64{2, 1}},
		{name: "source case-insensitive", target: "/api/v1/articles/source/DR.DK", want: []int64{1, 3}},
		{name: "unknown source", target: "/api/v1/articles/source/tv2.dk", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			w := do(t, srv, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, articleIDs(t, w))
		})
	}
}

func TestServer_relevantArticlesHandler_MinScoreEcho(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/articles/relevant?min_score=4.5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"min_score":4.5`)

	w = do(t, srv, http.MethodGet, "/api/v1/articles/relevant?min_score=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_articlesHandler_Errors(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/articles?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	deps.articles.LoadFunc = func() (domain.Dataset, error) { return domain.Dataset{}, errors.New("disk error") }
	w = do(t, srv, http.MethodGet, "/api/v1/articles", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "failed to load articles")
}

func TestServer_articlesHandler_ColdStart(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.articles.LoadFunc = func() (domain.Dataset, error) { return domain.Dataset{}, nil }

	w := do(t, srv, http.MethodGet, "/api/v1/articles", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"articles":[]}`, w.Body.String())
}

func TestServer_dateRangeHandler(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		want     []int64
	}{
		{name: "dates", body: `{"start_date":"2025-06-09","end_date":"2025-06-10"}`, wantCode: http.StatusOK, want: []int64{3, 1}},
		{name: "only start", body: `{"start_date":"2025-06-10T00:00:00Z"}`, wantCode: http.StatusOK, want: []int64{3}},
		{name: "only end", body: `{"end_date":"2025-06-05"}`, wantCode: http.StatusOK, want: []int64{2}},
		{name: "no bounds", body: `{}`, wantCode: http.StatusOK, want: []int64{3, 1, 2}},
		{name: "bad date", body: `{"start_date":"i går"}`, wantCode: http.StatusBadRequest},
		{name: "bad json", body: `{`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t)
			w := do(t, srv, http.MethodPost, "/api/v1/articles/date-range", tt.body)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.want, articleIDs(t, w))
			}
		})
	}
}

func TestServer_statisticsHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/api/v1/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats statisticsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalArticles)
	assert.Equal(t, 2, stats.RecentArticles)
	assert.ElementsMatch(t, []string{"budgettering", "pension", "lån", "bolig"}, stats.Topics)
	assert.ElementsMatch(t, []string{"begynder", "øvet"}, stats.Difficulties)
	assert.Len(t, stats.Audiences, 3)
	assert.NotEmpty(t, stats.Sources)
	assert.InDelta(t, 11.33, stats.AverageScore, 0.001)
	assert.True(t, testNow.Equal(stats.LastUpdated))
}

func TestServer_feedbackHandler(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/feedback", `{"articleId":42,"rating":"positive","comment":"godt råd"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Feedback submitted successfully")

	require.Len(t, deps.feedback.AddCalls(), 1)
	fb := deps.feedback.AddCalls()[0].Fb
	assert.Equal(t, int64(42), fb.ArticleID)
	assert.Equal(t, domain.RatingPositive, fb.Rating)
	assert.Equal(t, "godt råd", fb.Comment)
	assert.Equal(t, testNow, fb.Timestamp, "missing timestamp is set by server")

	require.Len(t, deps.metrics.FeedbackReceivedCalls(), 1)
	assert.Equal(t, "positive", deps.metrics.FeedbackReceivedCalls()[0].Rating)

	t.Run("client timestamp kept", func(t *testing.T) {
		w := do(t, srv, http.MethodPost, "/api/v1/feedback", `{"articleId":1,"rating":"negative","timestamp":"2025-06-01T10:00:00Z"}`)
		require.Equal(t, http.StatusOK, w.Code)
		calls := deps.feedback.AddCalls()
		assert.Equal(t, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), calls[len(calls)-1].Fb.Timestamp)
	})
}

func TestServer_feedbackHandler_Errors(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/feedback", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	deps.feedback.AddFunc = func(fb domain.Feedback) error {
		return fmt.Errorf("%w: %q", feedback.ErrInvalidRating, fb.Rating)
	}
	w = do(t, srv, http.MethodPost, "/api/v1/feedback", `{"articleId":1,"rating":"meh"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid rating")

	deps.feedback.AddFunc = func(domain.Feedback) error { return errors.New("save feedback: read-only file system") }
	w = do(t, srv, http.MethodPost, "/api/v1/feedback", `{"articleId":1,"rating":"positive"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "read-only")

	assert.Empty(t, deps.metrics.FeedbackReceivedCalls())
}

func TestServer_feedbackStatsHandler(t *testing.T) {
	srv, deps := newTestServer(t)
	deps.feedback.StatsFunc = func(now time.Time) (domain.FeedbackStats, error) {
		assert.Equal(t, testNow, now)
		return domain.FeedbackStats{Total: 4, PositiveRatio: 75, Recent: 2}, nil
	}

	w := do(t, srv, http.MethodGet, "/api/v1/feedback/statistics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_feedback":4,"positive_ratio":75,"recent_feedback":2}`, w.Body.String())

	deps.feedback.StatsFunc = func(time.Time) (domain.FeedbackStats, error) { return domain.FeedbackStats{}, errors.New("parse feedback") }
	w = do(t, srv, http.MethodGet, "/api/v1/feedback/statistics", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_scraperStatusHandler(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/api/v1/scraper/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp scraperStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsRunning)
	assert.Nil(t, resp.LastRun)
	assert.Equal(t, 3, resp.ArticlesFound)
	assert.Equal(t, []string{"dr.dk", "bolius.dk"}, resp.SourcesScraped)

	finished := testNow.Add(-time.Hour)
	deps.harvester.RunningFunc = func() bool { return true }
	deps.runs.LastRunFunc = func(context.Context) (domain.Run, bool, error) {
		return domain.Run{ID: "abc", Status: domain.RunPartial, FinishedAt: &finished, New: 2,
			Sources: []domain.SourceReport{{Source: "dr.dk", Found: 5}}}, true, nil
	}
	w = do(t, srv, http.MethodGet, "/api/v1/scraper/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	resp = scraperStatusResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsRunning)
	require.NotNil(t, resp.LastRun)
	assert.Equal(t, "abc", resp.LastRun.ID)
	assert.Equal(t, domain.RunPartial, resp.LastRun.Status)
	assert.Equal(t, 2, resp.LastRun.New)

	t.Run("history error is not fatal", func(t *testing.T) {
		deps.runs.LastRunFunc = func(context.Context) (domain.Run, bool, error) {
			return domain.Run{}, false, errors.New("database is locked")
		}
		w := do(t, srv, http.MethodGet, "/api/v1/scraper/status", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"last_run":null`)
	})
}

func TestServer_scrapeHandler(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/api/v1/scrape", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Len(t, deps.harvester.TriggerCalls(), 1)

	deps.harvester.TriggerFunc = func() error { return scheduler.ErrRunInProgress }
	w = do(t, srv, http.MethodPost, "/api/v1/scrape", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "harvest run in progress")

	deps.harvester.TriggerFunc = func() error { return errors.New("boom") }
	w = do(t, srv, http.MethodPost, "/api/v1/scrape", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	noHarvest := New(Params{Config: testConfig(":8080"), Articles: deps.articles, Feedback: deps.feedback}, "test", false)
	w = do(t, noHarvest, http.MethodPost, "/api/v1/scrape", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_rssHandler(t *testing.T) {
	srv, deps := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/rss", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/rss+xml; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "Mine Penge - alle emner")
	assert.Contains(t, body, "https://moneymum.dk/blog/pension")
	assert.Less(t, strings.Index(body, "https://www.dr.dk/laan"), strings.Index(body, "https://www.dr.dk/budget"),
		"newest first")

	w = do(t, srv, http.MethodGet, "/rss/pension", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "Mine Penge - pension")
	assert.Contains(t, body, "https://moneymum.dk/blog/pension")
	assert.NotContains(t, body, "https://www.dr.dk/budget")

	w = do(t, srv, http.MethodGet, "/rss?tag=bolig", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://www.dr.dk/laan")
	assert.NotContains(t, w.Body.String(), "https://moneymum.dk/blog/pension")

	deps.articles.LoadFunc = func() (domain.Dataset, error) { return domain.Dataset{}, errors.New("disk error") }
	w = do(t, srv, http.MethodGet, "/rss", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServer_opmlHandler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/opml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/x-opml; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "https://www.dr.dk/nyheder/service/feeds/penge")
	assert.NotContains(t, w.Body.String(), "finans.dk")
}
