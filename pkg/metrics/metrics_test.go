package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()

	m.ArticleProcessed("dr.dk", "accepted")
	m.ArticleProcessed("dr.dk", "accepted")
	m.ArticleProcessed("dr.dk", "too short")
	m.LinksDiscovered("dr.dk", 7)
	m.RunFinished("ok", 3*time.Second, 42, 5)
	m.RunFinished("partial", time.Second, 40, 1)
	m.FeedbackReceived("positive")

	assert.InDelta(t, 2, testutil.ToFloat64(m.articles.WithLabelValues("dr.dk", "accepted")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.articles.WithLabelValues("dr.dk", "too short")), 0.001)
	assert.InDelta(t, 7, testutil.ToFloat64(m.links.WithLabelValues("dr.dk")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(m.runs.WithLabelValues("ok")), 0.001)
	assert.InDelta(t, 40, testutil.ToFloat64(m.dataset), 0.001)
	assert.InDelta(t, 6, testutil.ToFloat64(m.duplicates), 0.001)
	assert.Equal(t, 1, testutil.CollectAndCount(m.runDuration))

	m.DatasetSize(12)
	assert.InDelta(t, 12, testutil.ToFloat64(m.dataset), 0.001)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ArticleProcessed("moneymum.dk", "low relevance")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `minepenge_articles_processed_total{outcome="low relevance",source="moneymum.dk"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
