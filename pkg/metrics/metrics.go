// Package metrics holds prometheus collectors of the harvester and the api.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minepenge"

// Metrics is a set of collectors registered in its own registry
type Metrics struct {
	registry *prometheus.Registry

	articles    *prometheus.CounterVec
	links       *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	dataset     prometheus.Gauge
	duplicates  prometheus.Counter
	feedback    *prometheus.CounterVec
}

// New makes Metrics with go runtime and process collectors included
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		articles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_processed_total",
			Help:      "Articles run through the quality gates, by source and outcome",
		}, []string{"source", "outcome"}),
		links: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_discovered_total",
			Help:      "Article links discovered, by source",
		}, []string{"source"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "harvest_runs_total",
			Help:      "Finished harvest runs, by status",
		}, []string{"status"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "harvest_run_duration_seconds",
			Help:      "Duration of harvest runs",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		dataset: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_articles",
			Help:      "Articles in the consolidated dataset",
		}),
		duplicates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_removed_total",
			Help:      "Articles removed by deduplication",
		}),
		feedback: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feedback_total",
			Help:      "Reader feedback received, by rating",
		}, []string{"rating"}),
	}
}

// ArticleProcessed counts one article outcome of a source
func (m *Metrics) ArticleProcessed(source, outcome string) {
	m.articles.WithLabelValues(source, outcome).Inc()
}

// LinksDiscovered counts links found for a source
func (m *Metrics) LinksDiscovered(source string, n int) {
	m.links.WithLabelValues(source).Add(float64(n))
}

// RunFinished records a finished run
func (m *Metrics) RunFinished(status string, duration time.Duration, total, duplicates int) {
	m.runs.WithLabelValues(status).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.dataset.Set(float64(total))
	m.duplicates.Add(float64(duplicates))
}

// DatasetSize sets the dataset gauge, used on startup and after batch builds
func (m *Metrics) DatasetSize(total int) {
	m.dataset.Set(float64(total))
}

// FeedbackReceived counts a feedback entry
func (m *Metrics) FeedbackReceived(rating string) {
	m.feedback.WithLabelValues(rating).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
