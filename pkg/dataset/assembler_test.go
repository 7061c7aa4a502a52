package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/domain"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func art(url, title string, score float64, found time.Time) domain.Article {
	return domain.Article{URL: url, Title: title, Summary: "resumé " + url, RelevanceScore: score, FoundAt: found,
		Source: "test.dk", Tags: []string{"opsparing"}, Audience: "bred", Difficulty: "begynder"}
}

func TestSort(t *testing.T) {
	t1, t2, t3 := t0, t0.Add(time.Hour), t0.Add(2*time.Hour)
	articles := []domain.Article{
		art("https://a.dk/1", "a", 8.5, t1),
		art("https://a.dk/2", "b", 12.0, t2),
		art("https://a.dk/3", "c", 12.0, t3),
	}

	Sort(articles)
	assert.Equal(t, []string{"https://a.dk/3", "https://a.dk/2", "https://a.dk/1"}, urls(articles))

	SortLatest(articles)
	assert.Equal(t, []string{"https://a.dk/3", "https://a.dk/2", "https://a.dk/1"}, urls(articles))

	articles[0].FoundAt = t0.Add(-time.Hour)
	SortLatest(articles)
	assert.Equal(t, []string{"https://a.dk/2", "https://a.dk/1", "https://a.dk/3"}, urls(articles))
}

func TestAssembler_Assemble(t *testing.T) {
	a := NewAssembler(dedup.New())

	t.Run("cold start", func(t *testing.T) {
		batch := []domain.Article{
			art("https://a.dk/1", "Renten stiger for boligejere", 10, t0),
			art("https://a.dk/1", "Renten stiger for boligejere", 10, t0),
			art("https://a.dk/2", "Ny SU sats fra januar", 7, t0),
		}
		ds, res := a.Assemble(nil, batch, t0)
		assert.Equal(t, 2, ds.Metadata.TotalArticles)
		assert.Len(t, ds.Articles, 2)
		assert.Equal(t, 1, res.Removed())
		assert.Equal(t, t0, ds.Metadata.LastUpdated)
	})

	t.Run("best version wins", func(t *testing.T) {
		prior := []domain.Article{art("https://a.dk/1", "Renten stiger", 6, t0)}
		batch := []domain.Article{art("https://a.dk/1", "Renten stiger", 9, t0.Add(time.Hour))}

		ds, res := a.Assemble(prior, batch, t0)
		require.Len(t, ds.Articles, 1)
		assert.InDelta(t, 9.0, ds.Articles[0].RelevanceScore, 0.001)
		assert.Equal(t, 1, res.ByURL)
	})

	t.Run("equal score keeps newest", func(t *testing.T) {
		prior := []domain.Article{art("https://a.dk/1", "Renten stiger", 9, t0)}
		batch := []domain.Article{art("https://a.dk/1", "Renten stiger nu", 9, t0.Add(time.Hour))}

		ds, _ := a.Assemble(prior, batch, t0)
		require.Len(t, ds.Articles, 1)
		assert.Equal(t, "Renten stiger nu", ds.Articles[0].Title)
	})

	t.Run("merged and sorted", func(t *testing.T) {
		prior := []domain.Article{
			art("https://a.dk/1", "Spar på elregningen", 8, t0),
			art("https://a.dk/2", "Aktiesparekontoen forklaret", 20, t0),
		}
		batch := []domain.Article{
			art("https://b.dk/1", "Gæld for unge", 12, t0.Add(time.Hour)),
			art("https://b.dk/2", "Aktiesparekontoen forklaret", 5, t0.Add(time.Hour)),
		}

		ds, res := a.Assemble(prior, batch, t0)
		assert.Equal(t, []string{"https://a.dk/2", "https://b.dk/1", "https://a.dk/1"}, urls(ds.Articles))
		assert.Equal(t, 1, res.ByTitle)
		assert.Equal(t, 3, ds.Metadata.TotalArticles)
	})

	t.Run("empty", func(t *testing.T) {
		ds, _ := a.Assemble(nil, nil, t0)
		assert.Empty(t, ds.Articles)
		assert.Equal(t, 0, ds.Metadata.TotalArticles)
	})
}

func urls(articles []domain.Article) []string {
	res := make([]string, 0, len(articles))
	for _, a := range articles {
		res = append(res, a.URL)
	}
	return res
}
