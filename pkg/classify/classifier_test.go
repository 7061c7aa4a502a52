package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minepenge/minepenge/pkg/config"
)

var pad = strings.Repeat("lorem ipsum ", 10)

func newTestClassifier() *Classifier {
	return New(config.DefaultLexicon())
}

func TestClassifier_Tags(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: []string{"økonomi"}},
		{name: "short text", text: "Opsparing og bolig", want: []string{"økonomi"}},
		{name: "no match", text: pad, want: []string{"privatøkonomi"}},
		{name: "priority first", text: "Brug dit kreditkort og husk din opsparing. " + pad, want: []string{"opsparing", "kort"}},
		{
			name: "capped at three",
			text: "Skat, kreditkort, opsparing og bolig fylder meget. " + pad,
			want: []string{"bolig", "opsparing", "skat"},
		},
		{name: "whole words only", text: "Huset og boligerne. " + pad, want: []string{"privatøkonomi"}},
		{name: "beyond scan limit", text: strings.Repeat("x", 1500) + " opsparing", want: []string{"privatøkonomi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Tags(tt.text)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestClassifier_Audience(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		text string
		want string
	}{
		{text: "Studerende på SU kan spare op", want: "studerende"},
		{text: "Pension og gæld efter de 60", want: "pensionist"},
		{text: "Aktier eller bolig", want: "investor"},
		{text: "Et nyt job giver mere tid til børn", want: "børnefamilie"},
		{text: "Realkredit stiger", want: "gældsramt"},
		{text: "lorem ipsum", want: "bred"},
		{text: "", want: "bred"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Audience(tt.text))
		})
	}
}

func TestClassifier_AudienceConfidence(t *testing.T) {
	c := newTestClassifier()

	scores := c.AudienceConfidence("su studielån budget")
	assert.Len(t, scores, 6)
	assert.InDelta(t, 0.86, scores["studerende"], 0.001)
	assert.InDelta(t, 0.33, scores["lavindkomstgrupper"], 0.001)
	assert.InDelta(t, 0.33, scores["økonomi_nybegynder"], 0.001)
	assert.InDelta(t, 0.0, scores["pensionister"], 0.001)

	assert.Equal(t, []string{"studerende", "lavindkomstgrupper", "økonomi_nybegynder"}, c.TargetAudiences(scores))

	full := c.AudienceConfidence("pension pensionist senior aldersopsparing livrente")
	assert.InDelta(t, 1.0, full["pensionister"], 0.001)
}

func TestClassifier_TargetAudiences(t *testing.T) {
	c := newTestClassifier()

	t.Run("threshold is exclusive", func(t *testing.T) {
		assert.Empty(t, c.TargetAudiences(map[string]float64{"studerende": 0.3}))
		assert.Equal(t, []string{"studerende"}, c.TargetAudiences(map[string]float64{"studerende": 0.31}))
	})

	t.Run("capped and ordered", func(t *testing.T) {
		scores := map[string]float64{
			"studerende":         0.5,
			"børnefamilier":      1,
			"lavindkomstgrupper": 1,
			"pensionister":       1,
			"økonomi_nybegynder": 0.4,
		}
		assert.Equal(t, []string{"børnefamilier", "lavindkomstgrupper", "pensionister"}, c.TargetAudiences(scores))
	})

	t.Run("unknown audiences ignored", func(t *testing.T) {
		assert.Empty(t, c.TargetAudiences(map[string]float64{"ukendt": 1}))
	})
}

func TestClassifier_Difficulty(t *testing.T) {
	c := newTestClassifier()
	words := func(n int) string { return strings.Repeat("ord ", n) }

	tests := []struct {
		words int
		want  string
	}{
		{words: 0, want: "begynder"},
		{words: 499, want: "begynder"},
		{words: 500, want: "øvet"},
		{words: 999, want: "øvet"},
		{words: 1000, want: "avanceret"},
		{words: 5000, want: "avanceret"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Difficulty(words(tt.words)), "words %d", tt.words)
	}
}

func TestClassifier_Complexity(t *testing.T) {
	c := newTestClassifier()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "empty", text: "", want: "begynder"},
		{name: "short sentences", text: "Spar penge. Lav et budget.", want: "begynder"},
		{name: "two technical terms", text: "Volatilitet og beta.", want: "mellem"},
		{name: "four technical terms", text: "Volatilitet, diversificering, korrelation og beta.", want: "avanceret"},
		{name: "long sentence", text: strings.Repeat("ord ", 30), want: "avanceret"},
		{name: "medium sentence", text: strings.Repeat("ord ", 22), want: "mellem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Complexity(tt.text))
		})
	}
}

func TestClassifier_MatchTags(t *testing.T) {
	c := newTestClassifier()

	t.Run("configured order", func(t *testing.T) {
		assert.Equal(t, []string{"bolig", "pension", "su"}, c.MatchTags("su og pension og bolig bolig bolig"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, c.MatchTags("lorem ipsum"))
	})

	t.Run("ranked by frequency when over the cap", func(t *testing.T) {
		text := "bolig huskøb lejebolig ejendomsmægler ejendom boligmarked husleje investering fonde " +
			"aktiesparekonto pension pension"
		got := c.MatchTags(text)
		assert.Len(t, got, 10)
		assert.Equal(t, "pension", got[0])
		assert.NotContains(t, got, "aktiesparekonto")
	})
}

func TestClassifier_Categories(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, []string{"Bolig & Ejendom", "Pension", "Forbrug", "Rådgivning"},
		c.Categories([]string{"budget", "pension", "bolig"}))
	assert.Empty(t, c.Categories(nil))
	assert.Empty(t, c.Categories([]string{"ukendt"}))
}
