package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText_Has(t *testing.T) {
	text := NewText("Tips til økonomisk rådgivning og huskøb. Sport er ikke penge.")

	tests := []struct {
		keyword string
		want    bool
	}{
		{keyword: "huskøb", want: true},
		{keyword: "køb", want: false},
		{keyword: "økonomisk rådgivning", want: true},
		{keyword: "Økonomisk Rådgivning", want: true},
		{keyword: "rådgivning økonomisk", want: false},
		{keyword: "sport", want: true},
		{keyword: "penge.", want: true},
		{keyword: "...", want: false},
		{keyword: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Has(Compile(tt.keyword)))
		})
	}
}

func TestText_Count(t *testing.T) {
	text := NewText("gæld og mere gæld, gældfri er målet. Gæld!")
	assert.Equal(t, 3, text.Count(Compile("gæld")))
	assert.Equal(t, 1, text.Count(Compile("gældfri")))
	assert.Equal(t, 1, text.Count(Compile("mere gæld")))
	assert.Equal(t, 0, text.Count(Compile("lån")))
}

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"su", "budget", "SU", "", "danske bank", "lån"})
	assert.Len(t, m.Phrases(), 4)

	text := NewText("Har du lagt et budget med Danske Bank? Husk dit SU-lån.")
	assert.Equal(t, []string{"su", "budget", "danske bank", "lån"}, m.Matched(text))
	assert.Equal(t, 4, m.CountMatched(text))
	assert.True(t, m.Any(text))

	empty := NewText("")
	assert.Empty(t, m.Matched(empty))
	assert.False(t, m.Any(empty))
	assert.Equal(t, 0, empty.Len())
}
