package classify

import "github.com/minepenge/minepenge/pkg/normalize"

// Difficulty grades text by word count
func (c *Classifier) Difficulty(text string) string {
	d := c.lex.Difficulty
	switch words := normalize.WordCount(text); {
	case words < d.Intermediate:
		return d.BeginnerLabel
	case words < d.Advanced:
		return d.MiddleLabel
	default:
		return d.AdvancedLabel
	}
}

// Complexity grades text by technical vocabulary and sentence length
func (c *Classifier) Complexity(text string) string {
	cx := c.lex.Tagger.Complexity
	technical := c.technical.CountMatched(normalize.NewText(text))

	var avg float64
	if sentences := len(normalize.Sentences(text)); sentences > 0 {
		avg = float64(normalize.WordCount(text)) / float64(sentences)
	}

	switch {
	case technical > cx.AdvancedTerms || avg > cx.AdvancedSentence:
		return cx.AdvancedLabel
	case technical > cx.MediumTerms || avg > cx.MediumSentence:
		return cx.MediumLabel
	default:
		return cx.BeginnerLabel
	}
}
