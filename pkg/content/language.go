package content

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// minDetectRunes is the shortest text worth running detection on
const minDetectRunes = 20

// LanguageDetector identifies the language of article text
type LanguageDetector struct {
	detector lingua.LanguageDetector
}

// NewLanguageDetector makes a detector limited to languages seen on danish finance sites
func NewLanguageDetector() *LanguageDetector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(lingua.Danish, lingua.English, lingua.Swedish, lingua.Bokmal, lingua.German).
		WithMinimumRelativeDistance(0.1).
		Build()
	return &LanguageDetector{detector: d}
}

// Detect returns the lower case ISO 639-1 code of text, ok is false when detection is unreliable
func (l *LanguageDetector) Detect(text string) (string, bool) {
	if len([]rune(strings.TrimSpace(text))) < minDetectRunes {
		return "", false
	}
	lang, ok := l.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
