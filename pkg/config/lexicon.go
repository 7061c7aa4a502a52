package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yml
var defaultLexicon []byte

// Lexicon holds all keyword data used by scoring and classification
type Lexicon struct {
	Scoring    ScoringLexicon    `yaml:"scoring" json:"scoring"`
	Tags       TagLexicon        `yaml:"tags" json:"tags"`
	Audiences  AudienceLexicon   `yaml:"audiences" json:"audiences"`
	Tagger     TaggerLexicon     `yaml:"tagger" json:"tagger"`
	Summary    SummaryLexicon    `yaml:"summary" json:"summary"`
	Difficulty DifficultyLexicon `yaml:"difficulty" json:"difficulty"`
}

// Weight is a body/title pair of keyword weights
type Weight struct {
	Body  float64 `yaml:"body" json:"body"`
	Title float64 `yaml:"title" json:"title"`
}

// ScoringLexicon holds keyword sets and weights for relevance scoring
type ScoringLexicon struct {
	Primary   []string `yaml:"primary" json:"primary"`
	Secondary []string `yaml:"secondary" json:"secondary"`
	Negative  []string `yaml:"negative" json:"negative"`
	HighValue []string `yaml:"high_value" json:"high_value"`

	Weights struct {
		Primary   Weight `yaml:"primary" json:"primary"`
		Secondary Weight `yaml:"secondary" json:"secondary"`
		HighValue Weight `yaml:"high_value" json:"high_value"`
		Negative  Weight `yaml:"negative" json:"negative"`
	} `yaml:"weights" json:"weights"`

	// breadth bonuses keyed by minimum distinct primary matches, highest applicable wins
	Breadth []BreadthBonus `yaml:"breadth" json:"breadth"`

	ShortLength     int     `yaml:"short_length" json:"short_length"`
	ShortMultiplier float64 `yaml:"short_multiplier" json:"short_multiplier"`
	LongLength      int     `yaml:"long_length" json:"long_length"`
	LongBonus       float64 `yaml:"long_bonus" json:"long_bonus"`
	BaseBonus       float64 `yaml:"base_bonus" json:"base_bonus"`
}

// BreadthBonus is added when at least MinMatches distinct primary keywords matched
type BreadthBonus struct {
	MinMatches int     `yaml:"min_matches" json:"min_matches"`
	Bonus      float64 `yaml:"bonus" json:"bonus"`
}

// Group is a labeled keyword list
type Group struct {
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// TagLexicon holds ordered tag categories for article tagging
type TagLexicon struct {
	Categories    []Group  `yaml:"categories" json:"categories"`
	Priority      []string `yaml:"priority" json:"priority"`
	MaxTags       int      `yaml:"max_tags" json:"max_tags"`
	ScanLimit     int      `yaml:"scan_limit" json:"scan_limit"`
	MinTextLength int      `yaml:"min_text_length" json:"min_text_length"`
	ShortFallback string   `yaml:"short_fallback" json:"short_fallback"`
	Fallback      string   `yaml:"fallback" json:"fallback"`
}

// AudienceLexicon holds ordered single-label audience groups
type AudienceLexicon struct {
	Groups   []Group `yaml:"groups" json:"groups"`
	Fallback string  `yaml:"fallback" json:"fallback"`
}

// TaggerLexicon holds the batch tagger vocabulary
type TaggerLexicon struct {
	Categories     []TaggerCategory `yaml:"categories" json:"categories"`
	Audiences      []Group          `yaml:"audiences" json:"audiences"`
	Threshold      float64          `yaml:"threshold" json:"threshold"`
	Scale          float64          `yaml:"scale" json:"scale"`
	MaxAudiences   int              `yaml:"max_audiences" json:"max_audiences"`
	MaxTags        int              `yaml:"max_tags" json:"max_tags"`
	TechnicalTerms []string         `yaml:"technical_terms" json:"technical_terms"`
	Complexity     struct {
		AdvancedTerms    int     `yaml:"advanced_terms" json:"advanced_terms"`
		AdvancedSentence float64 `yaml:"advanced_sentence" json:"advanced_sentence"`
		MediumTerms      int     `yaml:"medium_terms" json:"medium_terms"`
		MediumSentence   float64 `yaml:"medium_sentence" json:"medium_sentence"`
		AdvancedLabel    string  `yaml:"advanced_label" json:"advanced_label"`
		MediumLabel      string  `yaml:"medium_label" json:"medium_label"`
		BeginnerLabel    string  `yaml:"beginner_label" json:"beginner_label"`
	} `yaml:"complexity" json:"complexity"`
}

// TaggerCategory groups tagger tags under a display category
type TaggerCategory struct {
	Name string   `yaml:"name" json:"name"`
	Tags []string `yaml:"tags" json:"tags"`
}

// SummaryLexicon holds summarizer literals and limits
type SummaryLexicon struct {
	Marker        string   `yaml:"marker" json:"marker"`
	Unavailable   string   `yaml:"unavailable" json:"unavailable"`
	StripPrefixes []string `yaml:"strip_prefixes" json:"strip_prefixes"`
	MinLength     int      `yaml:"min_length" json:"min_length"`
	MaxLength     int      `yaml:"max_length" json:"max_length"`
	MinSentence   int      `yaml:"min_sentence" json:"min_sentence"`
}

// DifficultyLexicon holds word-count thresholds and labels
type DifficultyLexicon struct {
	Intermediate  int    `yaml:"intermediate" json:"intermediate"`
	Advanced      int    `yaml:"advanced" json:"advanced"`
	BeginnerLabel string `yaml:"beginner_label" json:"beginner_label"`
	MiddleLabel   string `yaml:"middle_label" json:"middle_label"`
	AdvancedLabel string `yaml:"advanced_label" json:"advanced_label"`
}

// LoadLexicon reads the lexicon from path, embedded default if path is empty
func LoadLexicon(path string) (*Lexicon, error) {
	data := defaultLexicon
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil { //nolint:gosec // file path comes from config
			return nil, fmt.Errorf("read lexicon file: %w", err)
		}
	}
	return ParseLexicon(data)
}

// DefaultLexicon returns the embedded lexicon, panics if it is broken
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
	}
	return lex
}

// ParseLexicon decodes and validates lexicon yaml
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lex); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if err := lex.validate(); err != nil {
		return nil, fmt.Errorf("validate lexicon: %w", err)
	}
	return &lex, nil
}

func (l *Lexicon) validate() error {
	s := l.Scoring
	if len(s.Primary) == 0 || len(s.Secondary) == 0 || len(s.HighValue) == 0 {
		return fmt.Errorf("scoring keyword lists must not be empty")
	}
	for _, w := range []Weight{s.Weights.Primary, s.Weights.Secondary, s.Weights.HighValue, s.Weights.Negative} {
		if w.Body < 0 || w.Title < 0 {
			return fmt.Errorf("scoring weights must be non-negative")
		}
	}
	if s.ShortMultiplier < 0 || s.ShortMultiplier > 1 {
		return fmt.Errorf("scoring.short_multiplier must be between 0 and 1")
	}
	if s.LongBonus < 0 || s.BaseBonus < 0 {
		return fmt.Errorf("scoring bonuses must be non-negative")
	}
	for _, b := range s.Breadth {
		if b.MinMatches < 1 || b.Bonus < 0 {
			return fmt.Errorf("scoring.breadth entries need min_matches >= 1 and non-negative bonus")
		}
	}
	// a keyword both rewarded and penalized would make scores non-monotonic
	neg := make(map[string]bool, len(s.Negative))
	for _, k := range s.Negative {
		neg[strings.ToLower(k)] = true
	}
	for _, k := range s.Primary {
		if neg[strings.ToLower(k)] {
			return fmt.Errorf("keyword %q is both primary and negative", k)
		}
	}

	if err := validateGroups("tags.categories", l.Tags.Categories); err != nil {
		return err
	}
	if l.Tags.MaxTags < 1 || l.Tags.Fallback == "" || l.Tags.ShortFallback == "" {
		return fmt.Errorf("tags need max_tags >= 1 and both fallbacks")
	}
	if err := validateGroups("audiences.groups", l.Audiences.Groups); err != nil {
		return err
	}
	if l.Audiences.Fallback == "" {
		return fmt.Errorf("audiences.fallback is required")
	}

	if err := validateGroups("tagger.audiences", l.Tagger.Audiences); err != nil {
		return err
	}
	if len(l.Tagger.Categories) == 0 {
		return fmt.Errorf("tagger.categories must not be empty")
	}
	for _, c := range l.Tagger.Categories {
		if c.Name == "" || len(c.Tags) == 0 {
			return fmt.Errorf("tagger category %q needs a name and tags", c.Name)
		}
	}
	if l.Tagger.Scale <= 0 || l.Tagger.MaxAudiences < 1 || l.Tagger.MaxTags < 1 {
		return fmt.Errorf("tagger needs positive scale, max_audiences and max_tags")
	}

	if l.Summary.Marker == "" || l.Summary.Unavailable == "" || l.Summary.MaxLength < 1 {
		return fmt.Errorf("summary needs marker, unavailable text and max_length")
	}
	if l.Difficulty.Intermediate <= 0 || l.Difficulty.Advanced <= l.Difficulty.Intermediate {
		return fmt.Errorf("difficulty thresholds must be positive and increasing")
	}
	return nil
}

func validateGroups(name string, groups []Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("%s must not be empty", name)
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		if g.Label == "" || len(g.Keywords) == 0 {
			return fmt.Errorf("%s entry %q needs a label and keywords", name, g.Label)
		}
		if seen[g.Label] {
			return fmt.Errorf("%s has duplicate label %q", name, g.Label)
		}
		seen[g.Label] = true
	}
	return nil
}
