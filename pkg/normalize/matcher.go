package normalize

// Text is tokenized text indexed for whole-word phrase lookups
type Text struct {
	tokens []string
	pos    map[string][]int
}

// NewText tokenizes s and indexes token positions
func NewText(s string) *Text {
	t := &Text{tokens: Tokens(s)}
	t.pos = make(map[string][]int, len(t.tokens))
	for i, tok := range t.tokens {
		t.pos[tok] = append(t.pos[tok], i)
	}
	return t
}

// Len returns the number of tokens
func (t *Text) Len() int { return len(t.tokens) }

// Has reports whether the phrase occurs as a whole-word sequence
func (t *Text) Has(p Phrase) bool {
	if len(p.tokens) == 0 {
		return false
	}
	for _, start := range t.pos[p.tokens[0]] {
		if t.matchAt(start, p.tokens) {
			return true
		}
	}
	return false
}

// Count returns the number of occurrences of the phrase
func (t *Text) Count(p Phrase) int {
	if len(p.tokens) == 0 {
		return 0
	}
	res := 0
	for _, start := range t.pos[p.tokens[0]] {
		if t.matchAt(start, p.tokens) {
			res++
		}
	}
	return res
}

func (t *Text) matchAt(start int, phrase []string) bool {
	if start+len(phrase) > len(t.tokens) {
		return false
	}
	for i := 1; i < len(phrase); i++ {
		if t.tokens[start+i] != phrase[i] {
			return false
		}
	}
	return true
}

// Phrase is a keyword compiled to its token sequence
type Phrase struct {
	Keyword string
	tokens  []string
}

// Compile turns a keyword into a Phrase, keywords without letters or digits never match
func Compile(keyword string) Phrase {
	return Phrase{Keyword: keyword, tokens: Tokens(keyword)}
}

// Matcher holds an ordered keyword list compiled for whole-word matching
type Matcher struct {
	phrases []Phrase
}

// NewMatcher compiles keywords, duplicates and empty entries are dropped and order is kept
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{phrases: make([]Phrase, 0, len(keywords))}
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		p := Compile(k)
		key := Lower(k)
		if len(p.tokens) == 0 || seen[key] {
			continue
		}
		seen[key] = true
		m.phrases = append(m.phrases, p)
	}
	return m
}

// Phrases returns the compiled phrases in configured order
func (m *Matcher) Phrases() []Phrase { return m.phrases }

// Matched returns keywords present in t, in configured order
func (m *Matcher) Matched(t *Text) []string {
	var res []string
	for _, p := range m.phrases {
		if t.Has(p) {
			res = append(res, p.Keyword)
		}
	}
	return res
}

// CountMatched returns how many distinct keywords are present in t
func (m *Matcher) CountMatched(t *Text) int {
	res := 0
	for _, p := range m.phrases {
		if t.Has(p) {
			res++
		}
	}
	return res
}

// Any reports whether at least one keyword is present in t
func (m *Matcher) Any(t *Text) bool {
	for _, p := range m.phrases {
		if t.Has(p) {
			return true
		}
	}
	return false
}
