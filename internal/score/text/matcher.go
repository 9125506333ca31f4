// Package text extracts weighted search phrases from candidate names and
// tags, filters spam-like terms, and scores fetched assets against those
// phrases.
package text

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/memerank/memerank/internal/config"
	"github.com/memerank/memerank/internal/domain"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// WeightedTerm is one extracted search phrase with its relevance weight.
type WeightedTerm struct {
	Phrase string
	Weight float64
}

// Matcher holds the compiled spam heuristics and term weights.
type Matcher struct {
	cfg        config.TextConfig
	stopWords  map[string]struct{}
	marketing  map[string]struct{}
	trendRider map[string]struct{}
	suspicious []*regexp.Regexp
}

// NewMatcher compiles the configured heuristics. Patterns that fail to
// compile are skipped with a warning rather than aborting startup.
func NewMatcher(cfg config.TextConfig) *Matcher {
	m := &Matcher{
		cfg:        cfg,
		stopWords:  toSet(cfg.StopWords),
		marketing:  toSet(cfg.MarketingTerms),
		trendRider: toSet(cfg.TrendRiders),
	}
	for _, p := range cfg.SuspiciousPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Warn().Str("pattern", p).Err(err).Msg("skipping bad spam pattern")
			continue
		}
		m.suspicious = append(m.suspicious, re)
	}
	return m
}

func toSet(words []string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Normalize strips punctuation to spaces and collapses whitespace while
// preserving case. Capitalization is a proper-noun signal downstream.
func Normalize(text string) string {
	text = nonWord.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

func capitalized(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

// meaningfulPhrases splits normalized text into weighted 1-3 word windows,
// dropping stop words and short words first.
func (m *Matcher) meaningfulPhrases(text string) []WeightedTerm {
	var words []string
	for _, w := range strings.Fields(Normalize(text)) {
		if len(w) <= 2 {
			continue
		}
		if _, stop := m.stopWords[strings.ToLower(w)]; stop {
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}

	var phrases []WeightedTerm
	for _, w := range words {
		if len(w) > 4 || (capitalized(w) && len(w) > 3) {
			phrases = append(phrases, WeightedTerm{Phrase: w, Weight: m.cfg.Weights.NamePartial})
		}
	}
	for i := 0; i < len(words)-1; i++ {
		phrase := words[i] + " " + words[i+1]
		weight := m.cfg.Weights.NamePartial
		if capitalized(words[i]) || capitalized(words[i+1]) {
			weight = m.cfg.Weights.NameExact
		}
		phrases = append(phrases, WeightedTerm{Phrase: phrase, Weight: weight})
	}
	for i := 0; i+2 < len(words); i++ {
		if capitalized(words[i]) || capitalized(words[i+1]) || capitalized(words[i+2]) {
			phrase := words[i] + " " + words[i+1] + " " + words[i+2]
			phrases = append(phrases, WeightedTerm{Phrase: phrase, Weight: m.cfg.Weights.NameExact + 0.5})
		}
	}
	return phrases
}

// ExtractTerms produces the candidate's search phrases, capped at the
// configured top N by (weight, word count) descending. Ties beyond that
// break lexicographically so the output is deterministic.
func (m *Matcher) ExtractTerms(c domain.Candidate) []WeightedTerm {
	terms := make(map[string]float64)

	for _, wt := range m.meaningfulPhrases(c.Name) {
		if len(strings.Fields(wt.Phrase)) > 3 || m.IsSpamTerm(wt.Phrase) {
			continue
		}
		if wt.Weight > terms[wt.Phrase] {
			terms[wt.Phrase] = wt.Weight
		}
	}

	for _, tagList := range [][]string{c.Tags, c.ListTags} {
		for _, tag := range tagList {
			if tag == "" {
				continue
			}
			tagWords := strings.Fields(tag)
			anyCapitalized := false
			for _, w := range tagWords {
				if capitalized(w) {
					anyCapitalized = true
					break
				}
			}
			if !anyCapitalized && len(tagWords) > 2 {
				continue
			}
			for _, wt := range m.meaningfulPhrases(tag) {
				if m.IsSpamTerm(wt.Phrase) {
					continue
				}
				if _, seen := terms[wt.Phrase]; seen {
					terms[wt.Phrase] += m.cfg.Weights.ContextBonus
				} else {
					terms[wt.Phrase] = wt.Weight
				}
			}
		}
	}

	filtered := make([]WeightedTerm, 0, len(terms))
	for phrase, weight := range terms {
		if len(phrase) <= 2 || m.allStopWords(phrase) {
			continue
		}
		filtered = append(filtered, WeightedTerm{Phrase: phrase, Weight: weight})
	}

	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Weight != filtered[j].Weight {
			return filtered[i].Weight > filtered[j].Weight
		}
		wi, wj := len(strings.Fields(filtered[i].Phrase)), len(strings.Fields(filtered[j].Phrase))
		if wi != wj {
			return wi > wj
		}
		return filtered[i].Phrase < filtered[j].Phrase
	})

	if m.cfg.MaxTerms > 0 && len(filtered) > m.cfg.MaxTerms {
		filtered = filtered[:m.cfg.MaxTerms]
	}
	return filtered
}

func (m *Matcher) allStopWords(phrase string) bool {
	for _, w := range strings.Fields(phrase) {
		if _, stop := m.stopWords[strings.ToLower(w)]; !stop {
			return false
		}
	}
	return true
}

// IsSpamTerm reports whether a phrase matches the spam heuristics: generic
// coin suffixes, hype prefixes, marketing terms, trend-riding terms, or a
// suspicious pattern. Terms of two characters or fewer are always spam.
func (m *Matcher) IsSpamTerm(term string) bool {
	lower := strings.ToLower(term)
	if len(lower) <= 2 {
		return true
	}
	words := strings.Fields(lower)
	for _, w := range words {
		for _, suffix := range m.cfg.SpamSuffixes {
			if strings.HasSuffix(w, suffix) {
				return true
			}
		}
		for _, prefix := range m.cfg.SpamPrefixes {
			if strings.HasPrefix(w, prefix) {
				return true
			}
		}
		if _, ok := m.marketing[w]; ok {
			return true
		}
		if _, ok := m.trendRider[w]; ok {
			return true
		}
	}
	for _, re := range m.suspicious {
		if re.MatchString(term) {
			return true
		}
	}
	return false
}

// IsSpamToken flags fetched assets whose name or symbol carries a spam
// indicator word or matches a suspicious pattern.
func (m *Matcher) IsSpamToken(name, symbol string) bool {
	for _, w := range append(strings.Fields(strings.ToLower(name)), strings.Fields(strings.ToLower(symbol))...) {
		for _, suffix := range m.cfg.SpamSuffixes {
			if w == suffix {
				return true
			}
		}
		for _, prefix := range m.cfg.SpamPrefixes {
			if w == prefix {
				return true
			}
		}
		if _, ok := m.marketing[w]; ok {
			return true
		}
		if _, ok := m.trendRider[w]; ok {
			return true
		}
	}
	for _, re := range m.suspicious {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// MatchScore scores a fetched asset against one extracted phrase. Exact
// name equality beats exact symbol equality beats whole-word containment;
// earlier word positions in the name score higher.
func (m *Matcher) MatchScore(assetName, assetSymbol, term string, weight float64) float64 {
	name := strings.ToLower(assetName)
	symbol := strings.ToLower(assetSymbol)
	phrase := strings.ToLower(term)

	switch {
	case phrase == name:
		return 5.0 * weight
	case phrase == symbol:
		return 4.0 * weight
	}

	for pos, w := range strings.Fields(name) {
		if w == phrase {
			return (3.0 - float64(pos)*0.5) * weight
		}
	}
	for _, w := range strings.Fields(symbol) {
		if w == phrase {
			score := 2.0 * weight
			if sim := Similarity(phrase, name); sim > m.cfg.SimilarityFloor {
				score += 2.0 * sim * weight
			}
			return score
		}
	}
	return 0
}

// Similarity is a longest-common-subsequence ratio over case-folded input:
// symmetric, in [0,1], and 1.0 exactly when the strings are equal.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(rb)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
