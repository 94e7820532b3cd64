// Package catalog matches free-text case descriptions against the medical
// reference catalog.
//
// Matching runs in two stages: an exact match on the normalized case name,
// then a scored token-overlap pass combining query coverage, Jaccard
// similarity, substring and keyword bonuses. Matches scoring below the
// floor are rejected so callers can render a graceful no-match state.
package catalog

import (
	"sort"
	"strings"

	"skymedic/internal/refdata"
	"skymedic/internal/types"
)

// Scoring parameters.
const (
	coverageWeight   = 0.6
	jaccardWeight    = 0.4
	substringBonus   = 0.3
	revSubstringBonus = 0.25
	categoryBonus    = 0.1
	keywordBonusEach = 0.1
	keywordBonusCap  = 0.2

	// minScore is the floor below which the best candidate is rejected.
	minScore = 0.1

	// maxConfidence caps non-exact match confidence.
	maxConfidence = 0.95

	// Method label thresholds.
	tokenOverlapScore = 0.7
	partialScore      = 0.4

	maxAlternatives = 3
)

// stopwords are common words that do not help matching.
var stopwords = setOf(
	"the", "a", "an", "and", "or", "of", "in", "on", "at", "to", "for",
	"with", "after", "before", "is", "are", "was", "were", "been", "being",
	"have", "has", "had", "do", "does", "did", "will", "would", "should",
	"could", "may", "might", "must", "can", "be", "am", "patient", "person",
)

// criticalKeywords are high-value tokens that indicate specific conditions.
var criticalKeywords = setOf(
	"cardiac", "arrest", "anaphylaxis", "stroke", "seizure", "unconscious",
	"bleeding", "choking", "trauma", "collapse", "respiratory", "asthma",
	"copd", "heart", "chest", "pain", "breathing", "airway", "hypoglycemic",
)

func setOf(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// tokenize converts text to a set of lowercase tokens with punctuation and
// stopwords removed.
func tokenize(text string) map[string]struct{} {
	if text == "" {
		return nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(b.String()) {
		if _, stop := stopwords[tok]; !stop {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// jaccard returns |A∩B| / |A∪B|.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// overlapScore combines query coverage (60%) with Jaccard similarity (40%).
// Coverage dominates so that matching the caller's terms outranks balance.
func overlapScore(query, entry map[string]struct{}) float64 {
	if len(query) == 0 || len(entry) == 0 {
		return 0
	}
	inter := 0
	for k := range query {
		if _, ok := entry[k]; ok {
			inter++
		}
	}
	coverage := float64(inter) / float64(len(query))
	return coverageWeight*coverage + jaccardWeight*jaccard(query, entry)
}

// keywordBonus scores shared critical medical keywords, 0.1 each capped at 0.2.
func keywordBonus(query, entry map[string]struct{}) float64 {
	shared := 0
	for k := range query {
		if _, crit := criticalKeywords[k]; !crit {
			continue
		}
		if _, ok := entry[k]; ok {
			shared++
		}
	}
	bonus := float64(shared) * keywordBonusEach
	if bonus > keywordBonusCap {
		return keywordBonusCap
	}
	return bonus
}

// Matcher scores queries against a fixed reference catalog. The catalog is
// read-only; Matcher is safe for concurrent use.
type Matcher struct {
	cases []types.CatalogCase

	// Tokenized "name + description" per case, built once.
	caseTokens []map[string]struct{}
}

// NewMatcher builds a matcher over the given catalog.
func NewMatcher(cases []types.CatalogCase) *Matcher {
	m := &Matcher{
		cases:      cases,
		caseTokens: make([]map[string]struct{}, len(cases)),
	}
	for i, c := range cases {
		m.caseTokens[i] = tokenize(c.CaseName + " " + c.Description)
	}
	return m
}

// Cases returns the underlying catalog.
func (m *Matcher) Cases() []types.CatalogCase {
	return m.cases
}

// Categorize matches a case description (optionally enriched with symptom
// tags) against the catalog. It returns nil when the catalog is empty, the
// query is blank, or the best candidate scores below the floor.
func (m *Matcher) Categorize(description string, symptoms []string) *types.CaseMatch {
	if len(m.cases) == 0 {
		return nil
	}

	queryText := strings.TrimSpace(description)
	if len(symptoms) > 0 {
		queryText = strings.TrimSpace(queryText + " " + strings.Join(symptoms, " "))
	}
	if queryText == "" {
		return nil
	}

	queryNorm := refdata.NormalizeCaseName(queryText)
	queryTokens := tokenize(queryText)

	// Stage 1: exact match on the normalized case name.
	for _, c := range m.cases {
		if queryNorm == c.CaseNameNorm && queryNorm != "" {
			return &types.CaseMatch{
				Query:           description,
				Case:            c,
				Confidence:      1.0,
				Method:          types.MatchExact,
				MatchedKeywords: []string{queryNorm},
			}
		}
	}

	// Stage 2: scored token overlap across the whole catalog.
	type scored struct {
		idx     int
		score   float64
		matched []string
	}
	candidates := make([]scored, 0, len(m.cases))

	for i, c := range m.cases {
		entryTokens := m.caseTokens[i]

		score := overlapScore(queryTokens, entryTokens)

		if c.CaseNameNorm != "" && queryNorm != "" {
			if strings.Contains(c.CaseNameNorm, queryNorm) {
				score += substringBonus
			} else if strings.Contains(queryNorm, c.CaseNameNorm) {
				score += revSubstringBonus
			}
		}

		if intersects(queryTokens, tokenize(c.Category)) {
			score += categoryBonus
		}

		score += keywordBonus(queryTokens, entryTokens)

		if score > 1.0 {
			score = 1.0
		}

		var matched []string
		for k := range queryTokens {
			if _, ok := entryTokens[k]; ok {
				matched = append(matched, k)
			}
		}
		sort.Strings(matched)

		candidates = append(candidates, scored{idx: i, score: score, matched: matched})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	best := candidates[0]
	if best.score < minScore {
		return nil
	}

	confidence := best.score
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	var method types.MatchMethod
	switch {
	case best.score >= tokenOverlapScore:
		method = types.MatchTokenOverlap
	case best.score >= partialScore:
		method = types.MatchPartial
	default:
		method = types.MatchFallback
	}

	var alternatives []types.CaseAlternative
	for _, c := range candidates[1:] {
		if len(alternatives) == maxAlternatives {
			break
		}
		if c.score <= minScore {
			break
		}
		alternatives = append(alternatives, types.CaseAlternative{
			CaseName: m.cases[c.idx].CaseName,
			Score:    round2(c.score),
		})
	}

	return &types.CaseMatch{
		Query:           description,
		Case:            m.cases[best.idx],
		Confidence:      round2(confidence),
		Method:          method,
		MatchedKeywords: best.matched,
		Alternatives:    alternatives,
	}
}

// TopMatches returns up to n catalog entries ranked by match score against
// the query, for disambiguation displays.
func (m *Matcher) TopMatches(query string, n int) []types.CaseAlternative {
	if len(m.cases) == 0 || strings.TrimSpace(query) == "" || n <= 0 {
		return nil
	}

	queryTokens := tokenize(query)
	queryNorm := refdata.NormalizeCaseName(query)

	type scored struct {
		idx   int
		score float64
	}
	candidates := make([]scored, 0, len(m.cases))
	for i, c := range m.cases {
		score := overlapScore(queryTokens, m.caseTokens[i])
		if queryNorm != "" && queryNorm == c.CaseNameNorm {
			score = 1.0
		} else if c.CaseNameNorm != "" && queryNorm != "" && strings.Contains(c.CaseNameNorm, queryNorm) {
			score += substringBonus
		}
		score += keywordBonus(queryTokens, m.caseTokens[i])
		if score > 1.0 {
			score = 1.0
		}
		candidates = append(candidates, scored{idx: i, score: score})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]types.CaseAlternative, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, types.CaseAlternative{
			CaseName: m.cases[c.idx].CaseName,
			Score:    round2(c.score),
		})
	}
	return out
}

// CasesByCategory returns all catalog entries for a category, matched
// case-insensitively.
func (m *Matcher) CasesByCategory(category string) []types.CatalogCase {
	var out []types.CatalogCase
	for _, c := range m.cases {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

// CasesBySeverity returns all catalog entries at a numeric severity level.
func (m *Matcher) CasesBySeverity(level int) []types.CatalogCase {
	var out []types.CatalogCase
	for _, c := range m.cases {
		if c.SeverityLevel == level {
			out = append(out, c)
		}
	}
	return out
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
