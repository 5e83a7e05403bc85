// Package theme implements the Theme Stage (C8): keyword extraction,
// incremental greedy clustering, theme synthesis via the LLM gateway, and
// research-gap identification (spec §4.8).
package theme

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// MinKeywordLen and MaxKeywordsPerNote bound keyword extraction (spec
// §4.8.1).
const (
	MinKeywordLen      = 4
	MaxKeywordsPerNote = 20
)

// stopwords is the fixed list the spec calls out: ~100 common English words
// plus domain-meta words that show up in every academic note regardless of
// topic.
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		"about", "above", "after", "again", "against", "all", "and", "any",
		"are", "because", "been", "before", "being", "below", "between",
		"both", "but", "cannot", "could", "did", "does", "doing", "down",
		"during", "each", "few", "for", "from", "further", "had", "has",
		"have", "having", "here", "how", "into", "itself", "just", "more",
		"most", "once", "only", "other", "over", "own", "same", "should",
		"some", "such", "than", "that", "the", "their", "theirs", "them",
		"themselves", "then", "there", "these", "they", "this", "those",
		"through", "under", "until", "very", "was", "were", "what", "when",
		"where", "which", "while", "whom", "why", "will", "with", "would",
		"your", "yours", "yourself",
		// domain-meta words the spec singles out.
		"research", "paper", "study", "studies", "authors", "article",
		"results", "based", "using", "used", "work", "approach",
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// extractKeywords returns up to MaxKeywordsPerNote keywords from a note's
// content, ranked by frequency (spec §4.8.1), ties broken alphabetically.
func extractKeywords(note model.ResearchNote) []string {
	counts := map[string]int{}
	for _, w := range strings.FieldsFunc(strings.ToLower(note.Content), func(r rune) bool { return !unicode.IsLetter(r) }) {
		if _, stop := stopwords[w]; !stop && len([]rune(w)) >= MinKeywordLen {
			counts[w]++
		}
	}
	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	if len(ranked) > MaxKeywordsPerNote {
		ranked = ranked[:MaxKeywordsPerNote]
	}
	return ranked
}

func jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func toSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
