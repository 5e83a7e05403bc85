package literature

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Composite score weights (spec §4.6 step 4).
const (
	weightRelevance = 0.5
	weightRecency   = 0.3
	weightCitations = 0.2
)

// rank orders papers by the composite score and returns them in descending
// order. Ranking is deterministic given identical inputs (spec §8).
func rank(papers []model.Paper, topic string) []model.Paper {
	queryTokens := tokenize(topic)
	now := time.Now()

	scored := make([]model.Paper, len(papers))
	copy(scored, papers)

	scores := make(map[string]float64, len(scored))
	for _, p := range scored {
		scores[p.ID] = weightRelevance*relevance(p, queryTokens) +
			weightRecency*recency(p, now) +
			weightCitations*citationsNormalized(p)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scores[scored[i].ID] != scores[scored[j].ID] {
			return scores[scored[i].ID] > scores[scored[j].ID]
		}
		return scored[i].ID < scored[j].ID
	})
	return scored
}

func tokenize(text string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		out[w] = struct{}{}
	}
	return out
}

// relevance is a TF-overlap of title+abstract against the query tokens.
func relevance(p model.Paper, queryTokens map[string]struct{}) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	docTokens := tokenize(p.Title + " " + p.Abstract)
	hits := 0
	for t := range queryTokens {
		if _, ok := docTokens[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

// recency is exp(-(now.year - pub.year)/5), 0 if the publication date is
// unknown.
func recency(p model.Paper, now time.Time) float64 {
	year := p.PublicationYear()
	if year == 0 {
		return 0
	}
	delta := float64(now.Year() - year)
	return math.Exp(-delta / 5)
}

func citationsNormalized(p model.Paper) float64 {
	return math.Min(1, float64(p.CitationCount)/100)
}
