// Package dedup implements the Deduplicator (C3): collapsing papers found in
// multiple bibliographic sources into a single merged record per spec §4.3.
package dedup

import (
	"strings"

	"github.com/samber/lo"

	"github.com/tangerg-labs/surveyflow/internal/model"
	"github.com/tangerg-labs/surveyflow/pkg/ptr"
)

// TitleSimilarityThreshold is the Jaccard threshold at or above which two titles,
// combined with matching first-author surnames, mark papers as the same.
const TitleSimilarityThreshold = 0.9

var titleStopwords = map[string]struct{}{
	"with": {}, "from": {}, "that": {}, "this": {}, "into": {}, "using": {},
	"about": {}, "over": {}, "through": {}, "their": {}, "these": {}, "those": {},
	"study": {}, "paper": {}, "towards": {}, "based": {}, "analysis": {},
}

// Dedup collapses papers from multiple sources, merging records deemed the
// same paper per spec §4.3's three predicates.
func Dedup(papers []model.Paper) []model.Paper {
	var kept []model.Paper
	for _, p := range papers {
		idx := -1
		for i := range kept {
			if same(&kept[i], &p) {
				idx = i
				break
			}
		}
		if idx == -1 {
			kept = append(kept, p)
			continue
		}
		kept[idx] = merge(kept[idx], p)
	}
	return kept
}

// same reports whether a and b are the same paper under any of the three
// spec §4.3 predicates.
func same(a, b *model.Paper) bool {
	if a.DOI != "" && b.DOI != "" && strings.EqualFold(strings.TrimSpace(a.DOI), strings.TrimSpace(b.DOI)) {
		return true
	}
	if a.ArxivID != "" && b.ArxivID != "" && strings.EqualFold(strings.TrimSpace(a.ArxivID), strings.TrimSpace(b.ArxivID)) {
		return true
	}
	if titleSimilarity(a.Title, b.Title) >= TitleSimilarityThreshold &&
		a.FirstAuthorLastName() != "" && a.FirstAuthorLastName() == b.FirstAuthorLastName() {
		return true
	}
	return false
}

// titleSimilarity is Jaccard over lowercased alphabetic word sets of length
// >= 4, stopwords removed.
func titleSimilarity(a, b string) float64 {
	setA := titleWords(a)
	setB := titleWords(b)
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

func titleWords(title string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.TrimFunc(w, func(r rune) bool { return !('a' <= r && r <= 'z') })
		if len(w) < 4 {
			continue
		}
		if _, stop := titleStopwords[w]; stop {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// merge combines two records deemed the same paper. The preferred record is
// chosen by: non-null DOI, then longer abstract, then higher citation count;
// fields missing in the preferred record fall back to the other.
func merge(a, b model.Paper) model.Paper {
	preferred, other := a, b
	if !preferDOI(a, b) {
		if swapped := prefer(a, b); swapped {
			preferred, other = b, a
		}
	}

	out := preferred
	if out.Title == "" {
		out.Title = other.Title
	}
	if len(out.Authors) == 0 {
		out.Authors = other.Authors
	}
	if out.FullText == "" {
		out.FullText = other.FullText
	}
	if out.Abstract == "" {
		out.Abstract = other.Abstract
	}
	if out.DOI == "" {
		out.DOI = other.DOI
	}
	if out.ArxivID == "" {
		out.ArxivID = other.ArxivID
	}
	if out.Venue == "" {
		out.Venue = other.Venue
	}
	if out.URL == "" {
		out.URL = other.URL
	}
	out.PublishedDate = ptr.Coalesce(out.PublishedDate, other.PublishedDate)
	if out.CitationCount < other.CitationCount {
		out.CitationCount = other.CitationCount
	}
	out.Keywords = lo.Uniq(append(append([]string{}, out.Keywords...), other.Keywords...))
	return out
}

func preferDOI(a, b model.Paper) bool {
	return a.DOI != "" && b.DOI == ""
}

// prefer reports whether b should be preferred over a, applying the
// abstract-length then citation-count tiebreakers once DOI presence ties.
func prefer(a, b model.Paper) bool {
	aHasDOI, bHasDOI := a.DOI != "", b.DOI != ""
	if aHasDOI != bHasDOI {
		return bHasDOI
	}
	if len(a.Abstract) != len(b.Abstract) {
		return len(b.Abstract) > len(a.Abstract)
	}
	return b.CitationCount > a.CitationCount
}
