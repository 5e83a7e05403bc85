// Package citation implements the Citation Stage (C9): citation-key
// generation, APA/MLA/BibTeX/Chicago formatting, optional CrossRef
// enrichment, bibliography assembly, and a per-citation quality report
// (spec §4.9).
package citation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// maxAPAAuthors is the truncation point before "et al." in APA format.
const maxAPAAuthors = 20

var nonAlpha = regexp.MustCompile(`[^a-z]`)

// generateKeys assigns a unique citation key to every paper, in input
// order, resolving collisions with the suffix sequence `_a..._z` then
// `_1, _2, ...` (spec §4.9.1).
func generateKeys(papers []model.Paper) map[string]string {
	used := map[string]struct{}{}
	keys := make(map[string]string, len(papers))
	for i, p := range papers {
		base := baseKey(p, i)
		key := base
		if _, taken := used[key]; taken {
			key = resolveCollision(base, used)
		}
		used[key] = struct{}{}
		keys[p.ID] = key
	}
	return keys
}

func baseKey(p model.Paper, index int) string {
	surname := nonAlpha.ReplaceAllString(strings.ToLower(p.FirstAuthorLastName()), "")
	year := p.PublicationYear()
	if surname == "" || year == 0 {
		return fmt.Sprintf("paper%d", index+1)
	}
	return fmt.Sprintf("%s%d", surname, year)
}

func resolveCollision(base string, used map[string]struct{}) string {
	for c := 'a'; c <= 'z'; c++ {
		candidate := base + "_" + string(c)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
	for n := 1; ; n++ {
		candidate := base + "_" + strconv.Itoa(n)
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// Format produces the APA, MLA, BibTeX, and Chicago strings for one paper
// under the given key (spec §4.9.3).
func Format(p model.Paper, key string) model.Citation {
	return model.Citation{
		PaperID: p.ID,
		Key:     key,
		APA:     formatAPA(p),
		MLA:     formatMLA(p),
		BibTeX:  formatBibTeX(p, key),
		Chicago: formatChicago(p),
	}
}

func authorsOrUnknown(p model.Paper) []string {
	if len(p.Authors) == 0 {
		return []string{"Unknown Author"}
	}
	return p.Authors
}

func formatAPA(p model.Paper) string {
	authors := authorsOrUnknown(p)
	var authorPart string
	if len(authors) > maxAPAAuthors {
		authorPart = strings.Join(authors[:maxAPAAuthors], ", ") + ", et al."
	} else {
		authorPart = strings.Join(authors, ", ")
	}
	year := "n.d."
	if y := p.PublicationYear(); y != 0 {
		year = strconv.Itoa(y)
	}
	venue := ""
	if p.Venue != "" {
		venue = " " + p.Venue + "."
	}
	return fmt.Sprintf("%s (%s). %s.%s %s", authorPart, year, p.Title, venue, p.URL)
}

func formatMLA(p model.Paper) string {
	authors := authorsOrUnknown(p)
	var authorPart string
	if len(authors) > 1 {
		authorPart = authors[0] + ", et al."
	} else {
		authorPart = authors[0]
	}
	year := "n.d."
	if y := p.PublicationYear(); y != 0 {
		year = strconv.Itoa(y)
	}
	venue := ""
	if p.Venue != "" {
		venue = p.Venue + ", "
	}
	return fmt.Sprintf("%s. \"%s.\" %s%s.", authorPart, p.Title, venue, year)
}

func formatBibTeX(p model.Paper, key string) string {
	authors := authorsOrUnknown(p)
	authorPart := strings.Join(authors, " and ")
	year := "n.d."
	if y := p.PublicationYear(); y != 0 {
		year = strconv.Itoa(y)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "@article{%s,\n", key)
	fmt.Fprintf(&sb, "  title = {%s},\n", p.Title)
	fmt.Fprintf(&sb, "  author = {%s},\n", authorPart)
	fmt.Fprintf(&sb, "  year = {%s},\n", year)
	if p.Venue != "" {
		fmt.Fprintf(&sb, "  journal = {%s},\n", p.Venue)
	}
	if p.DOI != "" {
		fmt.Fprintf(&sb, "  doi = {%s},\n", p.DOI)
	}
	fmt.Fprintf(&sb, "  url = {%s}\n", p.URL)
	sb.WriteString("}")
	return sb.String()
}

func formatChicago(p model.Paper) string {
	authors := authorsOrUnknown(p)
	authorPart := strings.Join(authors, ", ")
	year := "n.d."
	if y := p.PublicationYear(); y != 0 {
		year = strconv.Itoa(y)
	}
	venue := ""
	if p.Venue != "" {
		venue = p.Venue + ". "
	}
	return fmt.Sprintf("%s. \"%s.\" %s%s.", authorPart, p.Title, venue, year)
}

// AssembleBibliography sorts citations in APA order (first-author last
// name ascending) and renders the combined bibliography string (spec
// §4.9.4).
func AssembleBibliography(citations []model.Citation, papers map[string]model.Paper) string {
	sorted := make([]model.Citation, len(citations))
	copy(sorted, citations)
	sort.Slice(sorted, func(i, j int) bool {
		pi, pj := papers[sorted[i].PaperID], papers[sorted[j].PaperID]
		return pi.FirstAuthorLastName() < pj.FirstAuthorLastName()
	})
	var sb strings.Builder
	for i, c := range sorted {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(c.APA)
	}
	return sb.String()
}
