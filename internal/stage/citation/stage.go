package citation

import (
	"context"

	"github.com/google/uuid"

	"github.com/tangerg-labs/surveyflow/internal/model"
	"github.com/tangerg-labs/surveyflow/internal/source"
	"github.com/tangerg-labs/surveyflow/pkg/ptr"
)

// Stage formats citations for a paper list, optionally enriching
// DOI-bearing papers via a CrossRef-capable adapter first (spec §4.9).
type Stage struct {
	enricher source.Adapter
}

// New builds a Stage. enricher may be nil to skip enrichment entirely.
func New(enricher source.Adapter) *Stage {
	return &Stage{enricher: enricher}
}

// Result is the Citation Stage's output: the citation list, its
// APA-ordered bibliography string, and the quality report (spec §4.9).
type Result struct {
	Citations     []model.Citation
	Bibliography  string
	QualityReport Report
}

// Run implements the full C9 algorithm: enrichment, key generation,
// four-format rendering, bibliography assembly, and quality scoring.
func (s *Stage) Run(ctx context.Context, papers []model.Paper) (Result, error) {
	enriched := make([]model.Paper, len(papers))
	copy(enriched, papers)

	if s.enricher != nil {
		for i, p := range enriched {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			if p.DOI == "" {
				continue
			}
			candidate, err := s.enricher.GetByDOI(ctx, p.DOI)
			if err != nil || candidate == nil {
				continue
			}
			enriched[i] = enrich(p, *candidate)
		}
	}

	keys := generateKeys(enriched)
	byID := make(map[string]model.Paper, len(enriched))
	citations := make([]model.Citation, 0, len(enriched))
	for _, p := range enriched {
		byID[p.ID] = p
		c := Format(p, keys[p.ID])
		c.ID = uuid.NewString()
		citations = append(citations, c)
	}

	bibliography := AssembleBibliography(citations, byID)
	report := BuildReport(enriched)

	return Result{Citations: citations, Bibliography: bibliography, QualityReport: report}, nil
}

// enrich prefers the enrichment candidate's fields over the original's when
// the candidate is strictly more complete: longer title, longer abstract,
// larger author list, or a more specific (longer) venue string (spec
// §4.9.2).
func enrich(original, candidate model.Paper) model.Paper {
	out := original
	if len(candidate.Title) > len(out.Title) {
		out.Title = candidate.Title
	}
	if len(candidate.Abstract) > len(out.Abstract) {
		out.Abstract = candidate.Abstract
	}
	if len(candidate.Authors) > len(out.Authors) {
		out.Authors = candidate.Authors
	}
	if len(candidate.Venue) > len(out.Venue) {
		out.Venue = candidate.Venue
	}
	out.PublishedDate = ptr.Coalesce(out.PublishedDate, candidate.PublishedDate)
	if out.CitationCount == 0 && candidate.CitationCount > 0 {
		out.CitationCount = candidate.CitationCount
	}
	return out
}
