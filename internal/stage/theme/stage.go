package theme

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Stage clusters notes into themes and identifies coverage gaps (spec
// §4.8).
type Stage struct {
	gen            Generator
	minClusterSize int
	similarity     float64
}

// New builds a Stage. similarity is the incremental-clustering acceptance
// threshold (spec §9 open question #1, default DefaultClusterSimilarity);
// minClusterSize is the minimum note count for a cluster to become a theme
// in its own right (default model.DefaultMinClusterSize).
func New(gen Generator, similarity float64, minClusterSize int) *Stage {
	if similarity <= 0 {
		similarity = DefaultClusterSimilarity
	}
	if minClusterSize <= 0 {
		minClusterSize = model.DefaultMinClusterSize
	}
	return &Stage{gen: gen, minClusterSize: minClusterSize, similarity: similarity}
}

// Run clusters notes, synthesizes a title/description for each qualifying
// cluster, and returns the resulting themes alongside any identified research
// gaps. Clusters below the minimum size are dropped; only when no cluster
// qualifies are all notes grouped by note type instead.
func (s *Stage) Run(ctx context.Context, topic string, notes []model.ResearchNote) ([]model.ResearchTheme, []string, error) {
	if len(notes) == 0 {
		return nil, nil, nil
	}

	clusters := clusterNotes(notes, s.similarity)

	var qualifying, leftover []cluster
	for _, c := range clusters {
		if len(c.noteIndices) >= s.minClusterSize {
			qualifying = append(qualifying, c)
		} else {
			leftover = append(leftover, c)
		}
	}

	var themes []model.ResearchTheme
	var synth []synthesizedTheme

	for _, c := range qualifying {
		if err := ctx.Err(); err != nil {
			return themes, nil, err
		}
		theme, st := s.buildTheme(ctx, topic, c, notes)
		themes = append(themes, theme)
		synth = append(synth, st)
	}

	if len(qualifying) == 0 && len(leftover) > 0 {
		fallback, fallbackSynth := s.fallbackByNoteType(ctx, topic, leftover, notes)
		themes = append(themes, fallback...)
		synth = append(synth, fallbackSynth...)
	}

	sort.Slice(themes, func(i, j int) bool { return themes[i].Frequency > themes[j].Frequency })

	gaps := identifyGaps(synth)
	return themes, gaps, nil
}

// buildTheme synthesizes a title/description for one qualifying cluster and
// assembles its ResearchTheme.
func (s *Stage) buildTheme(ctx context.Context, topic string, c cluster, notes []model.ResearchNote) (model.ResearchTheme, synthesizedTheme) {
	paperIDs := uniquePaperIDs(c.noteIndices, notes)
	contents := make([]string, 0, len(c.noteIndices))
	for _, idx := range c.noteIndices {
		contents = append(contents, notes[idx].Content)
	}

	result := synthesizeTheme(ctx, s.gen, topic, c, contents)
	// spec §4.8 step 3: confidence grows with cluster size, capped at 0.9.
	confidence := math.Min(0.9, 0.4+0.05*float64(len(c.noteIndices)))

	theme := model.ResearchTheme{
		ID:          uuid.NewString(),
		Title:       clampTitle(result.Title),
		Description: clampDescription(result.Description),
		PaperIDs:    paperIDs,
		Frequency:   len(paperIDs),
		Confidence:  confidence,
	}
	return theme, synthesizedTheme{Title: theme.Title, Description: theme.Description, Confidence: theme.Confidence}
}

// fallbackByNoteType groups leftover (sub-minimum) clusters' notes by
// NoteType when no cluster reaches the minimum size, per spec §4.8.2's
// fallback branch. Frequency floors are disabled for these themes.
func (s *Stage) fallbackByNoteType(ctx context.Context, topic string, leftover []cluster, notes []model.ResearchNote) ([]model.ResearchTheme, []synthesizedTheme) {
	byType := map[model.NoteType][]int{}
	for _, c := range leftover {
		for _, idx := range c.noteIndices {
			byType[notes[idx].Type] = append(byType[notes[idx].Type], idx)
		}
	}

	var themes []model.ResearchTheme
	var synth []synthesizedTheme
	for typ, indices := range byType {
		if len(indices) == 0 {
			continue
		}
		fc := cluster{name: string(typ)}
		for _, idx := range indices {
			fc.noteIndices = append(fc.noteIndices, idx)
			fc.keywords = append(fc.keywords, extractKeywords(notes[idx]))
		}
		theme, st := s.buildTheme(ctx, topic, fc, notes)
		themes = append(themes, theme)
		synth = append(synth, st)
	}
	return themes, synth
}

func uniquePaperIDs(indices []int, notes []model.ResearchNote) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, idx := range indices {
		id := notes[idx].PaperID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func clampTitle(s string) string {
	if len(s) > model.MaxThemeTitleLen {
		return s[:model.MaxThemeTitleLen]
	}
	return s
}

func clampDescription(s string) string {
	if len(s) > model.MaxThemeDescriptionLen {
		return s[:model.MaxThemeDescriptionLen]
	}
	return s
}
