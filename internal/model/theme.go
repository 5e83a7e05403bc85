package model

import "fmt"

// DefaultMinClusterSize is the minimum note count for a cluster to become a
// ResearchTheme (spec §3, §9 open question #1 — exposed via config).
const DefaultMinClusterSize = 3

// MaxThemeTitleLen and MaxThemeDescriptionLen clamp theme text fields.
const (
	MaxThemeTitleLen       = 100
	MaxThemeDescriptionLen = 500
)

// ResearchTheme is a synthesized cluster of notes sharing a topic.
type ResearchTheme struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PaperIDs       []string `json:"paper_ids"`
	Frequency      int      `json:"frequency"`
	Confidence     float64  `json:"confidence"`
	RelatedThemeIDs []string `json:"related_theme_ids,omitempty"`
}

// Validate enforces that frequency matches the referenced paper count and
// meets the configured minimum cluster size, unless produced by the
// note-type fallback branch (minSize == 0 disables the floor check).
func (t *ResearchTheme) Validate(minSize int) error {
	if t.Frequency != len(t.PaperIDs) {
		return fmt.Errorf("model: theme %s frequency %d != %d referenced papers", t.ID, t.Frequency, len(t.PaperIDs))
	}
	if minSize > 0 && t.Frequency < minSize {
		return fmt.Errorf("model: theme %s frequency %d below minimum %d", t.ID, t.Frequency, minSize)
	}
	if t.Confidence < 0 || t.Confidence > 1 {
		return fmt.Errorf("model: theme %s confidence %.2f out of [0,1]", t.ID, t.Confidence)
	}
	return nil
}
