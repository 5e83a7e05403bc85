package model

import (
	"fmt"
	"time"

	"github.com/tangerg-labs/surveyflow/pkg/textutil"
)

// NoteType enumerates the kinds of fragment the note stage can extract.
type NoteType string

const (
	NoteAbstract    NoteType = "abstract"
	NoteIntro       NoteType = "introduction"
	NoteMethodology NoteType = "methodology"
	NoteFindings    NoteType = "findings"
	NoteLimitations NoteType = "limitations"
	NoteFutureWork  NoteType = "future_work"
	NoteKeyFinding  NoteType = "key_finding"
)

// MaxNoteContentLen is the clamp length for ResearchNote.Content (spec §3).
const MaxNoteContentLen = 500

// ResearchNote is a fragment of extracted text attached to exactly one Paper.
type ResearchNote struct {
	ID         string   `json:"id"`
	PaperID    string   `json:"paper_id"`
	Content    string   `json:"content"`
	Type       NoteType `json:"type"`
	Confidence float64  `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewNote builds a ResearchNote, clamping content to MaxNoteContentLen.
func NewNote(id, paperID, content string, typ NoteType, confidence float64) ResearchNote {
	return ResearchNote{
		ID:         id,
		PaperID:    paperID,
		Content:    textutil.Clamp(content, MaxNoteContentLen),
		Type:       typ,
		Confidence: confidence,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that the note references a known paper id (the caller
// supplies the set of valid ids, since Paper lookups aren't owned here).
func (n *ResearchNote) Validate(knownPaperIDs map[string]struct{}) error {
	if n.PaperID == "" {
		return fmt.Errorf("model: note %s has no paper id", n.ID)
	}
	if _, ok := knownPaperIDs[n.PaperID]; !ok {
		return fmt.Errorf("model: note %s references unknown paper %s", n.ID, n.PaperID)
	}
	if n.Confidence < 0 || n.Confidence > 1 {
		return fmt.Errorf("model: note %s confidence %.2f out of [0,1]", n.ID, n.Confidence)
	}
	return nil
}
