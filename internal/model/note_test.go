package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNoteClampsContent(t *testing.T) {
	long := strings.Repeat("a", MaxNoteContentLen+50)
	n := NewNote("n1", "p1", long, NoteFindings, 0.9)
	assert.Len(t, n.Content, MaxNoteContentLen)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNoteValidate(t *testing.T) {
	known := map[string]struct{}{"p1": {}}

	n := ResearchNote{ID: "n1", PaperID: "p1", Confidence: 0.5}
	assert.NoError(t, n.Validate(known))

	noPaper := ResearchNote{ID: "n2"}
	assert.Error(t, noPaper.Validate(known))

	unknownPaper := ResearchNote{ID: "n3", PaperID: "p2"}
	assert.Error(t, unknownPaper.Validate(known))

	badConfidence := ResearchNote{ID: "n4", PaperID: "p1", Confidence: 1.5}
	assert.Error(t, badConfidence.Validate(known))
}
