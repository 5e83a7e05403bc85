package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

func TestMemorySavePaperAndGetPaper(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SavePaper(model.Paper{ID: "p1", Title: "A"}))

	got, err := m.GetPaper("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Title)

	missing, err := m.GetPaper("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemorySearchPapersSortsByCitations(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SavePaper(model.Paper{ID: "p1", Title: "A", CitationCount: 1}))
	require.NoError(t, m.SavePaper(model.Paper{ID: "p2", Title: "B", CitationCount: 10}))

	out, err := m.SearchPapers("", 0, SortByCitations)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[0].ID)
}

func TestMemorySearchPapersSortsByDate(t *testing.T) {
	m := NewMemory()
	old := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.SavePaper(model.Paper{ID: "p1", PublishedDate: &old}))
	require.NoError(t, m.SavePaper(model.Paper{ID: "p2", PublishedDate: &recent}))

	out, err := m.SearchPapers("", 0, SortByDate)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "p2", out[0].ID)
}

func TestMemorySearchPapersRespectsLimit(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SavePaper(model.Paper{ID: "p1", Title: "A"}))
	require.NoError(t, m.SavePaper(model.Paper{ID: "p2", Title: "B"}))

	out, err := m.SearchPapers("", 1, SortByRelevance)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestMemoryNotesThemesCitations(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SaveNote(model.ResearchNote{ID: "n1", PaperID: "p1"}))
	require.NoError(t, m.SaveNote(model.ResearchNote{ID: "n2", PaperID: "p2"}))
	require.NoError(t, m.SaveTheme(model.ResearchTheme{ID: "t1"}))
	require.NoError(t, m.SaveCitation(model.Citation{ID: "c1"}))

	notesForP1, err := m.GetNotesForPaper("p1")
	require.NoError(t, err)
	require.Len(t, notesForP1, 1)
	assert.Equal(t, "n1", notesForP1[0].ID)

	allNotes, err := m.GetAllNotes()
	require.NoError(t, err)
	assert.Len(t, allNotes, 2)

	themes, err := m.GetAllThemes()
	require.NoError(t, err)
	assert.Len(t, themes, 1)

	citations, err := m.GetAllCitations()
	require.NoError(t, err)
	assert.Len(t, citations, 1)
}

func TestMemoryGetStats(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.SavePaper(model.Paper{ID: "p1"}))
	require.NoError(t, m.SaveNote(model.ResearchNote{ID: "n1", PaperID: "p1"}))
	require.NoError(t, m.SaveTheme(model.ResearchTheme{ID: "t1"}))
	require.NoError(t, m.SaveCitation(model.Citation{ID: "c1"}))

	stats, err := m.GetStats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Papers: 1, Notes: 1, Themes: 1, Citations: 1}, stats)
}
