package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

func TestDedupMergesByDOI(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", Title: "Widget Fabrication", DOI: "10.1000/abc", Abstract: "short"},
		{ID: "p2", Title: "Widget Fabrication (dup)", DOI: "10.1000/ABC", Abstract: "a longer abstract here"},
	}
	out := Dedup(papers)
	require.Len(t, out, 1)
	assert.Equal(t, "a longer abstract here", out[0].Abstract)
}

func TestDedupMergesByArxivID(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", ArxivID: "1234.5678", CitationCount: 3},
		{ID: "p2", ArxivID: "1234.5678", CitationCount: 9},
	}
	out := Dedup(papers)
	require.Len(t, out, 1)
	assert.Equal(t, 9, out[0].CitationCount)
}

func TestDedupMergesByTitleSimilarityAndAuthor(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", Title: "Deep Learning Approaches For Widget Classification", Authors: []string{"Jane Smith"}},
		{ID: "p2", Title: "Deep Learning Approaches For Widget Classification", Authors: []string{"J. Smith"}},
	}
	out := Dedup(papers)
	assert.Len(t, out, 1)
}

func TestDedupKeepsDistinctPapers(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", Title: "Neural Network Training Methods", Authors: []string{"Jane Smith"}},
		{ID: "p2", Title: "Economic Policy Under Uncertainty", Authors: []string{"John Doe"}},
	}
	out := Dedup(papers)
	assert.Len(t, out, 2)
}

func TestDedupPrefersRecordWithDOI(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", ArxivID: "1111.2222", Title: "No DOI Here"},
		{ID: "p2", ArxivID: "1111.2222", Title: "Has DOI", DOI: "10.1000/xyz"},
	}
	out := Dedup(papers)
	require.Len(t, out, 1)
	assert.Equal(t, "10.1000/xyz", out[0].DOI)
}
