package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaperValidate(t *testing.T) {
	p := Paper{ID: "p1", DOI: "10.1000/xyz123"}
	assert.NoError(t, p.Validate())

	bad := Paper{ID: "p1", DOI: "not-a-doi"}
	assert.Error(t, bad.Validate())

	noID := Paper{}
	assert.Error(t, noID.Validate())

	negCount := Paper{ID: "p1", CitationCount: -1}
	assert.Error(t, negCount.Validate())
}

func TestPaperSourceTag(t *testing.T) {
	assert.Equal(t, SourceArXiv, (&Paper{ArxivID: "1234.5678"}).SourceTag())
	assert.Equal(t, SourceCrossRef, (&Paper{DOI: "10.1000/xyz"}).SourceTag())
	assert.Equal(t, SourceOpenAlex, (&Paper{Venue: "OpenAlex Collection"}).SourceTag())
	assert.Equal(t, SourceUnknown, (&Paper{}).SourceTag())
	assert.Equal(t, SourceOpenAlex, (&Paper{ExplicitSource: SourceOpenAlex, ArxivID: "1"}).SourceTag())
}

func TestPaperFirstAuthorLastName(t *testing.T) {
	assert.Equal(t, "smith", (&Paper{Authors: []string{"Jane Smith"}}).FirstAuthorLastName())
	assert.Equal(t, "", (&Paper{}).FirstAuthorLastName())
}

func TestPaperPublicationYear(t *testing.T) {
	assert.Equal(t, 0, (&Paper{}).PublicationYear())
	d := time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2021, (&Paper{PublishedDate: &d}).PublicationYear())
}

func TestPaperContent(t *testing.T) {
	assert.Equal(t, "abstract text", (&Paper{Abstract: "abstract text"}).Content())
	assert.Equal(t, "full text", (&Paper{Abstract: "abstract text", FullText: "full text"}).Content())
}
