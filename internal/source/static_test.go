package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

func TestStaticSearchFiltersByQueryAndTagsSource(t *testing.T) {
	jan := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	papers := []model.Paper{
		{ID: "p1", Title: "Neural Networks", PublishedDate: &jan},
		{ID: "p2", Title: "Economic Policy", PublishedDate: &feb},
	}
	adapter := NewStatic(ArXiv, papers)
	assert.Equal(t, ArXiv, adapter.Name())

	out, err := adapter.Search(context.Background(), "neural", 10, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p1", out[0].ID)
	assert.Equal(t, model.Source(ArXiv), out[0].ExplicitSource)
}

func TestStaticSearchFiltersByDateFrom(t *testing.T) {
	jan := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	papers := []model.Paper{
		{ID: "p1", Title: "Old Paper", PublishedDate: &jan},
		{ID: "p2", Title: "New Paper", PublishedDate: &feb},
	}
	adapter := NewStatic(ArXiv, papers)
	cutoff := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	out, err := adapter.Search(context.Background(), "", 10, &cutoff)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID)
}

func TestStaticSearchRespectsMaxResults(t *testing.T) {
	papers := []model.Paper{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	adapter := NewStatic(ArXiv, papers)
	out, err := adapter.Search(context.Background(), "", 2, nil)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestStaticGetByDOI(t *testing.T) {
	papers := []model.Paper{{ID: "p1", DOI: "10.1000/xyz"}}
	adapter := NewStatic(ArXiv, papers)

	found, err := adapter.GetByDOI(context.Background(), "10.1000/XYZ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "p1", found.ID)

	missing, err := adapter.GetByDOI(context.Background(), "10.1000/none")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFailingStaticReturnsErr(t *testing.T) {
	adapter := NewFailingStatic(ArXiv, ErrSourceUnavailable)
	_, err := adapter.Search(context.Background(), "", 10, nil)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = adapter.GetByDOI(context.Background(), "10.1000/xyz")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
