package surveyflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/config"
	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
	"github.com/tangerg-labs/surveyflow/internal/source"
	"github.com/tangerg-labs/surveyflow/internal/store"
)

type stubProvider struct{}

func (stubProvider) Complete(_ context.Context, _ string, _ llm.Params) (llm.Completion, error) {
	return llm.Completion{Text: "A sufficiently long generated passage for testing.", FinishReason: llm.FinishStop}, nil
}

func TestNewFindsCrossRefAdapterForEnrichment(t *testing.T) {
	adapters := []source.Adapter{
		source.NewStatic(source.ArXiv, nil),
		source.NewStatic(source.CrossRef, []model.Paper{{ID: "p1", DOI: "10.1000/xyz"}}),
	}
	assert.Equal(t, source.CrossRef, findCrossRef(adapters).Name())

	noCrossRef := []source.Adapter{source.NewStatic(source.ArXiv, nil)}
	assert.Nil(t, findCrossRef(noCrossRef))
}

func TestNewBuildsAWorkflowAndExecutesEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.CacheDir = t.TempDir()

	paper := model.Paper{ID: "p1", Title: "Widget Fabrication", Abstract: "An overview of widget fabrication methods in modern manufacturing."}
	adapters := []source.Adapter{
		source.NewStatic(source.ArXiv, []model.Paper{paper}),
		source.NewStatic(source.OpenAlex, nil),
		source.NewStatic(source.CrossRef, nil),
	}

	wf, err := New(adapters, stubProvider{}, store.NewMemory(), cfg)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxPapers = 5
	result, err := wf.Execute(context.Background(), "widget fabrication", opts)
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Draft)

	status := wf.GetWorkflowStatus("widget fabrication")
	for _, s := range status {
		assert.False(t, s.Completed)
	}

	ok, err := wf.CleanupFailedWorkflow("widget fabrication")
	require.NoError(t, err)
	assert.True(t, ok)
}
