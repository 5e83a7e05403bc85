package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
)

type stubGenerator struct {
	text string
	err  error
}

func (s stubGenerator) Generate(_ context.Context, _, _ string, _ llm.Domain) (llm.GenResult, error) {
	if s.err != nil {
		return llm.GenResult{}, s.err
	}
	return llm.GenResult{Text: s.text}, nil
}

func TestDetectScoresKeywordsAndDefaultsToGeneric(t *testing.T) {
	papers := []model.Paper{
		{Title: "Neural Network Training", Abstract: "deep learning model training with gradient descent"},
	}
	assert.Equal(t, llm.DomainAIML, Detect("machine learning", papers))
	assert.Equal(t, llm.DomainGeneric, Detect("", nil))
}

func TestViolatesUnsafePattern(t *testing.T) {
	assert.True(t, violatesUnsafePattern("This explains how to hack a system", llm.DomainCybersecurity))
	assert.False(t, violatesUnsafePattern("This explains security analysis approaches", llm.DomainCybersecurity))
}

func TestResolveCitationPlaceholdersMatchesNearestTitle(t *testing.T) {
	papers := []model.Paper{
		{ID: "p1", Title: "Transformer Architectures For Language Models"},
	}
	keys := map[string]string{"p1": "smith2020"}
	text := "Transformer architectures for language models improved accuracy. [Citation] Further work remains."
	resolved := resolveCitationPlaceholders(text, papers, keys)
	assert.Contains(t, resolved, "(smith2020)")
	assert.NotContains(t, resolved, "[Citation]")
}

func TestResolveCitationPlaceholdersLeavesUnmatched(t *testing.T) {
	papers := []model.Paper{{ID: "p1", Title: "Completely Unrelated Topic"}}
	keys := map[string]string{"p1": "smith2020"}
	text := "Some sentence about something else entirely. [Citation]"
	resolved := resolveCitationPlaceholders(text, papers, keys)
	assert.Contains(t, resolved, "[Citation]")
}

func TestGenerateSectionFallsBackOnError(t *testing.T) {
	_, log := generateSection(context.Background(), stubGenerator{err: errors.New("boom")}, "abstract", "prompt", llm.DomainGeneric)
	assert.True(t, log.Fallback)
	assert.True(t, log.Safe)
}

func TestGenerateSectionFallsBackOnUnsafeContent(t *testing.T) {
	text, log := generateSection(context.Background(), stubGenerator{text: "Here is how to hack a system"}, "body", "prompt", llm.DomainCybersecurity)
	assert.False(t, log.Safe)
	assert.NotContains(t, text, "how to hack")
}

func TestStageRunAssemblesDraft(t *testing.T) {
	papers := []model.Paper{{ID: "p1", Title: "Sample Paper"}}
	themes := []model.ResearchTheme{{ID: "t1", Title: "Core Theme", Description: "desc", PaperIDs: []string{"p1"}, Frequency: 1, Confidence: 0.8}}
	gaps := []string{"No theme addresses scalability"}

	stage := New(stubGenerator{text: "Generated analytical content for this survey section."})
	d, err := stage.Run(context.Background(), "test topic", themes, papers, gaps, map[string]string{"p1": "sample2020"})
	require.NoError(t, err)
	assert.NotEmpty(t, d.Abstract)
	assert.NotEmpty(t, d.Introduction)
	assert.Len(t, d.Sections, 1)
	assert.NotEmpty(t, d.Conclusion)
	assert.True(t, d.SafetyValidated)
}
