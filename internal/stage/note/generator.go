package note

import (
	"context"

	"github.com/tangerg-labs/surveyflow/internal/llm"
)

// Generator is the subset of llm.Gateway the note stage depends on, kept as
// an interface so tests can stub LLM behavior without a real Provider.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, domain llm.Domain) (llm.GenResult, error)
}
