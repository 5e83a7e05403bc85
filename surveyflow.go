// Package surveyflow is the public entry point: it wires the literature,
// note, theme, citation, and draft stages around a caller-supplied set of
// bibliographic adapters, an LLM provider, and a persistent store, then
// exposes the Workflow API of spec §6.
package surveyflow

import (
	"context"

	"github.com/tangerg-labs/surveyflow/internal/checkpoint"
	"github.com/tangerg-labs/surveyflow/internal/config"
	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
	"github.com/tangerg-labs/surveyflow/internal/source"
	"github.com/tangerg-labs/surveyflow/internal/stage/citation"
	"github.com/tangerg-labs/surveyflow/internal/stage/draft"
	"github.com/tangerg-labs/surveyflow/internal/stage/literature"
	"github.com/tangerg-labs/surveyflow/internal/stage/note"
	"github.com/tangerg-labs/surveyflow/internal/stage/theme"
	"github.com/tangerg-labs/surveyflow/internal/store"
	"github.com/tangerg-labs/surveyflow/internal/workflow"
)

// Re-exported so callers depend only on this package for the common types.
type (
	// Options is the explicit execute() option set (spec §6).
	Options = workflow.Options
	// Result is the WorkflowResult returned by Execute (spec §6).
	Result = workflow.Result
	// Statistics is WorkflowResult.statistics (spec §6).
	Statistics = workflow.Statistics
	// StepStatus describes one stage's checkpoint state (spec §6
	// get_workflow_status).
	StepStatus = checkpoint.StepStatus
)

// DefaultOptions returns the spec-documented option defaults.
func DefaultOptions() Options { return workflow.DefaultOptions() }

// Workflow is the assembled pipeline: literature -> note -> theme ->
// citation -> draft, behind the single Execute/GetWorkflowStatus/
// CleanupFailedWorkflow surface.
type Workflow struct {
	orchestrator *workflow.Orchestrator
}

// New assembles a Workflow from its three outbound contracts: a set of
// bibliographic source adapters (spec §4.1), an LLM provider (spec §4.5),
// and a persistent store (spec §6). cfg supplies the tunables; pass
// config.Default() for the documented defaults. Research.StepTimeout,
// Research.APICooldown and Research.ParallelProcessing are carried in cfg but
// not read by the workflow, and LLM.MinRequestInterval sets the source rate
// limiters' minimum spacing, not the gateway's (fixed at
// llm.MinRequestInterval).
func New(adapters []source.Adapter, provider llm.Provider, st store.Store, cfg config.Config) (*Workflow, error) {
	checkpoints, err := checkpoint.New(cfg.Storage.CacheDir)
	if err != nil {
		return nil, err
	}

	limiters := ratelimit.NewRegistry(cfg.RateLimits, cfg.LLM.MinRequestInterval)
	gateway := llm.New(provider, cfg.LLM.Temperature, cfg.LLM.MaxTokens)

	litStage := literature.New(adapters, limiters)
	noteStage := note.New(gateway, nil)
	themeStage := theme.New(gateway, cfg.ClusterSimilarity, cfg.MinClusterSize)
	citationStage := citation.New(findCrossRef(adapters))
	draftStage := draft.New(gateway)

	orch := workflow.New(litStage, noteStage, themeStage, citationStage, draftStage, checkpoints, st, gateway, cfg)
	return &Workflow{orchestrator: orch}, nil
}

func findCrossRef(adapters []source.Adapter) source.Adapter {
	for _, a := range adapters {
		if a.Name() == source.CrossRef {
			return a
		}
	}
	return nil
}

// Execute runs the full workflow for topic (spec §6 execute).
func (w *Workflow) Execute(ctx context.Context, topic string, opts Options) (Result, error) {
	return w.orchestrator.Execute(ctx, topic, opts)
}

// GetWorkflowStatus reports each stage's checkpoint state for topic (spec
// §6 get_workflow_status).
func (w *Workflow) GetWorkflowStatus(topic string) map[string]StepStatus {
	return w.orchestrator.GetStatus(topic)
}

// CleanupFailedWorkflow clears every checkpoint for topic (spec §6
// cleanup_failed_workflow).
func (w *Workflow) CleanupFailedWorkflow(topic string) (bool, error) {
	return w.orchestrator.CleanupFailed(topic)
}
