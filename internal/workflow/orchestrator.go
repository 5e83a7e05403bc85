package workflow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tangerg-labs/surveyflow/internal/checkpoint"
	"github.com/tangerg-labs/surveyflow/internal/config"
	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
	"github.com/tangerg-labs/surveyflow/internal/stage/citation"
	"github.com/tangerg-labs/surveyflow/internal/stage/draft"
	"github.com/tangerg-labs/surveyflow/internal/stage/literature"
	"github.com/tangerg-labs/surveyflow/internal/stage/note"
	"github.com/tangerg-labs/surveyflow/internal/stage/theme"
	"github.com/tangerg-labs/surveyflow/internal/store"
	"github.com/tangerg-labs/surveyflow/pkg/result"
	"github.com/tangerg-labs/surveyflow/pkg/xsync"
)

// Stage names, fixed execution order, and per-stage timeouts (spec §4.11
// step 2, §5 "Cancellation and timeouts").
const (
	stageLiterature = "literature_survey"
	stageNote       = "note_taking"
	stageTheme      = "theme_synthesis"
	stageCitation   = "citations"
	stageDraft      = "draft_writing"
)

var stageOrder = []string{stageLiterature, stageNote, stageTheme, stageCitation, stageDraft}

var stageTimeouts = map[string]time.Duration{
	stageLiterature: 1200 * time.Second,
	stageNote:       1200 * time.Second,
	stageTheme:      600 * time.Second,
	stageCitation:   600 * time.Second,
	stageDraft:      1200 * time.Second,
}

// ErrStageTimeout is StageTimeout from spec §7.
var ErrStageTimeout = errors.New("workflow: stage timed out")

// Statistics mirrors spec §6 WorkflowResult.statistics.
type Statistics struct {
	PapersFound        int `json:"papers_found"`
	NotesExtracted     int `json:"notes_extracted"`
	ThemesIdentified   int `json:"themes_identified"`
	GapsIdentified     int `json:"gaps_identified"`
	CitationsGenerated int `json:"citations_generated"`
}

// Result is spec §6's WorkflowResult.
type Result struct {
	Success        bool                  `json:"success"`
	ResearchTopic  string                `json:"research_topic"`
	ExecutionTime  time.Duration         `json:"execution_time"`
	Statistics     Statistics            `json:"statistics"`
	Papers         []model.Paper         `json:"papers"`
	Notes          []model.ResearchNote  `json:"notes"`
	Themes         []model.ResearchTheme `json:"themes"`
	Gaps           []string              `json:"gaps"`
	Citations      []model.Citation      `json:"citations"`
	Draft          *draft.Draft          `json:"draft,omitempty"`
	Bibliography   string                `json:"bibliography"`
	CitationReport *citation.Report      `json:"citation_report,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// Orchestrator sequences the five stages, checkpointing after each and
// returning partial results on failure (spec §4.11).
type Orchestrator struct {
	literature  *literature.Stage
	note        *note.Stage
	theme       *theme.Stage
	citation    *citation.Stage
	draft       *draft.Stage
	checkpoints *checkpoint.Store
	store       store.Store
	gateway     *llm.Gateway
	cfg         config.Config
	sleep       func(context.Context, time.Duration)
	now         func() time.Time
}

// New builds an Orchestrator wiring every stage and shared component.
func New(
	litStage *literature.Stage,
	noteStage *note.Stage,
	themeStage *theme.Stage,
	citationStage *citation.Stage,
	draftStage *draft.Stage,
	checkpoints *checkpoint.Store,
	st store.Store,
	gateway *llm.Gateway,
	cfg config.Config,
) *Orchestrator {
	return &Orchestrator{
		literature: litStage, note: noteStage, theme: themeStage, citation: citationStage, draft: draftStage,
		checkpoints: checkpoints, store: st, gateway: gateway, cfg: cfg,
		sleep: sleepCtx, now: time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Execute runs the full workflow for topic (spec §4.11).
func (o *Orchestrator) Execute(ctx context.Context, topic string, opts Options) (Result, error) {
	start := o.now()
	if err := opts.Validate(topic); err != nil {
		return Result{Success: false, ResearchTopic: topic, Error: err.Error()}, err
	}

	slug := checkpoint.Slugify(topic)
	result := Result{ResearchTopic: topic}
	progress := func(step int, desc string) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(step, desc)
		}
	}

	papers, skippedLit, err := runStage(ctx, o, slug, stageLiterature, opts.ResumeFromCheckpoint,
		func(ctx context.Context) ([]model.Paper, error) {
			return o.literature.Run(ctx, literature.Input{
				Topic: topic, Aspects: opts.Aspects, MaxPapers: opts.MaxPapers, DateFrom: opts.DateFrom,
			})
		})
	if err != nil {
		return o.fail(result, start, err, progress)
	}
	if !skippedLit {
		progress(1, fmt.Sprintf("Found %d papers", len(papers)))
	}
	result.Papers = papers
	result.Statistics.PapersFound = len(papers)
	for _, p := range papers {
		_ = o.store.SavePaper(p)
	}

	notes, skippedNote, err := runStage(ctx, o, slug, stageNote, opts.ResumeFromCheckpoint,
		func(ctx context.Context) ([]model.ResearchNote, error) {
			return o.note.Run(ctx, topic, papers)
		})
	if err != nil {
		return o.fail(result, start, err, progress)
	}
	if !skippedNote {
		progress(2, fmt.Sprintf("Extracted %d notes", len(notes)))
	}
	result.Notes = notes
	result.Statistics.NotesExtracted = len(notes)
	for _, n := range notes {
		_ = o.store.SaveNote(n)
	}

	type themeOutput struct {
		Themes []model.ResearchTheme
		Gaps   []string
	}
	themeOut, skippedTheme, err := runStage(ctx, o, slug, stageTheme, opts.ResumeFromCheckpoint,
		func(ctx context.Context) (themeOutput, error) {
			themes, gaps, err := o.theme.Run(ctx, topic, notes)
			return themeOutput{Themes: themes, Gaps: gaps}, err
		})
	if err != nil {
		return o.fail(result, start, err, progress)
	}
	if !skippedTheme {
		progress(3, fmt.Sprintf("Identified %d themes", len(themeOut.Themes)))
	}
	result.Themes = themeOut.Themes
	result.Gaps = themeOut.Gaps
	result.Statistics.ThemesIdentified = len(themeOut.Themes)
	result.Statistics.GapsIdentified = len(themeOut.Gaps)
	for _, t := range themeOut.Themes {
		_ = o.store.SaveTheme(t)
	}

	citationOut, skippedCit, err := runStage(ctx, o, slug, stageCitation, opts.ResumeFromCheckpoint,
		func(ctx context.Context) (citation.Result, error) {
			return o.citation.Run(ctx, papers)
		})
	if err != nil {
		return o.fail(result, start, err, progress)
	}
	if !skippedCit {
		progress(4, fmt.Sprintf("Generated %d citations", len(citationOut.Citations)))
	}
	result.Citations = citationOut.Citations
	result.Bibliography = citationOut.Bibliography
	result.CitationReport = &citationOut.QualityReport
	result.Statistics.CitationsGenerated = len(citationOut.Citations)
	for _, c := range citationOut.Citations {
		_ = o.store.SaveCitation(c)
	}

	citationKeys := make(map[string]string, len(citationOut.Citations))
	for _, c := range citationOut.Citations {
		citationKeys[c.PaperID] = c.Key
	}

	draftOut, skippedDraft, err := runStage(ctx, o, slug, stageDraft, opts.ResumeFromCheckpoint,
		func(ctx context.Context) (draft.Draft, error) {
			return o.draft.Run(ctx, topic, themeOut.Themes, papers, themeOut.Gaps, citationKeys)
		})
	if err != nil {
		return o.fail(result, start, err, progress)
	}
	if !skippedDraft {
		progress(5, "Draft complete")
	}
	result.Draft = &draftOut

	if o.cfg.Research.CheckpointEnabled {
		_ = o.checkpoints.Clear(slug)
	}

	result.Success = true
	result.ExecutionTime = o.now().Sub(start)
	return result, nil
}

// fail builds the partial-results failure response (spec §4.11 step 5):
// checkpoints are left intact so the next run can resume. Per spec §7, the
// progress callback receives a final (0, "Error: ...") update on failure.
func (o *Orchestrator) fail(result Result, start time.Time, err error, progress func(int, string)) (Result, error) {
	result.Success = false
	result.Error = err.Error()
	result.ExecutionTime = o.now().Sub(start)
	progress(0, fmt.Sprintf("Error: %v", err))
	return result, err
}

// runStage is the generic per-stage driver: checkpoint lookup on resume,
// otherwise retry-with-backoff execution under a per-stage timeout, then
// checkpoint save on success. It returns (output, skippedExecution, error).
func runStage[T any](ctx context.Context, o *Orchestrator, slug, stageName string, resume bool, produce func(context.Context) (T, error)) (T, bool, error) {
	var zero T

	if resume && o.cfg.Research.CheckpointEnabled {
		var out T
		hit, err := o.checkpoints.Load(slug, stageName, &out)
		if err != nil && !errors.Is(err, checkpoint.ErrCheckpointCorrupt) {
			return zero, false, err
		}
		if hit {
			return out, true, nil
		}
	}

	out, err := runWithRetry(ctx, o, stageName, produce)
	if err != nil {
		return zero, false, err
	}

	if o.cfg.Research.CheckpointEnabled {
		if err := o.checkpoints.Save(slug, stageName, out); err != nil {
			return out, false, fmt.Errorf("workflow: save checkpoint for %s: %w", stageName, err)
		}
	}
	return out, false, nil
}

// runIsolated runs produce on its own goroutine via xsync.Go so a panic on
// that goroutine is recovered and turned into an error instead of taking the
// whole orchestrator down. A panic in a goroutine that produce starts itself
// (a flow.Parallel task or flow.Batch worker) is not recovered here. The
// outcome is carried back across the channel as a result.Result so the
// value and its error can never come apart.
func runIsolated[T any](ctx context.Context, produce func(context.Context) (T, error)) (T, error) {
	done := make(chan result.Result[T], 1)
	xsync.Go(func() {
		done <- result.New(produce(ctx))
	}, func(panicErr error) {
		done <- result.Err[T](panicErr)
	})
	return (<-done).Get()
}

// runWithRetry runs produce under the stage's timeout, retrying up to
// cfg.Research.MaxRetries times with exponential backoff (30s*2^attempt,
// cap 300s), triggering the gateway's cross-component cooldown on
// API-class errors (spec §4.11 step 2, §5).
func runWithRetry[T any](ctx context.Context, o *Orchestrator, stageName string, produce func(context.Context) (T, error)) (T, error) {
	var zero T
	timeout := stageTimeouts[stageName]

	var lastErr error
	for attempt := 0; attempt <= o.cfg.Research.MaxRetries; attempt++ {
		stageCtx := ctx
		var cancel context.CancelFunc
		if timeout > 0 {
			stageCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		out, err := runIsolated(stageCtx, produce)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return out, nil
		}
		lastErr = err
		if errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
			lastErr = fmt.Errorf("%w: %s: %v", ErrStageTimeout, stageName, err)
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if errors.Is(err, literature.ErrNoPapersFound) {
			// Terminal for the whole workflow (spec §7) — no point retrying.
			break
		}
		if o.gateway != nil && llm.IsAPIClass(err) {
			if cooldown, reason := llm.ClassifyError(err); cooldown {
				o.gateway.Cooldown(reason)
			}
		}
		if attempt == o.cfg.Research.MaxRetries {
			break
		}
		backoff := time.Duration(math.Min(300, 30*math.Pow(2, float64(attempt)))) * time.Second
		o.sleep(ctx, backoff)
	}
	return zero, fmt.Errorf("workflow: stage %s failed after %d attempts: %w", stageName, o.cfg.Research.MaxRetries+1, lastErr)
}
