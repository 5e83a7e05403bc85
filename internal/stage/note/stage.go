// Package note implements the Note Stage (C7): batched, per-paper note
// extraction via the LLM gateway, with progressive inter-batch pacing and
// per-paper failure isolation (spec §4.7).
package note

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tangerg-labs/surveyflow/flow"
	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
)

// DefaultBatchSize is B in spec §4.7.1.
const DefaultBatchSize = 2

// MinContentLenForLLM is the content-length floor below which a paper skips
// LLM extraction entirely in favor of a single minimal note (spec §4.7.3).
const MinContentLenForLLM = 50

// Stage extracts ResearchNotes from a ranked paper list.
type Stage struct {
	gen       Generator
	batchSize int
	sleep     func(context.Context, time.Duration)
	logger    *slog.Logger
}

// New builds a Stage calling gen for every paper with non-trivial content.
func New(gen Generator, logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{gen: gen, batchSize: DefaultBatchSize, sleep: sleepCtx, logger: logger}
}

// WithBatchSize overrides the default batch size B — the adaptive lowering
// spec §4.7.1 describes under memory pressure is the caller's call to make.
func (s *Stage) WithBatchSize(n int) *Stage {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Run partitions papers into batches, processes each batch with bounded
// concurrency, and returns every note extracted. Per-paper failures are
// logged and skipped; they never fail the stage.
func (s *Stage) Run(ctx context.Context, topic string, papers []model.Paper) ([]model.ResearchNote, error) {
	batches := chunk(papers, s.batchSize)

	var all []model.ResearchNote
	for batchIdx, batch := range batches {
		if err := ctx.Err(); err != nil {
			return all, err
		}

		concurrency := s.batchSize
		if concurrency > 2 {
			concurrency = 2
		}
		if concurrency > len(batch) {
			concurrency = len(batch)
		}

		runner := flow.NewBatch(concurrency, func(ctx context.Context, p model.Paper) ([]model.ResearchNote, error) {
			return s.processPaper(ctx, topic, p)
		}).WithContinueOnError()

		results, errs := runner.Run(ctx, batch)
		for _, err := range errs {
			s.logger.Warn("note extraction failed for paper", slog.String("error", err.Error()))
		}
		for _, notes := range results {
			all = append(all, notes...)
		}

		if batchIdx < len(batches)-1 {
			pause := time.Duration(2*(batchIdx+1)) * time.Second
			if pause > 6*time.Second {
				pause = 6 * time.Second
			}
			s.sleep(ctx, pause)
		}
	}
	return all, nil
}

// processPaper implements spec §4.7.3 for a single paper.
func (s *Stage) processPaper(ctx context.Context, topic string, p model.Paper) ([]model.ResearchNote, error) {
	content := p.Content()
	if len(content) < MinContentLenForLLM {
		return []model.ResearchNote{
			model.NewNote(uuid.NewString(), p.ID, content, model.NoteAbstract, 0.5),
		}, nil
	}

	domain := llm.DomainGeneric

	sections, err := s.gen.Generate(ctx, sectionsPrompt(topic, p, content), "", domain)
	if err != nil {
		return nil, fmt.Errorf("note: sections generation for paper %s: %w", p.ID, err)
	}
	insights, err := s.gen.Generate(ctx, insightsPrompt(topic, p, content), "", domain)
	if err != nil {
		return nil, fmt.Errorf("note: insights generation for paper %s: %w", p.ID, err)
	}

	var notes []model.ResearchNote
	for _, sec := range parseSections(sections.Text) {
		notes = append(notes, model.NewNote(uuid.NewString(), p.ID, sec.Content, sec.Type, 0.7))
	}
	for _, ins := range parseInsights(insights.Text) {
		notes = append(notes, model.NewNote(uuid.NewString(), p.ID, ins.Content, ins.Type, ins.Confidence))
	}
	return notes, nil
}

func sectionsPrompt(topic string, p model.Paper, content string) string {
	return fmt.Sprintf(
		"Topic: %s\nPaper: %s\n\nExtract the following labeled sections from this paper's content. "+
			"Use exactly the labels ABSTRACT:, INTRODUCTION:, METHODOLOGY:, FINDINGS:, LIMITATIONS:, FUTURE_WORK:, "+
			"writing \"Not available\" for any section the content does not support.\n\n%s",
		topic, p.Title, content)
}

func insightsPrompt(topic string, p model.Paper, content string) string {
	return fmt.Sprintf(
		"Topic: %s\nPaper: %s\n\nEnumerate 3-5 key insights from this paper's content. For each, provide "+
			"CONTENT:, IMPORTANCE:, TYPE: (one of key_finding, methodology, limitation, future_work), "+
			"and CONFIDENCE: (a number between 0.6 and 0.9).\n\n%s",
		topic, p.Title, content)
}

func chunk(papers []model.Paper, size int) [][]model.Paper {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][]model.Paper
	for i := 0; i < len(papers); i += size {
		end := i + size
		if end > len(papers) {
			end = len(papers)
		}
		out = append(out, papers[i:end])
	}
	return out
}
