// Package workflow implements the Workflow Orchestrator (C11): the
// stage-sequencing, checkpointing, and retry logic tying every other
// component together into the single public Execute surface (spec §4.11,
// §6).
package workflow

import (
	"errors"
	"fmt"
	"time"
)

// PaperType selects the draft's framing (spec §6).
type PaperType string

const (
	PaperTypeSurvey   PaperType = "survey"
	PaperTypeReview   PaperType = "review"
	PaperTypeAnalysis PaperType = "analysis"
)

// ErrValidation is ValidationError from spec §7: bad options fail fast
// before any work begins.
var ErrValidation = errors.New("workflow: invalid options")

// ProgressCallback receives (step, description) updates as stages complete
// or fail (spec §6).
type ProgressCallback func(step int, description string)

// Options is the explicit option set of spec §6's execute(topic, options).
type Options struct {
	Aspects              []string
	MaxPapers            int
	PaperType            PaperType
	DateFrom             *time.Time
	ProgressCallback     ProgressCallback
	ResumeFromCheckpoint bool
}

// DefaultOptions returns the spec-documented option defaults, topic
// supplied separately by the caller.
func DefaultOptions() Options {
	return Options{
		MaxPapers:            100,
		PaperType:            PaperTypeSurvey,
		ResumeFromCheckpoint: true,
	}
}

// Validate enforces the documented constraints; a bad option surfaces as
// ErrValidation before any stage runs (spec §7 "ValidationError").
func (o Options) Validate(topic string) error {
	if topic == "" {
		return fmt.Errorf("%w: topic is required", ErrValidation)
	}
	if o.MaxPapers <= 0 {
		return fmt.Errorf("%w: max_papers must be > 0", ErrValidation)
	}
	switch o.PaperType {
	case PaperTypeSurvey, PaperTypeReview, PaperTypeAnalysis:
	default:
		return fmt.Errorf("%w: paper_type must be one of survey, review, analysis", ErrValidation)
	}
	return nil
}
