package flow

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Batch processes a slice of segments with bounded concurrency, preserving
// segment order in the returned results. It is the note stage's per-batch
// worker pool: each batch of papers is processed with at most
// min(2, batch_size) concurrent workers.
type Batch[T any, R any] struct {
	concurrency int
	process     func(ctx context.Context, segment T) (R, error)
	continueOn  bool
}

// NewBatch builds a Batch node. concurrency <= 0 means sequential
// processing (equivalent to concurrency == 1).
func NewBatch[T any, R any](concurrency int, process func(ctx context.Context, segment T) (R, error)) *Batch[T, R] {
	return &Batch[T, R]{concurrency: concurrency, process: process}
}

// WithContinueOnError makes Run collect per-segment errors instead of
// aborting the batch on the first one; used by the note stage, where a
// single paper's extraction failure must not drop the rest of the batch.
func (b *Batch[T, R]) WithContinueOnError() *Batch[T, R] {
	b.continueOn = true
	return b
}

// Run processes segments with the configured concurrency and returns one
// result per segment that succeeded, in original order, plus the errors of
// the segments that failed, in segment order (nil only if every segment that
// ran succeeded). Without continueOnError the first error cancels the shared
// context, so segments not yet started may neither succeed nor report.
func (b *Batch[T, R]) Run(ctx context.Context, segments []T) ([]R, []error) {
	limit := b.concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]*R, len(segments))
	errs := make([]error, len(segments))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(limit)

	for i, seg := range segments {
		i, seg := i, seg
		group.Go(func() error {
			r, err := b.process(groupCtx, seg)
			if err != nil {
				errs[i] = err
				if !b.continueOn {
					return err
				}
				return nil
			}
			results[i] = &r
			return nil
		})
	}
	_ = group.Wait()

	out := make([]R, 0, len(segments))
	var collected []error
	for i, r := range results {
		if r != nil {
			out = append(out, *r)
		}
		if errs[i] != nil {
			collected = append(collected, errs[i])
		}
	}
	return out, collected
}
