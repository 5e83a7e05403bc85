package flow

import (
	"context"
	"errors"
	"sort"
	"testing"
)

func TestSequenceRunsStepsInOrder(t *testing.T) {
	double := Processor[int, int](func(_ context.Context, in int) (int, error) { return in * 2, nil })
	addOne := Processor[int, int](func(_ context.Context, in int) (int, error) { return in + 1, nil })

	seq := NewSequence[int](double, addOne)
	out, err := seq.Run(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 7 {
		t.Fatalf("expected 7, got %d", out)
	}
}

func TestSequenceStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	fail := Processor[int, int](func(_ context.Context, in int) (int, error) { return in, boom })
	neverRuns := Processor[int, int](func(_ context.Context, in int) (int, error) { return 999, nil })

	seq := NewSequence[int](fail, neverRuns)
	out, err := seq.Run(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom error, got %v", err)
	}
	if out != 1 {
		t.Fatalf("expected input unchanged on failure, got %d", out)
	}
}

func TestSequenceRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ran := false
	step := Processor[int, int](func(_ context.Context, in int) (int, error) { ran = true; return in, nil })

	seq := NewSequence[int](step)
	_, err := seq.Run(ctx, 1)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if ran {
		t.Fatal("step should not have run against a cancelled context")
	}
}

func TestParallelIsolatesFailuresAndAggregates(t *testing.T) {
	tasks := []Task[int, int]{
		{Name: "a", Run: func(_ context.Context, in int) (int, error) { return in + 1, nil }},
		{Name: "b", Run: func(_ context.Context, in int) (int, error) { return 0, errors.New("b failed") }},
		{Name: "c", Run: func(_ context.Context, in int) (int, error) { return in + 2, nil }},
	}
	node := NewParallel[int, int, []int](func(_ context.Context, outcomes []TaskOutcome[int]) ([]int, error) {
		var out []int
		for _, o := range outcomes {
			if o.Err == nil {
				out = append(out, o.Value)
			}
		}
		sort.Ints(out)
		return out, nil
	}, tasks...)

	out, err := node.Run(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0] != 11 || out[1] != 12 {
		t.Fatalf("unexpected aggregated output: %v", out)
	}
}

func TestParallelRequiresAtLeastOneTask(t *testing.T) {
	node := NewParallel[int, int, int](func(_ context.Context, _ []TaskOutcome[int]) (int, error) { return 0, nil })
	_, err := node.Run(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for empty task list")
	}
}

func TestBatchRunPreservesOrderWithConcurrency(t *testing.T) {
	b := NewBatch[int, int](2, func(_ context.Context, in int) (int, error) { return in * in, nil })
	out, errs := b.Run(context.Background(), []int{1, 2, 3, 4})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []int{1, 4, 9, 16}
	for i, v := range want {
		if out[i] != v {
			t.Fatalf("index %d: want %d, got %d", i, v, out[i])
		}
	}
}

func TestBatchContinueOnErrorCollectsErrors(t *testing.T) {
	b := NewBatch[int, int](2, func(_ context.Context, in int) (int, error) {
		if in == 2 {
			return 0, errors.New("bad input")
		}
		return in, nil
	}).WithContinueOnError()

	out, errs := b.Run(context.Background(), []int{1, 2, 3})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 successful results, got %d", len(out))
	}
}

func TestBatchAbortsOnFirstErrorWithoutContinueOnError(t *testing.T) {
	b := NewBatch[int, int](1, func(_ context.Context, in int) (int, error) {
		if in == 1 {
			return 0, errors.New("bad input")
		}
		return in, nil
	})

	_, errs := b.Run(context.Background(), []int{1, 2, 3})
	if len(errs) == 0 {
		t.Fatal("expected at least one error")
	}
}
