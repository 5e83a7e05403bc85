package flow

import "context"

// Task is a single parallel unit of work: it receives the same input as
// every other task in the group and produces its own typed result.
type Task[I any, R any] struct {
	Name string
	Run  func(ctx context.Context, input I) (R, error)
}

// TaskOutcome pairs a Task's result with the error it produced, if any, so
// an aggregator can tell which task failed without losing partial results.
type TaskOutcome[R any] struct {
	Name  string
	Value R
	Err   error
}

// Parallel runs a fixed set of named tasks concurrently against the same
// input and isolates their failures: one task's error never prevents the
// others from completing or being reflected in the aggregated output. This
// is the literature stage's fan-out across the three bibliographic sources.
type Parallel[I any, R any, O any] struct {
	tasks      []Task[I, R]
	aggregator func(ctx context.Context, outcomes []TaskOutcome[R]) (O, error)
}

// NewParallel builds a Parallel node from tasks, combined by aggregator once
// every task has finished (successfully or not).
func NewParallel[I any, R any, O any](
	aggregator func(ctx context.Context, outcomes []TaskOutcome[R]) (O, error),
	tasks ...Task[I, R],
) *Parallel[I, R, O] {
	return &Parallel[I, R, O]{tasks: tasks, aggregator: aggregator}
}

// Run implements Node for Parallel.
func (p *Parallel[I, R, O]) Run(ctx context.Context, input I) (out O, err error) {
	if len(p.tasks) == 0 {
		return out, errInvalidParallel("at least one task is required")
	}
	outcomes := make([]TaskOutcome[R], len(p.tasks))
	done := make(chan int, len(p.tasks))
	for i, task := range p.tasks {
		i, task := i, task
		go func() {
			v, taskErr := task.Run(ctx, input)
			outcomes[i] = TaskOutcome[R]{Name: task.Name, Value: v, Err: taskErr}
			done <- i
		}()
	}
	for range p.tasks {
		<-done
	}
	return p.aggregator(ctx, outcomes)
}

type parallelError string

func (e parallelError) Error() string { return string(e) }

func errInvalidParallel(msg string) error { return parallelError("flow: " + msg) }
