// Package flow provides a small composable pipeline framework: typed nodes
// that transform input to output, sequential composition of nodes, and two
// concurrency shapes (Parallel fan-out, Batch fan-out-over-segments) used by
// the literature and note stages respectively.
package flow

import "context"

// Node is a single processing step that turns an I into an O, observing
// context cancellation.
type Node[I any, O any] interface {
	Run(ctx context.Context, input I) (O, error)
}

// Processor is the function-literal form of Node, for steps that don't need
// their own named type.
type Processor[I any, O any] func(ctx context.Context, input I) (O, error)

// Run implements Node for Processor.
func (p Processor[I, O]) Run(ctx context.Context, input I) (O, error) {
	return p(ctx, input)
}

// Middleware wraps a Node with additional behavior (logging, safety checks,
// retries) while preserving its input/output types.
type Middleware[I any, O any] func(next Node[I, O]) Node[I, O]

// checkContext returns ctx.Err() if the context has already been cancelled.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
