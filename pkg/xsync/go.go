package xsync

import "github.com/tangerg-labs/surveyflow/pkg/safe"

// Go launches fn in a new goroutine with panic recovery. The orchestrator
// starts each stage invocation through it (runIsolated); goroutines that a
// stage starts itself (flow.Parallel tasks, flow.Batch workers) are not
// covered by this recovery.
func Go(fn func(), onPanic ...func(error)) {
	safe.Go(fn, onPanic...)
}
