// Package llm implements the LLM Gateway (C5): safety-aware prompt shaping,
// the retry ladder, response extraction, cross-component cooldown
// coordination, and fallback content, wrapping a remote, safety-filtered
// language model specified only as a capability contract (spec §4.5, §6).
package llm

import "context"

// FinishReason distinguishes why a Provider call stopped producing text.
type FinishReason string

const (
	FinishStop   FinishReason = "stop"
	FinishSafety FinishReason = "safety"
	FinishLength FinishReason = "length"
)

// Params carries the per-call generation parameters the gateway controls.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Completion is a single response from a Provider.
type Completion struct {
	Text         string
	FinishReason FinishReason
}

// Provider is the outbound contract for the remote language model (spec
// §6). The module ships no concrete implementation — the real endpoint is
// an external collaborator — only this contract and the gateway that adapts
// it to Generate.
type Provider interface {
	Complete(ctx context.Context, prompt string, params Params) (Completion, error)
}
