package llm

import (
	"context"
	"strings"
	"time"

	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
	"github.com/tangerg-labs/surveyflow/pkg/xsync"
)

// MaxConcurrentCalls bounds how many Provider.Complete calls may be in
// flight at once, independent of the pacer's request-interval spacing —
// concurrent note/theme/draft batches can all reach the gateway at the same
// time once their pacing wait clears.
const MaxConcurrentCalls = 4

// MinRequestInterval is the minimum pacing between any two Generate calls
// from any caller (spec §4.5 "Rate pacing").
const MinRequestInterval = 500 * time.Millisecond

// ProcessWideCooldown equals the research.api_cooldown default in
// config.Default. The gateway does not apply it: a quota/rate-classed error
// triggers the pacer's ratelimit cooldown for that reason instead (25s for
// quota, 15s for rate, added to any cooldown still running, capped at 120s).
const ProcessWideCooldown = 60 * time.Second

// MaxAttempts is the retry ladder length (spec §4.5).
const MaxAttempts = 3

// MinValidResponseLen is the minimum trimmed length for a response to be
// accepted (spec §4.5 "Response extraction").
const MinValidResponseLen = 20

// AttemptLog records one retry-ladder attempt for the caller-visible
// generation log (spec §4.10 metadata.generation_log).
type AttemptLog struct {
	Attempt      int
	Temperature  float64
	FinishReason FinishReason
	Accepted     bool
}

// GenResult is the outcome of a Generate call.
type GenResult struct {
	Text          string
	Fallback      bool
	GenerationLog []AttemptLog
}

// Gateway wraps a Provider with safety shaping, the retry ladder, response
// extraction, and fallback content. Every Generate call first waits on a
// single limiter that doubles as the rate pacer and the cross-component
// cooldown coordinator (spec §4.5 "Cooldown coordination", "Rate pacing").
// Calls are spaced by MinRequestInterval but not serialized: up to
// MaxConcurrentCalls Provider calls may be in flight at once.
type Gateway struct {
	provider        Provider
	pacer           *ratelimit.Limiter
	inFlight        *xsync.Limiter
	baseTemperature float64
	maxTokens       int
}

// New builds a Gateway around provider, with the given base temperature and
// max-tokens budget (spec §6 llm.temperature, llm.max_tokens).
func New(provider Provider, baseTemperature float64, maxTokens int) *Gateway {
	return &Gateway{
		provider:        provider,
		pacer:           ratelimit.New(1e6, MinRequestInterval),
		inFlight:        xsync.NewLimiter(MaxConcurrentCalls),
		baseTemperature: baseTemperature,
		maxTokens:       maxTokens,
	}
}

// Cooldown triggers the gateway's process-wide cooldown directly, for
// callers (the workflow orchestrator, spec §4.11 step 2) that need to react
// to a stage-level API-class failure beyond what Generate already absorbs
// per attempt.
func (g *Gateway) Cooldown(reason ratelimit.CooldownReason) {
	g.pacer.Cooldown(reason)
}

// Generate produces a response for prompt, shaped for domain and optionally
// prefixed by systemPrompt. It always returns a non-empty string: either the
// provider's accepted response, or a domain-templated fallback when every
// retry attempt is exhausted (spec §4.5 "Fallback" — Generate never returns
// an error from provider failures, only from context cancellation).
func (g *Gateway) Generate(ctx context.Context, prompt, systemPrompt string, domain Domain) (GenResult, error) {
	if err := g.pacer.Acquire(ctx); err != nil {
		return GenResult{}, err
	}

	result := GenResult{}
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		shaped := g.attemptPrompt(prompt, domain, attempt)
		prefixLen := len(academicPreamble(domain))
		if systemPrompt != "" {
			shaped = systemPrompt + "\n\n" + shaped
			prefixLen += len(systemPrompt) + 2
		}
		shaped = truncateToTokenBudget(shaped, prefixLen, g.maxTokens)

		temp := g.attemptTemperature(attempt)
		completion, err := g.complete(ctx, shaped, temp)

		if err != nil {
			if cooldown, reason := classify(err); cooldown {
				g.pacer.Cooldown(reason)
			}
			result.GenerationLog = append(result.GenerationLog, AttemptLog{Attempt: attempt, Temperature: temp, Accepted: false})
			g.waitBetweenAttempts(ctx, attempt)
			continue
		}

		accepted := isValid(completion)
		result.GenerationLog = append(result.GenerationLog, AttemptLog{
			Attempt: attempt, Temperature: temp, FinishReason: completion.FinishReason, Accepted: accepted,
		})
		if accepted {
			result.Text = strings.TrimSpace(completion.Text)
			return result, nil
		}
		g.waitBetweenAttempts(ctx, attempt)
	}

	result.Text = FallbackTemplate(domain)
	result.Fallback = true
	return result, nil
}

// complete bounds the number of Provider.Complete calls in flight at once to
// MaxConcurrentCalls, independent of the pacer's per-request spacing.
func (g *Gateway) complete(ctx context.Context, shaped string, temp float64) (Completion, error) {
	if err := g.inFlight.Acquire(ctx); err != nil {
		return Completion{}, err
	}
	defer g.inFlight.Release()
	return g.provider.Complete(ctx, shaped, Params{Temperature: temp, MaxTokens: g.maxTokens})
}

// attemptPrompt builds the prompt variant for this attempt of the retry
// ladder (spec §4.5 "Retry ladder").
func (g *Gateway) attemptPrompt(prompt string, domain Domain, attempt int) string {
	switch attempt {
	case 1:
		return shapePrompt(prompt, domain)
	case 2:
		return ultraSafePrompt(prompt, domain)
	default:
		return minimalPrompt(domain)
	}
}

// attemptTemperature reduces temperature by 0.05 per attempt beyond the
// first, floored at 0.05.
func (g *Gateway) attemptTemperature(attempt int) float64 {
	t := g.baseTemperature - 0.05*float64(attempt-1)
	if t < 0.05 {
		t = 0.05
	}
	return t
}

// waitBetweenAttempts sleeps min(5s, attempt*2s) between retry-ladder
// attempts, or returns immediately if ctx is done.
func (g *Gateway) waitBetweenAttempts(ctx context.Context, attempt int) {
	if attempt >= MaxAttempts {
		return
	}
	d := time.Duration(attempt) * 2 * time.Second
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// isValid implements spec §4.5 "Response extraction": not a safety block,
// and extracted text length >= MinValidResponseLen after trimming.
func isValid(c Completion) bool {
	if c.FinishReason == FinishSafety {
		return false
	}
	return len(strings.TrimSpace(c.Text)) >= MinValidResponseLen
}
