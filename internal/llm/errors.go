package llm

import (
	"errors"

	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
)

// Error taxonomy for the LLM Gateway (spec §7). Provider implementations
// wrap one of these with fmt.Errorf("...: %w", ...) so the gateway can
// classify failures with errors.Is.
var (
	ErrSafetyBlocked = errors.New("llm: safety blocked")
	ErrQuotaExceeded = errors.New("llm: quota exceeded")
	ErrRateLimited   = errors.New("llm: rate limited")
	ErrTimeout       = errors.New("llm: timeout")
	ErrUnavailable   = errors.New("llm: unavailable")
)

// classify reports whether err should trigger the cross-component cooldown
// and, if so, under which reason (spec §4.5 "Cooldown coordination":
// quota/rate classes cooldown, timeouts do not).
func classify(err error) (cooldown bool, reason ratelimit.CooldownReason) {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return true, ratelimit.ReasonQuota
	case errors.Is(err, ErrRateLimited):
		return true, ratelimit.ReasonRate
	case errors.Is(err, ErrTimeout):
		return false, ratelimit.ReasonTimeout
	default:
		return false, ratelimit.ReasonOther
	}
}

// ClassifyError exports classify for callers outside the package — the
// workflow orchestrator uses it to decide whether a stage failure warrants
// triggering the gateway's cross-component cooldown (spec §4.11 step 2).
func ClassifyError(err error) (cooldown bool, reason ratelimit.CooldownReason) {
	return classify(err)
}

// IsAPIClass reports whether err is one of the LLM gateway's sentinel
// error classes at all (quota, rate, timeout, unavailable, safety),
// as opposed to an error from an unrelated stage (e.g. a source adapter).
func IsAPIClass(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrSafetyBlocked)
}
