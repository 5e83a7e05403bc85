package ratelimit

import (
	"time"

	"github.com/tangerg-labs/surveyflow/internal/source"
)

// Defaults, per spec §4.2: requests per second per source.
const (
	DefaultArXivRPS    = 0.33
	DefaultOpenAlexRPS = 10.0
	DefaultCrossRefRPS = 1.0
)

// Registry owns one Limiter per bibliographic source.
type Registry struct {
	limiters map[source.Name]*Limiter
}

// RatePerSource configures requests-per-second for each source.
type RatePerSource struct {
	ArXiv, OpenAlex, CrossRef float64
}

// DefaultRates returns the spec-documented default rates.
func DefaultRates() RatePerSource {
	return RatePerSource{ArXiv: DefaultArXivRPS, OpenAlex: DefaultOpenAlexRPS, CrossRef: DefaultCrossRefRPS}
}

// NewRegistry builds a Registry with one Limiter per source, each requiring
// at least minInterval between requests in addition to its configured rate.
func NewRegistry(rates RatePerSource, minInterval time.Duration) *Registry {
	return &Registry{limiters: map[source.Name]*Limiter{
		source.ArXiv:    New(rates.ArXiv, minInterval),
		source.OpenAlex: New(rates.OpenAlex, minInterval),
		source.CrossRef: New(rates.CrossRef, minInterval),
	}}
}

// For returns the Limiter for name, or a permissive default if name is not
// one of the three known sources.
func (r *Registry) For(name source.Name) *Limiter {
	if l, ok := r.limiters[name]; ok {
		return l
	}
	return New(1, 0)
}
