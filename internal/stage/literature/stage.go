// Package literature implements the Literature Stage (C6): parallel
// fan-out to the three source adapters, deduplication, and composite-score
// ranking (spec §4.6).
package literature

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tangerg-labs/surveyflow/flow"
	"github.com/tangerg-labs/surveyflow/internal/dedup"
	"github.com/tangerg-labs/surveyflow/internal/model"
	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
	"github.com/tangerg-labs/surveyflow/internal/source"
)

// ErrNoPapersFound is terminal for the stage (and the whole workflow) when
// every source fails (spec §4.6, §7).
var ErrNoPapersFound = errors.New("literature: no papers found")

// MaxSourceRetries and backoff parameters for a single source's Search call
// (spec §4.6.2).
const (
	MaxSourceRetries  = 3
	BaseBackoff       = 30 * time.Second
	MaxBackoff        = 300 * time.Second
)

// Input to the stage.
type Input struct {
	Topic     string
	Aspects   []string
	MaxPapers int
	DateFrom  *time.Time
}

// Stage runs the literature-acquisition subsystem over a fixed set of
// adapters, one per configured source.
type Stage struct {
	adapters []source.Adapter
	limiters *ratelimit.Registry
	sleep    func(context.Context, time.Duration)
	now      func() time.Time
}

// New builds a Stage querying adapters, each gated by its own entry in
// limiters.
func New(adapters []source.Adapter, limiters *ratelimit.Registry) *Stage {
	return &Stage{
		adapters: adapters,
		limiters: limiters,
		sleep:    sleepCtx,
		now:      time.Now,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Run executes the full algorithm of spec §4.6: fan-out, isolated retry per
// source, merge via dedup, composite-score ranking, truncation.
func (s *Stage) Run(ctx context.Context, in Input) ([]model.Paper, error) {
	tasks := make([]flow.Task[Input, []model.Paper], 0, len(s.adapters))
	for _, adapter := range s.adapters {
		adapter := adapter
		tasks = append(tasks, flow.Task[Input, []model.Paper]{
			Name: string(adapter.Name()),
			Run: func(ctx context.Context, in Input) ([]model.Paper, error) {
				return s.searchWithRetry(ctx, adapter, in)
			},
		})
	}

	node := flow.NewParallel[Input, []model.Paper, []model.Paper](s.aggregate, tasks...)
	papers, err := node.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, ErrNoPapersFound
	}

	merged := dedup.Dedup(papers)
	ranked := rank(merged, in.Topic)
	if len(ranked) > in.MaxPapers {
		ranked = ranked[:in.MaxPapers]
	}
	return ranked, nil
}

// aggregate implements spec §4.6 step 3: "when all three tasks complete (or
// fail), merge". A per-source failure is isolated — it simply contributes no
// papers — and only surfaces as a whole-stage failure if every source fails.
func (s *Stage) aggregate(_ context.Context, outcomes []flow.TaskOutcome[[]model.Paper]) ([]model.Paper, error) {
	var all []model.Paper
	succeeded := 0
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		succeeded++
		all = append(all, o.Value...)
	}
	if succeeded == 0 {
		return nil, ErrNoPapersFound
	}
	return all, nil
}

// searchWithRetry retries a single source's Search up to MaxSourceRetries
// times after the first attempt on SourceUnavailable/SourceRateLimited, with
// exponential backoff capped at MaxBackoff, gated by that source's rate limiter.
func (s *Stage) searchWithRetry(ctx context.Context, adapter source.Adapter, in Input) ([]model.Paper, error) {
	limiter := s.limiters.For(source.Name(adapter.Name()))

	var lastErr error
	for attempt := 0; attempt <= MaxSourceRetries; attempt++ {
		if err := limiter.Acquire(ctx); err != nil {
			return nil, err
		}
		papers, err := adapter.Search(ctx, queryFor(in), in.MaxPapers, in.DateFrom)
		if err == nil {
			return papers, nil
		}
		lastErr = err
		if !errors.Is(err, source.ErrSourceUnavailable) && !errors.Is(err, source.ErrSourceRateLimited) {
			return nil, err
		}
		if errors.Is(err, source.ErrSourceRateLimited) {
			limiter.Cooldown(ratelimit.ReasonRate)
		}
		backoff := time.Duration(math.Min(float64(MaxBackoff), float64(BaseBackoff)*math.Pow(2, float64(attempt))))
		s.sleep(ctx, backoff)
	}
	return nil, fmt.Errorf("literature: source %s exhausted retries: %w", adapter.Name(), lastErr)
}

func queryFor(in Input) string {
	if len(in.Aspects) == 0 {
		return in.Topic
	}
	return in.Topic + " " + strings.Join(in.Aspects, " ")
}
