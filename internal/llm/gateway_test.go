package llm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
)

type stubProvider struct {
	completions []Completion
	errs        []error
	calls       int
}

func (s *stubProvider) Complete(_ context.Context, _ string, _ Params) (Completion, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return Completion{}, s.errs[i]
	}
	if i < len(s.completions) {
		return s.completions[i], nil
	}
	return Completion{}, errors.New("stub: no more responses configured")
}

func TestGenerateAcceptsFirstValidResponse(t *testing.T) {
	provider := &stubProvider{completions: []Completion{
		{Text: "A sufficiently long and valid academic response.", FinishReason: FinishStop},
	}}
	gw := New(provider, 0.2, 1000)

	result, err := gw.Generate(context.Background(), "summarize this topic", "", DomainGeneric)
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	assert.Equal(t, "A sufficiently long and valid academic response.", result.Text)
	require.Len(t, result.GenerationLog, 1)
	assert.True(t, result.GenerationLog[0].Accepted)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateRejectsSafetyBlockedAndRetries(t *testing.T) {
	provider := &stubProvider{completions: []Completion{
		{Text: "blocked response", FinishReason: FinishSafety},
		{Text: "blocked again", FinishReason: FinishSafety},
		{Text: "A sufficiently long and valid academic response finally.", FinishReason: FinishStop},
	}}
	gw := New(provider, 0.2, 1000)

	result, err := gw.Generate(context.Background(), "discuss this", "", DomainGeneric)
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	require.Len(t, result.GenerationLog, 3)
	assert.False(t, result.GenerationLog[0].Accepted)
	assert.False(t, result.GenerationLog[1].Accepted)
	assert.True(t, result.GenerationLog[2].Accepted)
}

func TestGenerateFallsBackAfterExhaustingRetryLadder(t *testing.T) {
	provider := &stubProvider{completions: []Completion{
		{Text: "too short", FinishReason: FinishStop},
		{Text: "too short", FinishReason: FinishStop},
		{Text: "too short", FinishReason: FinishStop},
	}}
	gw := New(provider, 0.2, 1000)

	result, err := gw.Generate(context.Background(), "discuss this", "", DomainMedical)
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Contains(t, result.Text, "medical research")
	assert.Equal(t, MaxAttempts, len(result.GenerationLog))
}

func TestGenerateReturnsErrorOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := &stubProvider{}
	gw := New(provider, 0.2, 1000)

	_, err := gw.Generate(ctx, "discuss this", "", DomainGeneric)
	assert.ErrorIs(t, err, context.Canceled)
}

type concurrencyTrackingProvider struct {
	current int32
	peak    int32
}

func (p *concurrencyTrackingProvider) Complete(_ context.Context, _ string, _ Params) (Completion, error) {
	n := atomic.AddInt32(&p.current, 1)
	for {
		peak := atomic.LoadInt32(&p.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&p.peak, peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(&p.current, -1)
	return Completion{Text: "A sufficiently long and valid academic response.", FinishReason: FinishStop}, nil
}

func TestGenerateBoundsConcurrentProviderCalls(t *testing.T) {
	provider := &concurrencyTrackingProvider{}
	gw := New(provider, 0.2, 1000)
	gw.pacer = ratelimit.New(0, 0) // isolate the inFlight cap from request pacing

	var wg sync.WaitGroup
	for i := 0; i < MaxConcurrentCalls*3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gw.Generate(context.Background(), "discuss this", "", DomainGeneric)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	peak := int(atomic.LoadInt32(&provider.peak))
	assert.Greater(t, peak, 1, "expected calls to overlap with the pacer isolated")
	assert.LessOrEqual(t, peak, MaxConcurrentCalls)
}

func TestAttemptTemperatureFloorsAtPointZeroFive(t *testing.T) {
	gw := New(&stubProvider{}, 0.1, 1000)
	assert.Equal(t, 0.1, gw.attemptTemperature(1))
	assert.Equal(t, 0.05, gw.attemptTemperature(1000))
}
