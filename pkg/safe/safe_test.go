package safe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRecoverReturnsNilForNilFunc(t *testing.T) {
	assert.Nil(t, WithRecover(nil))
}

func TestWithRecoverRoutesPanicToHandler(t *testing.T) {
	var caught error
	wrapped := WithRecover(func() { panic("boom") }, func(err error) { caught = err })
	wrapped()

	require := assert.New(t)
	require.Error(caught)
	var panicErr *PanicError
	require.ErrorAs(caught, &panicErr)
	require.Equal("boom", panicErr.Info)
	require.Contains(panicErr.Error(), "boom")
}

func TestWithRecoverPassesThroughNoPanic(t *testing.T) {
	ran := false
	wrapped := WithRecover(func() { ran = true })
	wrapped()
	assert.True(t, ran)
}

func TestGoRecoversPanicInGoroutine(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	var caught error
	Go(func() { panic("kaboom") }, func(err error) { caught = err; wg.Done() })
	wg.Wait()
	assert.ErrorContains(t, caught, "kaboom")
}

func TestGoWithNilFuncIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { Go(nil) })
}
