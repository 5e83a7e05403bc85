package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOf(t *testing.T) {
	p := Of(7)
	require := assert.New(t)
	require.NotNil(p)
	require.Equal(7, *p)
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 7, Deref(Of(7)))
	assert.Equal(t, 0, Deref[int](nil))
}

func TestDerefOr(t *testing.T) {
	assert.Equal(t, 7, DerefOr(Of(7), 99))
	assert.Equal(t, 99, DerefOr[int](nil, 99))
}

func TestCoalesce(t *testing.T) {
	a, b := Of(1), Of(2)
	assert.Same(t, a, Coalesce(a, b))
	assert.Same(t, b, Coalesce[int](nil, b))
	assert.Nil(t, Coalesce[int](nil, nil))
}
