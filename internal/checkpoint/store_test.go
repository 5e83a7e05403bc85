package checkpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "machine_learning", Slugify("  Machine Learning! "))
	assert.Equal(t, "a_b_c", Slugify("a--b__c"))
}

type payload struct {
	Value string `json:"value"`
}

func TestSaveAndLoadRoundTrips(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("topic", "stage1", payload{Value: "hi"}))

	var out payload
	hit, err := s.Load("topic", "stage1", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "hi", out.Value)
}

func TestLoadMissingReturnsFalse(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	var out payload
	hit, err := s.Load("topic", "missing", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestLoadStaleReturnsFalse(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	now := time.Now()
	s.clock = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, s.Save("topic", "stage1", payload{Value: "hi"}))

	s.clock = func() time.Time { return now }
	var out payload
	hit, err := s.Load("topic", "stage1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestClearRemovesAllStagesForSlug(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save("topic", "stage1", payload{Value: "a"}))
	require.NoError(t, s.Save("topic", "stage2", payload{Value: "b"}))

	require.NoError(t, s.Clear("topic"))

	var out payload
	hit, err := s.Load("topic", "stage1", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestStatusReportsCompletedStages(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save("topic", "stage1", payload{Value: "a"}))

	status := s.Status("topic", []string{"stage1", "stage2"})
	assert.True(t, status["stage1"].Completed)
	assert.Greater(t, status["stage1"].DataSize, 0)
	assert.False(t, status["stage2"].Completed)
}
