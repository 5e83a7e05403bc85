package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckpointFresh(t *testing.T) {
	now := time.Now()
	fresh := Checkpoint{Timestamp: now.Add(-time.Hour)}
	assert.True(t, fresh.Fresh(now))

	stale := Checkpoint{Timestamp: now.Add(-25 * time.Hour)}
	assert.False(t, stale.Fresh(now))
}
