package model

import "time"

// FreshnessWindow is how long a checkpoint remains valid for resumption
// before it is treated as absent (spec §4.4, §8).
const FreshnessWindow = 24 * time.Hour

// Checkpoint is a per-(topic slug, stage) snapshot of a stage's output,
// enabling workflow resumption.
type Checkpoint struct {
	TopicSlug string          `json:"topic"`
	Stage     string          `json:"step"`
	Payload   interface{}     `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Fresh reports whether the checkpoint's timestamp is within FreshnessWindow
// of now.
func (c *Checkpoint) Fresh(now time.Time) bool {
	return now.Sub(c.Timestamp) <= FreshnessWindow
}
