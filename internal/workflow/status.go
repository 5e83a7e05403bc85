package workflow

import (
	"github.com/tangerg-labs/surveyflow/internal/checkpoint"
)

// GetStatus reports each stage's checkpoint state for topic (spec §6
// get_workflow_status).
func (o *Orchestrator) GetStatus(topic string) map[string]checkpoint.StepStatus {
	slug := checkpoint.Slugify(topic)
	return o.checkpoints.Status(slug, stageOrder)
}

// CleanupFailed removes every checkpoint for topic, letting a future
// Execute start fresh instead of resuming a failed run (spec §6
// cleanup_failed_workflow).
func (o *Orchestrator) CleanupFailed(topic string) (bool, error) {
	slug := checkpoint.Slugify(topic)
	if err := o.checkpoints.Clear(slug); err != nil {
		return false, err
	}
	return true, nil
}
