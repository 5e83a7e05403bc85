// Package checkpoint implements the Checkpoint Store (C4): atomic
// per-(topic-slug, stage) persistence enabling workflow resumption, per spec
// §4.4 and the file layout in §6.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// ErrCheckpointCorrupt is returned when a checkpoint file exists but cannot
// be parsed; callers should treat this the same as an absent checkpoint.
var ErrCheckpointCorrupt = errors.New("checkpoint: corrupt payload")

var slugCollapse = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a research topic into the filesystem-safe slug used as
// the checkpoint key prefix (spec §4.4).
func Slugify(topic string) string {
	lower := strings.ToLower(strings.TrimSpace(topic))
	slug := slugCollapse.ReplaceAllString(lower, "_")
	return strings.Trim(slug, "_")
}

// Store persists stage outputs as JSON files under a cache directory, one
// file per (topic slug, stage), named checkpoint_<slug>_<stage>.json.
type Store struct {
	dir   string
	clock func() time.Time
}

// New builds a Store writing under dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create cache dir: %w", err)
	}
	return &Store{dir: dir, clock: time.Now}, nil
}

func (s *Store) path(slug, stage string) string {
	return filepath.Join(s.dir, fmt.Sprintf("checkpoint_%s_%s.json", slug, stage))
}

// Save atomically persists payload for (slug, stage), stamped with the
// current time.
func (s *Store) Save(slug, stage string, payload any) error {
	cp := model.Checkpoint{
		TopicSlug: slug,
		Stage:     stage,
		Payload:   payload,
		Timestamp: s.clock().UTC(),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("checkpoint: marshal: %w", err)
	}
	if err := renameio.WriteFile(s.path(slug, stage), data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: atomic write: %w", err)
	}
	return nil
}

// Load returns the payload for (slug, stage) if present and fresh (within
// model.FreshnessWindow), decoded into out. Returns (false, nil) if no fresh
// checkpoint exists, and ErrCheckpointCorrupt wrapped if the file is
// unreadable — callers should treat that the same as absent.
func (s *Store) Load(slug, stage string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(slug, stage))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCheckpointCorrupt, err)
	}

	var cp model.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCheckpointCorrupt, err)
	}
	if !cp.Fresh(s.clock()) {
		return false, nil
	}
	raw, err := json.Marshal(cp.Payload)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCheckpointCorrupt, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCheckpointCorrupt, err)
	}
	return true, nil
}

// Clear removes all checkpoints for a topic slug (called on successful
// workflow completion or explicit cleanup).
func (s *Store) Clear(slug string) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, fmt.Sprintf("checkpoint_%s_*.json", slug)))
	if err != nil {
		return fmt.Errorf("checkpoint: glob: %w", err)
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checkpoint: remove %s: %w", m, err)
		}
	}
	return nil
}

// Status reports, for each stage name, whether a fresh checkpoint exists and
// its data size in bytes — backing Workflow.GetWorkflowStatus (spec §6).
func (s *Store) Status(slug string, stages []string) map[string]StepStatus {
	out := make(map[string]StepStatus, len(stages))
	for _, stage := range stages {
		data, err := os.ReadFile(s.path(slug, stage))
		if err != nil {
			out[stage] = StepStatus{}
			continue
		}
		var cp model.Checkpoint
		if json.Unmarshal(data, &cp) != nil || !cp.Fresh(s.clock()) {
			out[stage] = StepStatus{}
			continue
		}
		out[stage] = StepStatus{Completed: true, Timestamp: cp.Timestamp, DataSize: len(data)}
	}
	return out
}

// StepStatus describes one stage's checkpoint state.
type StepStatus struct {
	Completed bool      `json:"completed"`
	Timestamp time.Time `json:"timestamp"`
	DataSize  int       `json:"data_size"`
}
