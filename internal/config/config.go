// Package config loads the enumerated options of spec §6 into a typed
// struct. The module does not read files or environment variables itself
// (configuration loading is out of scope per spec.md §1) — callers hand in
// a loosely-typed map, the shape their own config loader would produce, and
// Config coerces it the way the teacher's own packages accept attribute
// maps rather than assuming one config library.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/cast"

	"github.com/tangerg-labs/surveyflow/internal/ratelimit"
)

// Config holds every option named in spec §6.
type Config struct {
	Research struct {
		MaxRetries          int
		StepTimeout         time.Duration
		APICooldown         time.Duration
		ParallelProcessing  bool
		CheckpointEnabled   bool
	}
	Storage struct {
		CacheDir string
	}
	LLM struct {
		Temperature        float64
		MaxTokens          int
		MinRequestInterval time.Duration
	}
	RateLimits ratelimit.RatePerSource

	// ClusterSimilarity is the theme stage's incremental-clustering
	// threshold (spec §9 open question #1: exposed here per the spec's own
	// suggestion, default matches the source's empirically tuned 0.2).
	ClusterSimilarity float64
	// MinClusterSize is the minimum notes-per-cluster for a theme (spec §3).
	MinClusterSize int
}

// Default returns the spec-documented defaults.
func Default() Config {
	var c Config
	c.Research.MaxRetries = 2
	c.Research.StepTimeout = 1200 * time.Second
	c.Research.APICooldown = 60 * time.Second
	c.Research.ParallelProcessing = true
	c.Research.CheckpointEnabled = true
	c.Storage.CacheDir = "data/cache"
	c.LLM.Temperature = 0.1
	c.LLM.MaxTokens = 4096
	c.LLM.MinRequestInterval = 500 * time.Millisecond
	c.RateLimits = ratelimit.DefaultRates()
	c.ClusterSimilarity = 0.2
	c.MinClusterSize = 3
	return c
}

// FromMap overlays values found in raw (keyed exactly as in spec §6, e.g.
// "research.max_retries") onto the defaults, coercing loosely-typed values
// with cast. Unknown keys are ignored.
func FromMap(raw map[string]any) (Config, error) {
	c := Default()

	if v, ok := raw["research.max_retries"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return c, fmt.Errorf("config: research.max_retries: %w", err)
		}
		c.Research.MaxRetries = n
	}
	if v, ok := raw["research.step_timeout"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return c, fmt.Errorf("config: research.step_timeout: %w", err)
		}
		c.Research.StepTimeout = time.Duration(n) * time.Second
	}
	if v, ok := raw["research.api_cooldown"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return c, fmt.Errorf("config: research.api_cooldown: %w", err)
		}
		c.Research.APICooldown = time.Duration(n) * time.Second
	}
	if v, ok := raw["research.parallel_processing"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return c, fmt.Errorf("config: research.parallel_processing: %w", err)
		}
		c.Research.ParallelProcessing = b
	}
	if v, ok := raw["research.checkpoint_enabled"]; ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return c, fmt.Errorf("config: research.checkpoint_enabled: %w", err)
		}
		c.Research.CheckpointEnabled = b
	}
	if v, ok := raw["storage.cache_dir"]; ok {
		c.Storage.CacheDir = cast.ToString(v)
	}
	if v, ok := raw["llm.temperature"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return c, fmt.Errorf("config: llm.temperature: %w", err)
		}
		c.LLM.Temperature = f
	}
	if v, ok := raw["llm.max_tokens"]; ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return c, fmt.Errorf("config: llm.max_tokens: %w", err)
		}
		c.LLM.MaxTokens = n
	}
	if v, ok := raw["llm.min_request_interval"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return c, fmt.Errorf("config: llm.min_request_interval: %w", err)
		}
		c.LLM.MinRequestInterval = time.Duration(f * float64(time.Second))
	}
	if v, ok := raw["rate_limits.arxiv"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return c, fmt.Errorf("config: rate_limits.arxiv: %w", err)
		}
		c.RateLimits.ArXiv = f
	}
	if v, ok := raw["rate_limits.openalex"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return c, fmt.Errorf("config: rate_limits.openalex: %w", err)
		}
		c.RateLimits.OpenAlex = f
	}
	if v, ok := raw["rate_limits.crossref"]; ok {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return c, fmt.Errorf("config: rate_limits.crossref: %w", err)
		}
		c.RateLimits.CrossRef = f
	}

	return c, c.Validate()
}

// Validate enforces the documented ranges (spec §6, §4.8 minimum cluster
// size).
func (c Config) Validate() error {
	if c.Research.MaxRetries < 0 {
		return fmt.Errorf("config: research.max_retries must be >= 0")
	}
	if c.Research.StepTimeout <= 0 {
		return fmt.Errorf("config: research.step_timeout must be > 0")
	}
	if c.LLM.Temperature < 0 {
		return fmt.Errorf("config: llm.temperature must be >= 0")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("config: llm.max_tokens must be > 0")
	}
	if c.MinClusterSize <= 0 {
		return fmt.Errorf("config: minimum cluster size must be > 0")
	}
	return nil
}
