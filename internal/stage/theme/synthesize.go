package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/tangerg-labs/surveyflow/internal/llm"
)

// Generator is the subset of llm.Gateway the theme stage depends on, kept
// as an interface so tests can stub LLM behavior without a real Provider.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, domain llm.Domain) (llm.GenResult, error)
}

// maxSynthesisSampleNotes bounds how many note contents are quoted in the
// synthesis prompt for a cluster.
const maxSynthesisSampleNotes = 5

// synthesized holds the title/description produced (or derived) for one
// cluster.
type synthesized struct {
	Title       string
	Description string
}

// synthesizeTheme asks the gateway to title and describe a cluster, falling
// back to a deterministic derivation from its keywords when the response is
// unparseable (spec §4.8.3).
func synthesizeTheme(ctx context.Context, gen Generator, topic string, c cluster, sampleContents []string) synthesized {
	if gen == nil {
		return fallbackSynthesis(c)
	}
	samples := sampleContents
	if len(samples) > maxSynthesisSampleNotes {
		samples = samples[:maxSynthesisSampleNotes]
	}
	prompt := synthesisPrompt(topic, c, samples)
	result, err := gen.Generate(ctx, prompt, "", llm.DomainGeneric)
	if err != nil {
		return fallbackSynthesis(c)
	}
	title, desc := parseSynthesis(result.Text)
	if title == "" {
		title = fallbackTitle(c)
	}
	if desc == "" {
		desc = fallbackDescription(c)
	}
	return synthesized{Title: title, Description: desc}
}

func synthesisPrompt(topic string, c cluster, samples []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\nThe following notes form one coherent research theme. Provide a concise "+
		"TITLE: (under 10 words) and a DESCRIPTION: (1-2 sentences) that together summarize it.\n\n", topic)
	for i, content := range samples {
		fmt.Fprintf(&sb, "Note %d: %s\n", i+1, content)
	}
	return sb.String()
}

func parseSynthesis(text string) (title, description string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "TITLE:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "TITLE:"))
		case strings.HasPrefix(line, "DESCRIPTION:"):
			description = strings.TrimSpace(strings.TrimPrefix(line, "DESCRIPTION:"))
		}
	}
	return title, description
}

func fallbackSynthesis(c cluster) synthesized {
	return synthesized{Title: fallbackTitle(c), Description: fallbackDescription(c)}
}

func fallbackTitle(c cluster) string {
	return strings.Title(strings.ReplaceAll(c.name, "-", " ")) //nolint:staticcheck
}

func fallbackDescription(c cluster) string {
	return fmt.Sprintf("A cluster of %d notes related to %s.", len(c.noteIndices), strings.ReplaceAll(c.name, "-", " "))
}

// commonResearchAngles is the fixed list of angles spec §4.8.4 checks
// covered themes against.
var commonResearchAngles = []string{
	"theoretical foundations",
	"empirical evaluation",
	"practical applications",
	"limitations and challenges",
	"comparative analysis",
	"future directions",
	"ethical considerations",
	"scalability",
	"reproducibility",
}

// maxGaps caps the number of gaps reported (spec §4.8.4).
const maxGaps = 7

// gapConfidenceThreshold flags any theme below this confidence as a gap in
// its own right, in addition to angle coverage (spec §4.8.4).
const gapConfidenceThreshold = 0.6

// identifyGaps compares theme titles/descriptions against the fixed angle
// list and flags low-confidence themes, capping the result at maxGaps.
func identifyGaps(themes []synthesizedTheme) []string {
	var gaps []string
	for _, angle := range commonResearchAngles {
		if len(gaps) >= maxGaps {
			break
		}
		if !angleCovered(angle, themes) {
			gaps = append(gaps, fmt.Sprintf("No theme addresses %s", angle))
		}
	}
	for _, t := range themes {
		if len(gaps) >= maxGaps {
			break
		}
		if t.Confidence < gapConfidenceThreshold {
			gaps = append(gaps, fmt.Sprintf("Theme %q has low confidence and may need further investigation", t.Title))
		}
	}
	if len(gaps) > maxGaps {
		gaps = gaps[:maxGaps]
	}
	return gaps
}

// synthesizedTheme is the minimal shape identifyGaps needs, decoupling it
// from model.ResearchTheme's full field set.
type synthesizedTheme struct {
	Title       string
	Description string
	Confidence  float64
}

func angleCovered(angle string, themes []synthesizedTheme) bool {
	angleWords := toSet(strings.Fields(angle))
	for _, t := range themes {
		text := strings.ToLower(t.Title + " " + t.Description)
		hits := 0
		for w := range angleWords {
			if strings.Contains(text, w) {
				hits++
			}
		}
		if hits > 0 {
			return true
		}
	}
	return false
}
