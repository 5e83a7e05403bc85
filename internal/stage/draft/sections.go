package draft

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Generator is the subset of llm.Gateway the draft stage depends on, kept
// as an interface so tests can stub LLM behavior without a real Provider.
type Generator interface {
	Generate(ctx context.Context, prompt, systemPrompt string, domain llm.Domain) (llm.GenResult, error)
}

// unsafePatterns are the per-domain regexes a generated section is checked
// against before acceptance (spec §4.10.3).
var unsafePatterns = map[llm.Domain][]*regexp.Regexp{
	llm.DomainCybersecurity: {
		regexp.MustCompile(`(?i)\bhow to hack\b`),
		regexp.MustCompile(`(?i)\bstep[- ]by[- ]step exploit\b`),
	},
	llm.DomainMedical: {
		regexp.MustCompile(`(?i)\blethal dose\b`),
		regexp.MustCompile(`(?i)\bhow to overdose\b`),
	},
	llm.DomainChemistry: {
		regexp.MustCompile(`(?i)\bsynthesize explosive\b`),
	},
}

// maxThemeSections caps how many themes get their own body section (spec
// §4.10.2).
const maxThemeSections = 5

// AttemptLog records one section's generation outcome for the draft's
// metadata.generation_log.
type AttemptLog struct {
	Section  string
	Domain   llm.Domain
	Fallback bool
	Safe     bool
}

// Section is one named body section of the draft.
type Section struct {
	Title   string
	Content string
}

// Draft is the structured output of the Draft Stage (spec §4.10.5).
type Draft struct {
	Title           string
	Abstract        string
	Introduction    string
	Sections        map[string]Section
	Discussion      string
	Conclusion      string
	Domain          llm.Domain
	GenerationLog   []AttemptLog
	SafetyValidated bool
	FallbackSections []string
}

// generateSection calls the gateway, validates the result against the
// domain's unsafe patterns, and substitutes the fallback template on
// violation (spec §4.10.3).
func generateSection(ctx context.Context, gen Generator, name string, prompt string, domain llm.Domain) (string, AttemptLog) {
	result, err := gen.Generate(ctx, prompt, "", domain)
	if err != nil {
		return llm.FallbackTemplate(domain), AttemptLog{Section: name, Domain: domain, Fallback: true, Safe: true}
	}
	text := result.Text
	if violatesUnsafePattern(text, domain) {
		return llm.FallbackTemplate(domain), AttemptLog{Section: name, Domain: domain, Fallback: true, Safe: false}
	}
	return text, AttemptLog{Section: name, Domain: domain, Fallback: result.Fallback, Safe: true}
}

func violatesUnsafePattern(text string, domain llm.Domain) bool {
	for _, re := range unsafePatterns[domain] {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func abstractPrompt(topic string) string {
	return fmt.Sprintf("Write a concise academic abstract (150-250 words) for a research survey on: %s", topic)
}

func introductionPrompt(topic string, papers []model.Paper) string {
	return fmt.Sprintf("Write an introduction section for a research survey on %q, motivating the topic and "+
		"previewing the survey's scope across %d surveyed papers.", topic, len(papers))
}

func themePrompt(topic string, theme model.ResearchTheme) string {
	return fmt.Sprintf("Write a body section on the theme %q (%s) for a research survey on %q, synthesizing "+
		"the %d papers that contribute to it. Reference findings with [Citation] placeholders.",
		theme.Title, theme.Description, topic, theme.Frequency)
}

func discussionPrompt(topic string, gaps []string) string {
	return fmt.Sprintf("Write a discussion section for a research survey on %q, addressing these identified "+
		"gaps: %s", topic, strings.Join(gaps, "; "))
}

func conclusionPrompt(topic string) string {
	return fmt.Sprintf("Write a brief conclusion section for a research survey on: %s", topic)
}

// insertCitationPlaceholders appends a `[Citation]` marker after sentences
// that mention a known paper title, so the resolution pass below has
// something to match against (spec §4.10.4).
func insertCitationPlaceholders(text string, papers []model.Paper) string {
	sentences := strings.Split(text, ". ")
	for i, sentence := range sentences {
		for _, p := range papers {
			if titleMentioned(sentence, p.Title) {
				sentences[i] = sentence + " [Citation]"
				break
			}
		}
	}
	return strings.Join(sentences, ". ")
}

func titleMentioned(sentence, title string) bool {
	if title == "" {
		return false
	}
	words := strings.Fields(strings.ToLower(title))
	if len(words) == 0 {
		return false
	}
	matches := 0
	lower := strings.ToLower(sentence)
	for _, w := range words {
		if len(w) > 4 && strings.Contains(lower, w) {
			matches++
		}
	}
	return matches >= minTitleWordMatches(len(words))
}

func minTitleWordMatches(total int) int {
	if total <= 2 {
		return total
	}
	return (total + 1) / 2
}

// resolveCitationPlaceholders replaces each `[Citation]` marker with the
// nearest matching paper's citation key, by matching the preceding
// sentence's tokens against paper titles; unmatched placeholders are left
// in place (spec §4.10.4).
func resolveCitationPlaceholders(text string, papers []model.Paper, keys map[string]string) string {
	const marker = "[Citation]"
	if !strings.Contains(text, marker) {
		return text
	}
	sentences := strings.Split(text, marker)
	var sb strings.Builder
	for i, seg := range sentences {
		sb.WriteString(seg)
		if i == len(sentences)-1 {
			continue
		}
		if key := bestCitationMatch(seg, papers, keys); key != "" {
			sb.WriteString("(" + key + ")")
		} else {
			sb.WriteString(marker)
		}
	}
	return sb.String()
}

func bestCitationMatch(precedingText string, papers []model.Paper, keys map[string]string) string {
	lower := strings.ToLower(precedingText)
	best := ""
	bestMatches := 0
	for _, p := range papers {
		words := strings.Fields(strings.ToLower(p.Title))
		matches := 0
		for _, w := range words {
			if len(w) > 4 && strings.Contains(lower, w) {
				matches++
			}
		}
		if matches > bestMatches {
			bestMatches = matches
			best = keys[p.ID]
		}
	}
	if bestMatches == 0 {
		return ""
	}
	return best
}
