package draft

import (
	"context"
	"fmt"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// Stage assembles the final structured draft from themes, papers, notes,
// and gaps (spec §4.10).
type Stage struct {
	gen Generator
}

// New builds a Stage calling gen for every section.
func New(gen Generator) *Stage {
	return &Stage{gen: gen}
}

// Run implements the full C10 algorithm: domain detection, ordered section
// generation, safety validation, and citation-placeholder resolution.
func (s *Stage) Run(ctx context.Context, topic string, themes []model.ResearchTheme, papers []model.Paper, gaps []string, citationKeys map[string]string) (Draft, error) {
	domain := Detect(topic, papers)

	draft := Draft{
		Title:           fmt.Sprintf("A Survey of %s", topic),
		Domain:          domain,
		Sections:        map[string]Section{},
		SafetyValidated: true,
	}

	type step struct {
		name   string
		prompt string
		assign func(text string)
	}

	steps := []step{
		{"abstract", abstractPrompt(topic), func(t string) { draft.Abstract = t }},
		{"introduction", introductionPrompt(topic, papers), func(t string) { draft.Introduction = t }},
	}

	themeList := themes
	if len(themeList) > maxThemeSections {
		themeList = themeList[:maxThemeSections]
	}
	for i, theme := range themeList {
		name := fmt.Sprintf("theme_%d", i+1)
		t := theme
		steps = append(steps, step{name, themePrompt(topic, t), func(text string) {
			draft.Sections[name] = Section{Title: t.Title, Content: text}
		}})
	}

	steps = append(steps,
		step{"discussion", discussionPrompt(topic, gaps), func(t string) { draft.Discussion = t }},
		step{"conclusion", conclusionPrompt(topic), func(t string) { draft.Conclusion = t }},
	)

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return draft, err
		}
		text, log := generateSection(ctx, s.gen, st.name, st.prompt, domain)
		text = insertCitationPlaceholders(text, papers)
		text = resolveCitationPlaceholders(text, papers, citationKeys)
		st.assign(text)
		draft.GenerationLog = append(draft.GenerationLog, log)
		if log.Fallback {
			draft.FallbackSections = append(draft.FallbackSections, st.name)
		}
		if !log.Safe {
			draft.SafetyValidated = false
		}
	}

	return draft, nil
}
