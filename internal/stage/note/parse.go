package note

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// sectionLabels maps each labeled section prefix to its NoteType, in the
// fixed order the extraction prompt requests them (spec §4.7.3).
var sectionLabels = []struct {
	Prefix string
	Type   model.NoteType
}{
	{"ABSTRACT:", model.NoteAbstract},
	{"INTRODUCTION:", model.NoteIntro},
	{"METHODOLOGY:", model.NoteMethodology},
	{"FINDINGS:", model.NoteFindings},
	{"LIMITATIONS:", model.NoteLimitations},
	{"FUTURE_WORK:", model.NoteFutureWork},
}

const notAvailable = "not available"

// parseSections splits the gateway's labeled-section response into notes,
// dropping any section whose body is "Not available" (case-insensitive).
func parseSections(text string) []sectionResult {
	var out []sectionResult
	lines := strings.Split(text, "\n")
	var current *sectionResult

	flush := func() {
		if current == nil {
			return
		}
		body := strings.TrimSpace(current.body.String())
		if strings.ToLower(body) != notAvailable && body != "" {
			out = append(out, sectionResult{Type: current.Type, Content: body})
		}
		current = nil
	}

	for _, line := range lines {
		matched := false
		for _, label := range sectionLabels {
			if strings.HasPrefix(strings.TrimSpace(line), label.Prefix) {
				flush()
				current = &sectionResult{Type: label.Type}
				current.body.WriteString(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), label.Prefix)))
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if current != nil && strings.TrimSpace(line) != "" {
			current.body.WriteString(" ")
			current.body.WriteString(strings.TrimSpace(line))
		}
	}
	flush()
	return out
}

type sectionResult struct {
	Type    model.NoteType
	Content string
	body    strings.Builder
}

// insightTypes are the allowed TYPE: values for an insight (spec §4.7.3).
var insightTypes = map[string]model.NoteType{
	"key_finding":  model.NoteKeyFinding,
	"methodology":  model.NoteMethodology,
	"limitation":   model.NoteLimitations,
	"future_work":  model.NoteFutureWork,
}

const (
	minInsightContentLen = 10
	maxInsightsPerPaper   = 7
	insightConfidenceMin  = 0.6
	insightConfidenceMax  = 0.9
)

// parseInsights parses the gateway's enumerated-insight response into
// insight results, dropping short content and capping at
// maxInsightsPerPaper (spec §4.7.3).
func parseInsights(text string) []insightResult {
	blocks := splitInsightBlocks(text)
	var out []insightResult
	for _, block := range blocks {
		ins := parseOneInsight(block)
		if ins == nil || len(ins.Content) < minInsightContentLen {
			continue
		}
		out = append(out, *ins)
		if len(out) >= maxInsightsPerPaper {
			break
		}
	}
	return out
}

type insightResult struct {
	Content    string
	Type       model.NoteType
	Confidence float64
}

// splitInsightBlocks splits the response on blank lines; when that yields a
// single block, it splits instead before each line starting with CONTENT:.
func splitInsightBlocks(text string) []string {
	raw := strings.Split(text, "\n\n")
	blocks := lo.Filter(raw, func(b string, _ int) bool { return strings.TrimSpace(b) != "" })
	if len(blocks) > 1 {
		return blocks
	}
	// Fall back to splitting on lines that start a new CONTENT: field.
	var out []string
	var cur strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "CONTENT:") && cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func parseOneInsight(block string) *insightResult {
	fields := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		for _, key := range []string{"CONTENT:", "IMPORTANCE:", "TYPE:", "CONFIDENCE:"} {
			if strings.HasPrefix(line, key) {
				fields[key] = strings.TrimSpace(strings.TrimPrefix(line, key))
			}
		}
	}
	content := strings.TrimSpace(fields["CONTENT:"])
	if content == "" {
		return nil
	}
	typ, ok := insightTypes[strings.ToLower(strings.TrimSpace(fields["TYPE:"]))]
	if !ok {
		typ = model.NoteKeyFinding
	}
	confidence := insightConfidenceMin
	if raw, ok := fields["CONFIDENCE:"]; ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			confidence = f
		}
	}
	if confidence < insightConfidenceMin {
		confidence = insightConfidenceMin
	}
	if confidence > insightConfidenceMax {
		confidence = insightConfidenceMax
	}
	return &insightResult{Content: content, Type: typ, Confidence: confidence}
}
