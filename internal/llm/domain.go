package llm

import (
	"regexp"
	"strings"

	"github.com/tangerg-labs/surveyflow/pkg/textutil"
)

// Domain is one of the eleven research-area tags used to choose safety
// rewrites and fallback prose (spec §4.5, GLOSSARY).
type Domain string

const (
	DomainCybersecurity   Domain = "cybersecurity"
	DomainMedical         Domain = "medical"
	DomainAIML            Domain = "ai_ml"
	DomainChemistry       Domain = "chemistry"
	DomainBiology         Domain = "biology"
	DomainPhysics         Domain = "physics"
	DomainComputerScience Domain = "computer_science"
	DomainEngineering     Domain = "engineering"
	DomainPsychology      Domain = "psychology"
	DomainEconomics       Domain = "economics"
	DomainGeneric         Domain = "generic"
)

// AllDomains lists every domain tag, generic last as the universal default.
var AllDomains = []Domain{
	DomainCybersecurity, DomainMedical, DomainAIML, DomainChemistry,
	DomainBiology, DomainPhysics, DomainComputerScience, DomainEngineering,
	DomainPsychology, DomainEconomics, DomainGeneric,
}

// domainReplacements holds each domain's whole-word, case-insensitive
// replacement table, applied before the universal table.
var domainReplacements = map[Domain]map[string]string{
	DomainCybersecurity: {
		"attack": "security analysis", "exploit": "vulnerability research",
		"hack": "security test", "breach": "security incident", "malware": "malicious software sample",
	},
	DomainMedical: {
		"kill": "eliminate", "die": "cease functioning", "lethal": "severe",
		"overdose": "excessive dosage", "poison": "harmful substance",
	},
	DomainAIML: {
		"jailbreak": "bypass restriction", "manipulate": "influence",
	},
	DomainChemistry: {
		"explosive": "energetic material", "toxic": "hazardous",
	},
	DomainBiology: {
		"infect": "colonize", "pathogen": "disease-causing organism",
	},
	DomainPhysics: {
		"weapon": "device", "bomb": "energetic device",
	},
	DomainComputerScience: {
		"crack": "reverse engineer", "bypass": "circumvent",
	},
	DomainEngineering: {
		"sabotage": "structural compromise",
	},
	DomainPsychology: {
		"manipulate": "influence", "abuse": "mistreatment",
	},
	DomainEconomics: {
		"manipulate": "influence", "exploit": "leverage",
	},
	DomainGeneric: {},
}

// universalReplacements is applied after the domain-specific table, to every
// domain including generic.
var universalReplacements = map[string]string{
	"destroying": "analyzing",
	"targeting":  "focusing on",
	"attacking":  "examining",
	"weaponize":  "repurpose",
	"illegal":    "unauthorized",
}

// academicPreamble returns the preamble prefixed to every shaped prompt,
// naming the chosen domain.
func academicPreamble(d Domain) string {
	return "You are assisting with academic research in the field of " + string(d) +
		". Respond with rigorous, educational, citation-ready analysis.\n\n"
}

func wholeWordReplace(text string, table map[string]string) string {
	for from, to := range table {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(from) + `\b`)
		text = re.ReplaceAllString(text, to)
	}
	return text
}

// shapePrompt applies the full safety-shaping pipeline of spec §4.5 steps
// 2-5: domain table, universal table, academic preamble, then cosmetic
// cleanup of shouting caps and repeated punctuation.
func shapePrompt(prompt string, d Domain) string {
	text := wholeWordReplace(prompt, domainReplacements[d])
	text = wholeWordReplace(text, universalReplacements)
	text = textutil.TitleCaseShoutingWords(text)
	text = textutil.CollapsePunctuationRuns(text)
	return academicPreamble(d) + text
}

// imperativeToAnalytical rewrites common imperative verbs to analytical ones,
// for the retry ladder's attempt 2 (ultra-safe variant).
var imperativeToAnalytical = map[string]string{
	"write":   "analyze",
	"discuss": "review",
	"explain": "characterize",
	"describe": "summarize",
	"create":  "outline",
	"generate": "draft an analysis of",
}

func ultraSafePrompt(prompt string, d Domain) string {
	text := wholeWordReplace(prompt, imperativeToAnalytical)
	return shapePrompt(text, d)
}

// minimalPrompt is the attempt-3 single-sentence fallback request.
func minimalPrompt(d Domain) string {
	return academicPreamble(d) + "Provide a brief, domain-appropriate educational summary relevant to " + string(d) + " research."
}

// InferDomain maps a free-text hint (e.g. a detected research area name) to
// a known Domain, defaulting to generic. Matching is case-insensitive exact
// equality (after trimming whitespace) against the domain's own tag; a hint
// that merely contains a tag maps to generic.
func InferDomain(hint string) Domain {
	h := strings.ToLower(strings.TrimSpace(hint))
	for _, d := range AllDomains {
		if string(d) == h {
			return d
		}
	}
	return DomainGeneric
}
