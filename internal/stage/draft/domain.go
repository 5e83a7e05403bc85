// Package draft implements the Draft Stage (C10): domain detection, per-
// section generation through the LLM gateway, unsafe-pattern validation,
// and citation-placeholder resolution (spec §4.10).
package draft

import (
	"sort"
	"strings"

	"github.com/tangerg-labs/surveyflow/internal/llm"
	"github.com/tangerg-labs/surveyflow/internal/model"
)

// maxDomainSampleSources bounds how many papers' titles+abstracts feed
// domain detection, beyond the topic itself (spec §4.10.1).
const maxDomainSampleSources = 10

// domainKeywords is the fixed per-domain keyword list scored against the
// topic and sample paper text to pick the research domain (spec §4.10.1).
var domainKeywords = map[llm.Domain][]string{
	llm.DomainCybersecurity: {
		"security", "vulnerability", "exploit", "malware", "attack", "threat",
		"encryption", "firewall", "penetration", "intrusion",
	},
	llm.DomainMedical: {
		"patient", "clinical", "disease", "treatment", "diagnosis", "therapy",
		"drug", "medicine", "health", "symptom",
	},
	llm.DomainAIML: {
		"neural", "learning", "model", "training", "inference", "dataset",
		"algorithm", "deep", "network", "gradient",
	},
	llm.DomainChemistry: {
		"molecule", "compound", "reaction", "catalyst", "synthesis", "chemical",
		"bond", "solvent", "polymer", "acid",
	},
	llm.DomainBiology: {
		"cell", "gene", "organism", "protein", "species", "genome", "dna",
		"evolution", "tissue", "enzyme",
	},
	llm.DomainPhysics: {
		"particle", "quantum", "energy", "force", "field", "relativity",
		"wave", "mass", "velocity", "momentum",
	},
	llm.DomainComputerScience: {
		"algorithm", "complexity", "system", "software", "compiler", "database",
		"distributed", "protocol", "data structure", "architecture",
	},
	llm.DomainEngineering: {
		"design", "structure", "material", "stress", "mechanical", "circuit",
		"system", "control", "manufacturing", "prototype",
	},
	llm.DomainPsychology: {
		"behavior", "cognitive", "emotion", "perception", "mental", "personality",
		"memory", "motivation", "social", "development",
	},
	llm.DomainEconomics: {
		"market", "price", "economic", "trade", "finance", "policy",
		"growth", "investment", "inflation", "supply",
	},
}

// Detect scores the topic plus up to maxDomainSampleSources papers'
// titles+abstracts against each domain's keyword list and returns the
// highest-scoring domain, ties broken alphabetically, empty input mapping
// to DomainGeneric (spec §4.10.1).
func Detect(topic string, papers []model.Paper) llm.Domain {
	text := strings.ToLower(topic)
	sample := papers
	if len(sample) > maxDomainSampleSources {
		sample = sample[:maxDomainSampleSources]
	}
	for _, p := range sample {
		text += " " + strings.ToLower(p.Title) + " " + strings.ToLower(p.Abstract)
	}
	if strings.TrimSpace(text) == "" {
		return llm.DomainGeneric
	}

	scores := make(map[llm.Domain]int, len(domainKeywords))
	for d, keywords := range domainKeywords {
		count := 0
		for _, kw := range keywords {
			count += strings.Count(text, kw)
		}
		scores[d] = count
	}

	domains := make([]llm.Domain, 0, len(scores))
	for d := range scores {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool { return domains[i] < domains[j] })

	best := llm.DomainGeneric
	bestScore := 0
	for _, d := range domains {
		if scores[d] > bestScore {
			bestScore = scores[d]
			best = d
		}
	}
	return best
}
