package theme

import (
	"strings"

	"github.com/tangerg-labs/surveyflow/internal/model"
)

// DefaultClusterSimilarity is the incremental-clustering acceptance
// threshold (spec §4.8.2, §9 open question #1).
const DefaultClusterSimilarity = 0.2

// maxClusterSampleNotes bounds how many existing notes in a cluster are
// sampled when computing the average similarity for a new note (spec
// §4.8.2: "up to 5 notes already in that cluster").
const maxClusterSampleNotes = 5

type cluster struct {
	noteIndices []int
	keywords    [][]string
	name        string
}

// clusterNotes runs the incremental greedy clustering of spec §4.8.2 over
// notes in input order, returning the resulting clusters.
func clusterNotes(notes []model.ResearchNote, threshold float64) []cluster {
	var clusters []cluster
	keywordCache := make([][]string, len(notes))
	for i, n := range notes {
		keywordCache[i] = extractKeywords(n)
	}

	for i, n := range notes {
		kws := keywordCache[i]
		bestIdx := -1
		bestScore := 0.0
		for ci, c := range clusters {
			score := averageSimilarity(kws, c.keywords)
			if score > bestScore {
				bestScore = score
				bestIdx = ci
			}
		}
		if bestIdx >= 0 && bestScore >= threshold {
			clusters[bestIdx].noteIndices = append(clusters[bestIdx].noteIndices, i)
			clusters[bestIdx].keywords = append(clusters[bestIdx].keywords, kws)
			continue
		}
		clusters = append(clusters, cluster{
			noteIndices: []int{i},
			keywords:    [][]string{kws},
			name:        clusterName(n.Type, kws),
		})
	}
	return clusters
}

// averageSimilarity averages Jaccard similarity against up to
// maxClusterSampleNotes of the cluster's existing notes.
func averageSimilarity(kws []string, clusterKeywords [][]string) float64 {
	sample := clusterKeywords
	if len(sample) > maxClusterSampleNotes {
		sample = sample[:maxClusterSampleNotes]
	}
	if len(sample) == 0 {
		return 0
	}
	total := 0.0
	for _, other := range sample {
		total += jaccard(kws, other)
	}
	return total / float64(len(sample))
}

// clusterName names a new cluster after its top three keywords, prefixed
// with the seeding note's type unless that type is key_finding (spec
// §4.8.2).
func clusterName(typ model.NoteType, keywords []string) string {
	top := keywords
	if len(top) > 3 {
		top = top[:3]
	}
	name := strings.Join(top, "-")
	if name == "" {
		name = "general"
	}
	if typ != model.NoteKeyFinding {
		name = string(typ) + "-" + name
	}
	return name
}
