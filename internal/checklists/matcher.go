package checklists

import (
	"path/filepath"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/attest-hq/attest/internal/evidence"
)

// Confidence blend weights: fuzzy name similarity dominates, an exact tag
// hit tops the score up.
const (
	similarityWeight = 0.7
	tagHitWeight     = 0.3
)

// MatchArtifacts assigns pool artifacts to expected-evidence descriptors.
// Each descriptor takes the highest-confidence artifact not already
// assigned in this pass, provided the confidence clears the acceptance
// threshold. Unmatched descriptors are left uncovered. The result is
// deterministic for a given descriptor order and pool order.
func MatchArtifacts(descriptors []string, pool []evidence.EvidenceArtifact, threshold float64) []MatchedArtifact {
	matches := make([]MatchedArtifact, 0, len(descriptors))
	assigned := make(map[uuid.UUID]bool, len(pool))

	for _, descriptor := range descriptors {
		var best *evidence.EvidenceArtifact
		var bestConf float64

		for i := range pool {
			a := &pool[i]
			if assigned[a.ID] {
				continue
			}

			conf := MatchConfidence(descriptor, *a)
			if conf > bestConf {
				best = a
				bestConf = conf
			}
		}

		if best == nil || bestConf < threshold {
			continue
		}

		assigned[best.ID] = true
		matches = append(matches, MatchedArtifact{
			ArtifactID: best.ID,
			Descriptor: descriptor,
			Confidence: bestConf,
		})
	}

	return matches
}

// MatchConfidence scores how well an artifact satisfies a descriptor: a
// weighted blend of the best normalized levenshtein similarity across the
// filename and tags, plus a bonus for an exact tag hit.
func MatchConfidence(descriptor string, a evidence.EvidenceArtifact) float64 {
	normalized := normalize(descriptor)
	if normalized == "" {
		return 0
	}

	best := similarity(normalized, normalize(stemFilename(a.Filename)))

	var tagHit float64
	for _, tag := range a.Tags {
		nt := normalize(tag)
		if nt == normalized {
			tagHit = 1
		}
		if s := similarity(normalized, nt); s > best {
			best = s
		}
	}

	conf := similarityWeight*best + tagHitWeight*tagHit
	if conf > 1 {
		conf = 1
	}
	return conf
}

// similarity converts levenshtein distance into [0,1], where 1 is an
// exact match.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func stemFilename(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}
