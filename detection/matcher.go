package detection

import (
	"math"
	"sort"
	"strings"

	"go-sentinel/refdata"
)

const largeClusterBoost = 1.2

// symptomProfile counts symptom occurrences across a cluster's members while
// remembering first-seen order. Order matters twice: keyword matching takes
// the first reported symptom that matches, and dominant-symptom ties break
// by first observation.
type symptomProfile struct {
	order  []string
	counts map[string]int
}

func newSymptomProfile() *symptomProfile {
	return &symptomProfile{counts: make(map[string]int)}
}

func (p *symptomProfile) add(symptom string) {
	if _, seen := p.counts[symptom]; !seen {
		p.order = append(p.order, symptom)
	}
	p.counts[symptom]++
}

// dominant returns the top n distinct symptoms by descending frequency,
// ties broken by first-seen order.
func (p *symptomProfile) dominant(n int) []string {
	out := append([]string(nil), p.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return p.counts[out[i]] > p.counts[out[j]]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// matchDisease scores the profile against every signature and returns the
// probable disease with its confidence. Matching between a reported symptom
// and a signature keyword is case-insensitive substring containment in
// either direction; each keyword scores against the first reported symptom
// it matches and contributes at most once. Clusters at or above a
// signature's min_cluster_size get a 1.2 score boost. The strictly highest
// score wins; ties resolve to the earliest-declared signature; all-zero
// scores yield "unknown". Confidence is min(score, 1.0) rounded to 3
// decimal places.
func matchDisease(profile *symptomProfile, totalCases int, signatures refdata.SignatureTable) (string, float64) {
	bestDisease := "unknown"
	bestScore := 0.0

	for _, sig := range signatures {
		score := 0.0
		for _, kw := range sig.ProbabilityWeights {
			for _, reported := range profile.order {
				if strings.Contains(reported, kw.Symptom) || strings.Contains(kw.Symptom, reported) {
					freq := float64(profile.counts[reported]) / float64(totalCases)
					score += kw.Weight * math.Min(freq, 1.0)
					break
				}
			}
		}

		if totalCases >= sig.MinClusterSize {
			score *= largeClusterBoost
		}

		if score > bestScore {
			bestScore = score
			bestDisease = sig.Disease
		}
	}

	confidence := roundTo(math.Min(bestScore, 1.0), 3)
	return bestDisease, confidence
}
