// Package refdata loads the static reference tables the detection pipeline
// matches and scores against. Both tables are loaded once at startup and
// passed by reference into the pipeline, so tests can substitute their own.
package refdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// WeightedSymptom is one keyword in a disease signature. Keyword order
// within a signature is significant: each keyword scores against the first
// reported symptom it matches.
type WeightedSymptom struct {
	Symptom string  `json:"symptom"`
	Weight  float64 `json:"weight"`
}

// Signature is a weighted symptom profile for one disease.
type Signature struct {
	Disease            string            `json:"disease"`
	ProbabilityWeights []WeightedSymptom `json:"probability_weights"`
	MinClusterSize     int               `json:"min_cluster_size"`
}

// SignatureTable holds signatures in declaration order. Matching ties
// resolve to the earliest-declared signature, so the table is a slice
// rather than a map.
type SignatureTable []Signature

const defaultMinClusterSize = 3

// LoadSignatures reads a signature table from a JSON array file.
func LoadSignatures(path string) (SignatureTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature table: %w", err)
	}
	var table SignatureTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse signature table %s: %w", path, err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("signature table %s is empty", path)
	}
	for i := range table {
		sig := &table[i]
		if sig.Disease == "" {
			return nil, fmt.Errorf("signature %d in %s has no disease name", i, path)
		}
		if sig.MinClusterSize <= 0 {
			sig.MinClusterSize = defaultMinClusterSize
		}
		for _, w := range sig.ProbabilityWeights {
			if w.Weight < 0 || w.Weight > 1 {
				return nil, fmt.Errorf("signature %q: weight %.3f for %q out of [0,1]", sig.Disease, w.Weight, w.Symptom)
			}
		}
	}
	return table, nil
}
