package types

import (
	"encoding/json"
	"strings"
)

// ParseSymptoms decodes a raw symptom encoding into a normalized list.
// It accepts a JSON array of strings and falls back to naive comma
// splitting for anything else, so a malformed encoding never fails —
// it just yields a best-effort list.
func ParseSymptoms(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		return normalizeSymptoms(parsed)
	}
	return normalizeSymptoms(strings.Split(raw, ","))
}

func normalizeSymptoms(symptoms []string) []string {
	var out []string
	for _, s := range symptoms {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
