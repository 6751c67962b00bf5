package refdata

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultEndemicRate is the assumed baseline cases/day for a disease with
// no entry in the region's table.
const DefaultEndemicRate = 0.01

// DefaultRegion is the catch-all baseline table used when a region has no
// table of its own.
const DefaultRegion = "default"

// BaselineTable maps region -> disease -> expected endemic cases per day.
type BaselineTable map[string]map[string]float64

// LoadBaselines reads a baseline rate table from a JSON file.
func LoadBaselines(path string) (BaselineTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline table: %w", err)
	}
	var table BaselineTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse baseline table %s: %w", path, err)
	}
	if _, ok := table[DefaultRegion]; !ok {
		return nil, fmt.Errorf("baseline table %s has no %q region", path, DefaultRegion)
	}
	return table, nil
}

// Rate returns the endemic baseline for a disease in a region, falling back
// to the default region and then to DefaultEndemicRate.
func (t BaselineTable) Rate(region, disease string) float64 {
	rates, ok := t[region]
	if !ok {
		rates = t[DefaultRegion]
	}
	if rate, ok := rates[disease]; ok {
		return rate
	}
	return DefaultEndemicRate
}
