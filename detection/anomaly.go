package detection

import (
	"math"

	"go-sentinel/refdata"
)

// anomalyScore quantifies how far the observed case rate exceeds the
// regional endemic baseline: (observed - baseline) / baseline, floored at 0
// and rounded to 2 decimal places. The observation window is floored at one
// day so same-day clusters don't blow up the rate. A non-positive baseline
// falls back to the raw observed rate.
func anomalyScore(baselines refdata.BaselineTable, region, disease string, caseCount int, daysSpan float64) float64 {
	baseline := baselines.Rate(region, disease)
	days := math.Max(daysSpan, 1.0)
	observedRate := float64(caseCount) / days

	score := observedRate
	if baseline > 0 {
		score = (observedRate - baseline) / baseline
	}
	return roundTo(math.Max(score, 0.0), 2)
}
