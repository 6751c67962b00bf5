// Package detection turns a snapshot of encounters into outbreak clusters:
// spatiotemporal DBSCAN, per-cluster geometry, disease signature matching
// and anomaly scoring against regional baselines. It is a self-contained,
// stateless computation — each call works from scratch over the snapshot it
// is given and carries nothing between runs.
package detection

import (
	"go-sentinel/refdata"
	"go-sentinel/types"
)

// Params control the clustering pass.
type Params struct {
	SpatialEpsKM    float64 // max neighbor distance on the ground
	TemporalEpsDays float64 // max neighbor distance in time
	MinSamples      int     // points within eps for a core point, itself included
}

// DefaultParams match the tuning the baseline tables were calibrated against.
func DefaultParams() Params {
	return Params{
		SpatialEpsKM:    2.0,
		TemporalEpsDays: 3.0,
		MinSamples:      3,
	}
}

// DetectClusters runs the full per-cluster pipeline over encounters, which
// must be ordered by timestamp ascending. Fewer than MinSamples encounters
// is not an error — it returns no clusters. Identical input order and
// parameters always produce the identical partition.
func DetectClusters(encounters []types.Encounter, signatures refdata.SignatureTable, baselines refdata.BaselineTable, region string, p Params) []types.Cluster {
	if len(encounters) < p.MinSamples {
		return nil
	}

	// Scale elapsed time so one Euclidean epsilon in feature space means
	// "within SpatialEpsKM AND within TemporalEpsDays".
	epsDeg := p.SpatialEpsKM / kmPerDegLat
	timeScale := epsDeg / p.TemporalEpsDays

	refTime := encounters[0].Timestamp
	points := make([][3]float64, len(encounters))
	for i, e := range encounters {
		elapsedDays := e.Timestamp.Sub(refTime).Hours() / 24.0
		points[i] = [3]float64{e.Lat, e.Lng, elapsedDays * timeScale}
	}

	labels := dbscan(points, epsDeg, p.MinSamples)

	clusterCount := 0
	for _, label := range labels {
		if label >= clusterCount {
			clusterCount = label + 1
		}
	}

	var clusters []types.Cluster
	for label := 0; label < clusterCount; label++ {
		var members []types.Encounter
		for i, l := range labels {
			if l == label {
				members = append(members, encounters[i])
			}
		}
		clusters = append(clusters, buildCluster(members, signatures, baselines, region))
	}
	return clusters
}

func buildCluster(members []types.Encounter, signatures refdata.SignatureTable, baselines refdata.BaselineTable, region string) types.Cluster {
	lats := make([]float64, len(members))
	lngs := make([]float64, len(members))
	ids := make([]int64, len(members))
	for i, m := range members {
		lats[i] = m.Lat
		lngs[i] = m.Lng
		ids[i] = m.ID
	}

	centerLat, centerLng := centroid(lats, lngs)
	radiusKM := boundingRadiusKM(centerLat, centerLng, lats, lngs)

	profile := newSymptomProfile()
	for _, m := range members {
		for _, s := range m.SymptomList() {
			profile.add(s)
		}
	}

	disease, confidence := matchDisease(profile, len(members), signatures)

	earliest, latest := members[0].Timestamp, members[0].Timestamp
	for _, m := range members[1:] {
		if m.Timestamp.Before(earliest) {
			earliest = m.Timestamp
		}
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	daysSpan := latest.Sub(earliest).Hours() / 24.0

	return types.Cluster{
		CenterLat:        roundTo(centerLat, 6),
		CenterLng:        roundTo(centerLng, 6),
		RadiusKM:         roundTo(radiusKM, 2),
		AnomalyScore:     anomalyScore(baselines, region, disease, len(members), daysSpan),
		CaseCount:        len(members),
		DominantSymptoms: profile.dominant(5),
		ProbableDisease:  disease,
		Confidence:       confidence,
		Status:           types.ClusterActive,
		EncounterIDs:     ids,
	}
}
