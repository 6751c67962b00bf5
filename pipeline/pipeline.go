// Package pipeline ties the detection engine to its collaborators: it pulls
// a snapshot of encounters from the store, runs clustering, replaces the
// active cluster epoch, and writes analyst events for what it found.
package pipeline

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"

	"go-sentinel/db"
	"go-sentinel/detection"
	"go-sentinel/refdata"
	"go-sentinel/types"
)

// Analyst-event severity thresholds on the anomaly multiple.
const (
	warningAnomaly = 10.0
	alertAnomaly   = 100.0
)

type Pipeline struct {
	DB         *sql.DB
	Signatures refdata.SignatureTable
	Baselines  refdata.BaselineTable
	Region     string
	Params     detection.Params
}

func New(conn *sql.DB, signatures refdata.SignatureTable, baselines refdata.BaselineTable, region string) *Pipeline {
	return &Pipeline{
		DB:         conn,
		Signatures: signatures,
		Baselines:  baselines,
		Region:     region,
		Params:     detection.DefaultParams(),
	}
}

// Run executes one full detection pass and returns the stored clusters. The
// compute phase holds no locks; the store step is serialized and atomic, so
// overlapping runs resolve to last-completed-wins. A pass that detects zero
// clusters leaves the prior active epoch untouched and returns nil.
func (p *Pipeline) Run() ([]types.Cluster, error) {
	runID := uuid.NewString()[:8]

	encounters, err := db.EncountersByTime(p.DB)
	if err != nil {
		return nil, fmt.Errorf("run %s: failed to load encounters: %w", runID, err)
	}
	log.Printf("Run %s: clustering %d encounters (eps=%.1fkm/%.1fd, min_samples=%d)",
		runID, len(encounters), p.Params.SpatialEpsKM, p.Params.TemporalEpsDays, p.Params.MinSamples)

	clusters := detection.DetectClusters(encounters, p.Signatures, p.Baselines, p.Region, p.Params)
	if len(clusters) == 0 {
		log.Printf("Run %s: no clusters detected, active epoch unchanged", runID)
		return nil, nil
	}

	stored, err := db.ReplaceActiveClusters(p.DB, clusters)
	if err != nil {
		return nil, fmt.Errorf("run %s: failed to replace active clusters: %w", runID, err)
	}

	p.logClusterEvents(stored)
	log.Printf("Run %s: %d cluster(s) active", runID, len(stored))
	return stored, nil
}

func (p *Pipeline) logClusterEvents(clusters []types.Cluster) {
	for _, c := range clusters {
		severity := types.EventInfo
		if c.AnomalyScore > alertAnomaly {
			severity = types.EventAlert
		} else if c.AnomalyScore > warningAnomaly {
			severity = types.EventWarning
		}

		msg := fmt.Sprintf("Cluster detected: %d cases of probable %s (anomaly %.2fx baseline, confidence %.0f%%)",
			c.CaseCount, c.ProbableDisease, c.AnomalyScore, c.Confidence*100)
		id := c.ID
		if err := db.InsertEvent(p.DB, "analyst", msg, severity, &id); err != nil {
			log.Printf("Warning: failed to log cluster event: %v", err)
		}
	}
}
