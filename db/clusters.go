package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"go-sentinel/types"
)

// Serializes replace-active runs so two overlapping detection runs cannot
// interleave their clear/delete/insert triples. Last completed run wins.
var replaceMu sync.Mutex

const clusterColumns = "id, center_lat, center_lng, radius_km, anomaly_score, case_count, dominant_symptoms, probable_disease, confidence, encounter_ids, detected_at, status"

// ReplaceActiveClusters supersedes the currently active cluster epoch with
// the given set in one transaction: event-log references to active clusters
// are nulled, active rows are deleted, and the new clusters are inserted as
// active. A run that found zero clusters performs no change at all — the
// prior epoch stays active until a later run supersedes it.
//
// The stored clusters are returned with their assigned ids.
func ReplaceActiveClusters(conn *sql.DB, clusters []types.Cluster) ([]types.Cluster, error) {
	if len(clusters) == 0 {
		return nil, nil
	}

	replaceMu.Lock()
	defer replaceMu.Unlock()

	tx, err := conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Null the back-references first to avoid FK violations on delete.
	if _, err := tx.Exec(
		`UPDATE agent_events SET cluster_id = NULL
		 WHERE cluster_id IN (SELECT id FROM clusters WHERE status = 'active')`,
	); err != nil {
		return nil, fmt.Errorf("failed to clear event references to active clusters: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM clusters WHERE status = 'active'`); err != nil {
		return nil, fmt.Errorf("failed to delete active clusters: %w", err)
	}

	detectedAt := time.Now().UTC()
	stored := make([]types.Cluster, 0, len(clusters))
	for _, c := range clusters {
		symptomsJSON, err := json.Marshal(c.DominantSymptoms)
		if err != nil {
			return nil, fmt.Errorf("failed to encode dominant symptoms: %w", err)
		}
		idsJSON, err := json.Marshal(c.EncounterIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to encode encounter ids: %w", err)
		}

		res, err := tx.Exec(
			`INSERT INTO clusters
			   (center_lat, center_lng, radius_km, anomaly_score, case_count,
			    dominant_symptoms, probable_disease, confidence, encounter_ids, detected_at, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active')`,
			c.CenterLat, c.CenterLng, c.RadiusKM, c.AnomalyScore, c.CaseCount,
			string(symptomsJSON), c.ProbableDisease, c.Confidence, string(idsJSON),
			detectedAt.Format(time.RFC3339),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert cluster: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read cluster id: %w", err)
		}
		c.ID = id
		c.Status = types.ClusterActive
		c.DetectedAt = detectedAt
		stored = append(stored, c)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cluster replacement: %w", err)
	}

	log.Printf("Replaced active cluster epoch: %d cluster(s) stored", len(stored))
	return stored, nil
}

// ListClusters returns every stored cluster, newest first.
func ListClusters(conn *sql.DB) ([]types.Cluster, error) {
	rows, err := conn.Query("SELECT " + clusterColumns + " FROM clusters ORDER BY detected_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query clusters: %w", err)
	}
	defer rows.Close()

	var clusters []types.Cluster
	for rows.Next() {
		c, err := scanCluster(rows.Scan)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}

// GetCluster returns a single cluster by id. sql.ErrNoRows when absent.
func GetCluster(conn *sql.DB, id int64) (types.Cluster, error) {
	row := conn.QueryRow("SELECT "+clusterColumns+" FROM clusters WHERE id = ?", id)
	return scanCluster(row.Scan)
}

func scanCluster(scan func(...interface{}) error) (types.Cluster, error) {
	var c types.Cluster
	var symptomsJSON, idsJSON, detectedAt string
	err := scan(&c.ID, &c.CenterLat, &c.CenterLng, &c.RadiusKM, &c.AnomalyScore,
		&c.CaseCount, &symptomsJSON, &c.ProbableDisease, &c.Confidence,
		&idsJSON, &detectedAt, &c.Status)
	if err == sql.ErrNoRows {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("failed to scan cluster: %w", err)
	}
	if err := json.Unmarshal([]byte(symptomsJSON), &c.DominantSymptoms); err != nil {
		return c, fmt.Errorf("failed to decode dominant symptoms: %w", err)
	}
	if err := json.Unmarshal([]byte(idsJSON), &c.EncounterIDs); err != nil {
		return c, fmt.Errorf("failed to decode encounter ids: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, detectedAt)
	if err != nil {
		return c, fmt.Errorf("failed to parse detected_at %q: %w", detectedAt, err)
	}
	c.DetectedAt = parsed
	return c, nil
}
