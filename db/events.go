package db

import (
	"database/sql"
	"fmt"
	"time"

	"go-sentinel/types"
)

// InsertEvent appends an entry to the event log. clusterID may be nil for
// events not tied to a specific cluster.
func InsertEvent(conn *sql.DB, agent, message string, severity types.EventSeverity, clusterID *int64) error {
	var ref interface{}
	if clusterID != nil {
		ref = *clusterID
	}
	_, err := conn.Exec(
		`INSERT INTO agent_events (timestamp, agent, message, severity, cluster_id)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), agent, message, severity, ref,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent limit events in chronological order
// (oldest first), for feed backfill.
func ListEvents(conn *sql.DB, limit int) ([]types.AgentEvent, error) {
	rows, err := conn.Query(
		`SELECT id, timestamp, agent, message, severity, cluster_id
		 FROM agent_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []types.AgentEvent
	for rows.Next() {
		var ev types.AgentEvent
		var ts string
		var clusterID sql.NullInt64
		if err := rows.Scan(&ev.ID, &ts, &ev.Agent, &ev.Message, &ev.Severity, &clusterID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp %q: %w", ts, err)
		}
		ev.Timestamp = parsed
		if clusterID.Valid {
			id := clusterID.Int64
			ev.ClusterID = &id
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
