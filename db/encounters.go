package db

import (
	"database/sql"
	"fmt"
	"time"

	"go-sentinel/types"
)

const encounterColumns = "id, patient_id, chw_id, symptoms, onset_date, severity, lat, lng, location_name, timestamp, language"

// InsertEncounter stores a new encounter and returns its assigned id.
func InsertEncounter(conn *sql.DB, e types.Encounter) (int64, error) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	res, err := conn.Exec(
		`INSERT INTO encounters
		   (patient_id, chw_id, symptoms, onset_date, severity, lat, lng, location_name, timestamp, language)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.PatientID, e.CHWID, e.Symptoms, e.OnsetDate, e.Severity,
		e.Lat, e.Lng, e.LocationName, e.Timestamp.UTC().Format(time.RFC3339), e.Language,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert encounter: %w", err)
	}
	return res.LastInsertId()
}

// EncountersByTime returns every encounter ordered by timestamp ascending —
// the snapshot the detection pipeline consumes.
func EncountersByTime(conn *sql.DB) ([]types.Encounter, error) {
	rows, err := conn.Query("SELECT " + encounterColumns + " FROM encounters ORDER BY timestamp ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query encounters: %w", err)
	}
	defer rows.Close()
	return scanEncounters(rows)
}

// ListEncounters returns encounters newest first, optionally only those at
// or after the given RFC3339 instant.
func ListEncounters(conn *sql.DB, since string) ([]types.Encounter, error) {
	var rows *sql.Rows
	var err error
	if since != "" {
		rows, err = conn.Query("SELECT "+encounterColumns+" FROM encounters WHERE timestamp >= ? ORDER BY timestamp DESC", since)
	} else {
		rows, err = conn.Query("SELECT " + encounterColumns + " FROM encounters ORDER BY timestamp DESC")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query encounters: %w", err)
	}
	defer rows.Close()
	return scanEncounters(rows)
}

// EncountersByIDs returns up to limit encounters from the given id set,
// newest first. Used to hand downstream consumers a bounded sample of a
// cluster's members.
func EncountersByIDs(conn *sql.DB, ids []int64, limit int) ([]types.Encounter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + encounterColumns + " FROM encounters WHERE id IN ("
	args := make([]interface{}, 0, len(ids)+1)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ") ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query encounters by ids: %w", err)
	}
	defer rows.Close()
	return scanEncounters(rows)
}

func scanEncounters(rows *sql.Rows) ([]types.Encounter, error) {
	var encounters []types.Encounter
	for rows.Next() {
		var e types.Encounter
		var chwID, onsetDate, locationName, language sql.NullString
		var ts string
		if err := rows.Scan(&e.ID, &e.PatientID, &chwID, &e.Symptoms, &onsetDate,
			&e.Severity, &e.Lat, &e.Lng, &locationName, &ts, &language); err != nil {
			return nil, fmt.Errorf("failed to scan encounter: %w", err)
		}
		e.CHWID = chwID.String
		e.OnsetDate = onsetDate.String
		e.LocationName = locationName.String
		e.Language = language.String
		parsed, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse encounter timestamp %q: %w", ts, err)
		}
		e.Timestamp = parsed
		encounters = append(encounters, e)
	}
	return encounters, rows.Err()
}
