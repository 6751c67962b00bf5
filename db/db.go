// Package db is the SQLite persistence layer: the encounter feed, the
// cluster store with its replace-active-epoch contract, and the event log.
package db

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS encounters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	patient_id TEXT,
	chw_id TEXT,
	symptoms TEXT,
	onset_date TEXT,
	severity INTEGER CHECK(severity BETWEEN 1 AND 5),
	lat REAL,
	lng REAL,
	location_name TEXT,
	timestamp TEXT NOT NULL,
	language TEXT DEFAULT 'en'
);
CREATE INDEX IF NOT EXISTS idx_encounters_timestamp ON encounters(timestamp);

CREATE TABLE IF NOT EXISTS clusters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	center_lat REAL,
	center_lng REAL,
	radius_km REAL,
	anomaly_score REAL,
	case_count INTEGER,
	dominant_symptoms TEXT,
	probable_disease TEXT,
	confidence REAL,
	encounter_ids TEXT,
	detected_at TEXT NOT NULL,
	status TEXT DEFAULT 'active' CHECK(status IN ('active','investigating','resolved'))
);
CREATE INDEX IF NOT EXISTS idx_clusters_status ON clusters(status);

CREATE TABLE IF NOT EXISTS agent_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT NOT NULL,
	agent TEXT,
	message TEXT,
	severity TEXT DEFAULT 'info' CHECK(severity IN ('info','warning','alert','critical')),
	cluster_id INTEGER,
	FOREIGN KEY (cluster_id) REFERENCES clusters(id)
);`

// Open opens (creating if needed) the SQLite database at path and ensures
// the schema exists.
func Open(path string) (*sql.DB, error) {
	log.Printf("Opening database at %s", path)
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return conn, nil
}
