package types

import "time"

type ClusterStatus string

const (
	ClusterActive        ClusterStatus = "active"
	ClusterInvestigating ClusterStatus = "investigating"
	ClusterResolved      ClusterStatus = "resolved"
)

type EventSeverity string

const (
	EventInfo     EventSeverity = "info"
	EventWarning  EventSeverity = "warning"
	EventAlert    EventSeverity = "alert"
	EventCritical EventSeverity = "critical"
)

// Encounter is a single symptom report from the field. Immutable once read
// by the detection pipeline.
type Encounter struct {
	ID           int64     `json:"id"`
	PatientID    string    `json:"patient_id"`
	CHWID        string    `json:"chw_id,omitempty"`
	Symptoms     string    `json:"symptoms"` // raw encoding: JSON array or comma-separated
	OnsetDate    string    `json:"onset_date,omitempty"`
	Severity     int       `json:"severity"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	LocationName string    `json:"location_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Language     string    `json:"language"`
}

// SymptomList returns the encounter's symptoms parsed into normalized form.
func (e Encounter) SymptomList() []string {
	return ParseSymptoms(e.Symptoms)
}

// Cluster is one detected spatiotemporal concentration of encounters.
type Cluster struct {
	ID               int64         `json:"id"`
	CenterLat        float64       `json:"center_lat"`
	CenterLng        float64       `json:"center_lng"`
	RadiusKM         float64       `json:"radius_km"`
	AnomalyScore     float64       `json:"anomaly_score"`
	CaseCount        int           `json:"case_count"`
	DominantSymptoms []string      `json:"dominant_symptoms"`
	ProbableDisease  string        `json:"probable_disease"`
	Confidence       float64       `json:"confidence"`
	Status           ClusterStatus `json:"status"`
	DetectedAt       time.Time     `json:"detected_at"`
	EncounterIDs     []int64       `json:"encounter_ids"`
}

// AgentEvent is one entry in the event log. ClusterID references the cluster
// the event is about and is nulled when that cluster's epoch is replaced.
type AgentEvent struct {
	ID        int64         `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Agent     string        `json:"agent"`
	Message   string        `json:"message"`
	Severity  EventSeverity `json:"severity"`
	ClusterID *int64        `json:"cluster_id,omitempty"`
}
