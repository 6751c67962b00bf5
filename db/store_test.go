package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"go-sentinel/types"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testCluster(disease string, caseCount int) types.Cluster {
	return types.Cluster{
		CenterLat:        23.8042,
		CenterLng:        90.3687,
		RadiusKM:         0.35,
		AnomalyScore:     186.5,
		CaseCount:        caseCount,
		DominantSymptoms: []string{"watery diarrhea", "vomiting"},
		ProbableDisease:  disease,
		Confidence:       0.92,
		EncounterIDs:     []int64{1, 2, 3},
	}
}

func TestInsertAndListEncounters(t *testing.T) {
	conn := openTestDB(t)

	base := time.Date(2026, 2, 17, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		e := types.Encounter{
			PatientID: "P-0001",
			Symptoms:  `["fever"]`,
			Severity:  3,
			Lat:       23.8,
			Lng:       90.36,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Language:  "en",
		}
		if _, err := InsertEncounter(conn, e); err != nil {
			t.Fatalf("InsertEncounter: %v", err)
		}
	}

	asc, err := EncountersByTime(conn)
	if err != nil {
		t.Fatalf("EncountersByTime: %v", err)
	}
	if len(asc) != 3 {
		t.Fatalf("got %d encounters, want 3", len(asc))
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].Timestamp.Before(asc[i-1].Timestamp) {
			t.Error("EncountersByTime not ascending")
		}
	}

	desc, err := ListEncounters(conn, "")
	if err != nil {
		t.Fatalf("ListEncounters: %v", err)
	}
	if desc[0].Timestamp.Before(desc[1].Timestamp) {
		t.Error("ListEncounters not descending")
	}

	since := base.Add(90 * time.Minute).Format(time.RFC3339)
	filtered, err := ListEncounters(conn, since)
	if err != nil {
		t.Fatalf("ListEncounters(since): %v", err)
	}
	if len(filtered) != 1 {
		t.Errorf("since filter returned %d encounters, want 1", len(filtered))
	}
}

func TestEncountersByIDsBounded(t *testing.T) {
	conn := openTestDB(t)

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := InsertEncounter(conn, types.Encounter{
			PatientID: "P-0002",
			Symptoms:  `["cough"]`,
			Severity:  2,
			Lat:       23.7, Lng: 90.4,
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertEncounter: %v", err)
		}
		ids = append(ids, id)
	}

	sample, err := EncountersByIDs(conn, ids, 3)
	if err != nil {
		t.Fatalf("EncountersByIDs: %v", err)
	}
	if len(sample) != 3 {
		t.Errorf("sample size = %d, want 3", len(sample))
	}

	none, err := EncountersByIDs(conn, nil, 3)
	if err != nil || none != nil {
		t.Errorf("empty id set: got %v, %v", none, err)
	}
}

func TestReplaceActiveClusters(t *testing.T) {
	conn := openTestDB(t)

	first, err := ReplaceActiveClusters(conn, []types.Cluster{
		testCluster("cholera", 45),
		testCluster("dengue", 12),
	})
	if err != nil {
		t.Fatalf("first replace: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("stored %d clusters, want 2", len(first))
	}
	for _, c := range first {
		if c.ID == 0 {
			t.Error("stored cluster has no id")
		}
		if c.Status != types.ClusterActive {
			t.Errorf("stored cluster status = %q, want active", c.Status)
		}
	}

	// Dependent records pointing at the active epoch.
	for _, c := range first {
		id := c.ID
		if err := InsertEvent(conn, "analyst", "cluster detected", types.EventAlert, &id); err != nil {
			t.Fatalf("InsertEvent: %v", err)
		}
	}

	second, err := ReplaceActiveClusters(conn, []types.Cluster{testCluster("cholera", 50)})
	if err != nil {
		t.Fatalf("second replace: %v", err)
	}

	// Only the second run's clusters remain.
	remaining, err := ListClusters(conn)
	if err != nil {
		t.Fatalf("ListClusters: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("%d clusters remain, want 1", len(remaining))
	}
	if remaining[0].ID != second[0].ID {
		t.Errorf("remaining cluster id = %d, want %d", remaining[0].ID, second[0].ID)
	}
	firstIDs := map[int64]bool{first[0].ID: true, first[1].ID: true}
	if firstIDs[remaining[0].ID] {
		t.Error("a first-run cluster id survived the replacement")
	}

	// No dependent record still references the superseded epoch.
	events, err := ListEvents(conn, 50)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("%d events, want 2", len(events))
	}
	for _, ev := range events {
		if ev.ClusterID != nil {
			t.Errorf("event %d still references cluster %d", ev.ID, *ev.ClusterID)
		}
	}
}

func TestReplaceActiveClustersZeroIsNoOp(t *testing.T) {
	conn := openTestDB(t)

	stored, err := ReplaceActiveClusters(conn, []types.Cluster{testCluster("cholera", 45)})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	// A run that found nothing leaves the prior epoch alone.
	got, err := ReplaceActiveClusters(conn, nil)
	if err != nil {
		t.Fatalf("zero-cluster replace: %v", err)
	}
	if got != nil {
		t.Errorf("zero-cluster replace returned %v, want nil", got)
	}

	remaining, err := ListClusters(conn)
	if err != nil {
		t.Fatalf("ListClusters: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != stored[0].ID {
		t.Errorf("prior epoch was disturbed: %+v", remaining)
	}
	if remaining[0].Status != types.ClusterActive {
		t.Errorf("prior cluster status = %q, want active", remaining[0].Status)
	}
}

func TestGetClusterRoundTrip(t *testing.T) {
	conn := openTestDB(t)

	stored, err := ReplaceActiveClusters(conn, []types.Cluster{testCluster("cholera", 45)})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := GetCluster(conn, stored[0].ID)
	if err != nil {
		t.Fatalf("GetCluster: %v", err)
	}
	if got.ProbableDisease != "cholera" || got.CaseCount != 45 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.DominantSymptoms) != 2 || got.DominantSymptoms[0] != "watery diarrhea" {
		t.Errorf("dominant symptoms = %v", got.DominantSymptoms)
	}
	if len(got.EncounterIDs) != 3 {
		t.Errorf("encounter ids = %v", got.EncounterIDs)
	}

	if _, err := GetCluster(conn, 99999); err != sql.ErrNoRows {
		t.Errorf("missing cluster error = %v, want sql.ErrNoRows", err)
	}
}

func TestListEventsChronologicalAndLimited(t *testing.T) {
	conn := openTestDB(t)

	for i := 0; i < 5; i++ {
		if err := InsertEvent(conn, "analyst", "msg", types.EventInfo, nil); err != nil {
			t.Fatalf("InsertEvent: %v", err)
		}
	}

	events, err := ListEvents(conn, 3)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Most recent three, oldest first.
	if events[0].ID >= events[1].ID || events[1].ID >= events[2].ID {
		t.Errorf("events not chronological: %d, %d, %d", events[0].ID, events[1].ID, events[2].ID)
	}
	if events[2].ID != 5 {
		t.Errorf("latest event id = %d, want 5", events[2].ID)
	}
}
