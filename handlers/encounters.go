package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-sentinel/db"
	"go-sentinel/pipeline"
	"go-sentinel/types"
)

type encounterRequest struct {
	PatientID    string   `json:"patient_id" binding:"required"`
	CHWID        string   `json:"chw_id"`
	Symptoms     []string `json:"symptoms" binding:"required"`
	OnsetDate    string   `json:"onset_date"`
	Severity     int      `json:"severity"`
	Lat          *float64 `json:"lat" binding:"required"`
	Lng          *float64 `json:"lng" binding:"required"`
	LocationName string   `json:"location_name"`
	Language     string   `json:"language"`
}

// CreateEncounter stores a new encounter and synchronously re-runs
// detection over the updated dataset. Coordinate and severity ranges are
// rejected here, at the source boundary — never inside the detection core.
func CreateEncounter(c *gin.Context, conn *sql.DB, pl *pipeline.Pipeline) {
	var req encounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if *req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "coordinates out of range"})
		return
	}
	if req.Severity == 0 {
		req.Severity = 3
	}
	if req.Severity < 1 || req.Severity > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "severity must be between 1 and 5"})
		return
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if req.OnsetDate == "" {
		req.OnsetDate = time.Now().UTC().Format("2006-01-02")
	}

	symptomsJSON, err := json.Marshal(req.Symptoms)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid symptoms"})
		return
	}

	encounter := types.Encounter{
		PatientID:    req.PatientID,
		CHWID:        req.CHWID,
		Symptoms:     string(symptomsJSON),
		OnsetDate:    req.OnsetDate,
		Severity:     req.Severity,
		Lat:          *req.Lat,
		Lng:          *req.Lng,
		LocationName: req.LocationName,
		Timestamp:    time.Now().UTC(),
		Language:     req.Language,
	}

	id, err := db.InsertEncounter(conn, encounter)
	if err != nil {
		log.Printf("ERROR inserting encounter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store encounter"})
		return
	}
	encounter.ID = id

	// New data invalidates the active epoch — re-run detection now. A
	// failed run doesn't undo the insert; the caller can retry via /analyze.
	if _, err := pl.Run(); err != nil {
		log.Printf("Warning: detection run after encounter %d failed: %v", id, err)
	}

	c.JSON(http.StatusCreated, encounter)
}

// ListEncounters returns encounters newest first, optionally filtered with
// ?since=<RFC3339 instant>.
func ListEncounters(c *gin.Context, conn *sql.DB) {
	encounters, err := db.ListEncounters(conn, c.Query("since"))
	if err != nil {
		log.Printf("ERROR listing encounters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve encounters"})
		return
	}
	if encounters == nil {
		encounters = []types.Encounter{}
	}
	c.JSON(http.StatusOK, encounters)
}
