package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-sentinel/db"
	"go-sentinel/types"
)

const defaultEventLimit = 50

// ListEvents returns recent event-log entries in chronological order for
// feed backfill. ?limit= caps the count.
func ListEvents(c *gin.Context, conn *sql.DB) {
	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := db.ListEvents(conn, limit)
	if err != nil {
		log.Printf("ERROR listing events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	if events == nil {
		events = []types.AgentEvent{}
	}
	c.JSON(http.StatusOK, events)
}
