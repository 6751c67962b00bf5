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

// Downstream consumers (report/alert generators) get at most this many
// member encounters alongside a cluster.
const memberSampleLimit = 20

// ListClusters returns every stored cluster, newest first.
func ListClusters(c *gin.Context, conn *sql.DB) {
	clusters, err := db.ListClusters(conn)
	if err != nil {
		log.Printf("ERROR listing clusters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clusters"})
		return
	}
	if clusters == nil {
		clusters = []types.Cluster{}
	}
	c.JSON(http.StatusOK, clusters)
}

// GetCluster returns one cluster plus a bounded sample of its member
// encounters.
func GetCluster(c *gin.Context, conn *sql.DB) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cluster id"})
		return
	}

	cluster, err := db.GetCluster(conn, id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cluster not found"})
		return
	}
	if err != nil {
		log.Printf("ERROR fetching cluster %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cluster"})
		return
	}

	members, err := db.EncountersByIDs(conn, cluster.EncounterIDs, memberSampleLimit)
	if err != nil {
		log.Printf("ERROR fetching cluster %d members: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cluster members"})
		return
	}
	if members == nil {
		members = []types.Encounter{}
	}

	c.JSON(http.StatusOK, gin.H{
		"cluster":    cluster,
		"encounters": members,
	})
}
