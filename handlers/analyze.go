package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-sentinel/pipeline"
	"go-sentinel/types"
)

// TriggerAnalysis runs the detection pipeline on demand. A storage failure
// during the replace-active step is fatal to this request; the caller
// decides on retry.
func TriggerAnalysis(c *gin.Context, pl *pipeline.Pipeline) {
	log.Println("Handler: manual analysis triggered")

	clusters, err := pl.Run()
	if err != nil {
		log.Printf("ERROR during analysis run: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis run failed"})
		return
	}

	if len(clusters) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":  "No clusters detected",
			"clusters": []types.Cluster{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Analysis complete",
		"clusters": clusters,
	})
}
