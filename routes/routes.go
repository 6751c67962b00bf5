package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"go-sentinel/handlers"
	"go-sentinel/pipeline"
)

func SetupRouter(conn *sql.DB, pl *pipeline.Pipeline) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "go-sentinel",
		})
	})

	// api routes
	api := r.Group("/api/sentinel")
	{
		api.POST("/encounters", func(c *gin.Context) {
			handlers.CreateEncounter(c, conn, pl)
		})
		api.GET("/encounters", func(c *gin.Context) {
			handlers.ListEncounters(c, conn)
		})
		api.GET("/clusters", func(c *gin.Context) {
			handlers.ListClusters(c, conn)
		})
		api.GET("/clusters/:id", func(c *gin.Context) {
			handlers.GetCluster(c, conn)
		})
		api.POST("/analyze", func(c *gin.Context) {
			handlers.TriggerAnalysis(c, pl)
		})
		api.GET("/events", func(c *gin.Context) {
			handlers.ListEvents(c, conn)
		})
	}

	return r
}
