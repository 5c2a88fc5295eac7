package router

import (
	"github.com/gin-gonic/gin"

	"fieldatlas/internal/handler"
	"fieldatlas/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	documentH *handler.DocumentHandler,
	searchH *handler.SearchHandler,
	gazetteerH *handler.GazetteerHandler,
	exportH *handler.ExportHandler,
	statsH *handler.StatsHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Document ingestion and results
	docs := v1.Group("/documents")
	docs.POST("", documentH.Ingest)
	docs.GET("", documentH.List)
	docs.GET("/:id", documentH.GetByID)
	docs.GET("/:id/results", documentH.Results)
	docs.GET("/:id/mentions", documentH.Mentions)
	docs.GET("/:id/tables", documentH.Tables)
	docs.GET("/:id/keywords", documentH.Keywords)
	docs.POST("/:id/reprocess", documentH.Reprocess)
	docs.DELETE("/:id", documentH.Delete)

	// Search
	search := v1.Group("/search")
	search.GET("/locations", searchH.Locations)
	search.GET("/topics", searchH.Topics)

	// Reference data
	v1.GET("/gazetteer", gazetteerH.List)

	// Exports
	exports := v1.Group("/exports")
	exports.GET("/mentions.csv", exportH.MentionsCSV)
	exports.GET("/tables.csv", exportH.TablesCSV)
	exports.GET("/tables.xlsx", exportH.TablesXLSX)

	// Stats
	v1.GET("/stats", statsH.Get)

	return r
}
