package router

import (
	"os"
	"strings"
	"time"

	"leadlink/internal/handlers"
	"leadlink/internal/provider"
	"leadlink/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the API surface the dashboard consumes.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(corsConfig()))

	p := provider.FromEnv()

	healthHandler := handlers.NewHealthHandler()
	accountHandler := handlers.NewAccountHandler(p)
	postHandler := handlers.NewPostHandler(services.GetExtractor(), services.GetEnrichment())
	exportHandler := handlers.NewExportHandler(services.GetExport())
	statsHandler := handlers.NewStatsHandler()

	r.GET("/", healthHandler.Root)

	api := r.Group("/api")
	{
		api.GET("/accounts", accountHandler.List)
		api.GET("/stats", statsHandler.Get)

		api.POST("/posts/extract", postHandler.Extract)
		api.GET("/posts", postHandler.List)
		api.GET("/posts/:id", postHandler.Get)
		api.DELETE("/posts/:id", postHandler.Delete)
		api.GET("/posts/:id/leads", postHandler.ListLeads)
		api.POST("/posts/:id/enrich", postHandler.Enrich)
		api.GET("/posts/:id/export/csv", exportHandler.CSV)
		api.GET("/posts/:id/export/excel", exportHandler.Excel)
	}
}

func corsConfig() cors.Config {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	return cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
