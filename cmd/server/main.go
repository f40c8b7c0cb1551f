package main

import (
	"log"
	"os"

	"leadlink/internal/db"
	"leadlink/internal/router"
	"leadlink/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Start the background enrichment worker
	services.GetEnrichment()

	// Initialize Gin
	r := gin.Default()
	router.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Printf("LeadLink server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
