package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mediclinic/clinic-service/internal/db"
	"github.com/mediclinic/clinic-service/internal/visit"
)

func main() {
	log.Println("Visit Cleanup Job - Starting")

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Create cleanup service
	cleanupService := visit.NewCleanupService(database)
	log.Printf("Retention Policy: %s", cleanupService.Retention())

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Check how many cancelled visits are eligible for cleanup
	count, err := cleanupService.GetExpiredVisitsCount(ctx)
	if err != nil {
		log.Fatalf("Failed to get expired visits count: %v", err)
	}

	log.Printf("Found %d cancelled visits eligible for permanent deletion", count)

	if count == 0 {
		log.Println("No cleanup needed. Exiting.")
		os.Exit(0)
	}

	// Perform cleanup
	deletedCount, err := cleanupService.CleanupExpiredVisits(ctx)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Printf("✓ Cleanup completed successfully: %d visits permanently deleted", deletedCount)
	log.Println("Cleanup Job - Finished")
}
