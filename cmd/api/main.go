package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/db"
	clinichttp "github.com/mediclinic/clinic-service/internal/http"
	"github.com/mediclinic/clinic-service/internal/messaging"
	"github.com/mediclinic/clinic-service/internal/telemetry"
)

func main() {
	log.Println("clinic-service starting")

	ctx := context.Background()

	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	}
	if provider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: telemetry shutdown error: %v", err)
			}
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	} else {
		log.Println("✓ Custom metrics initialized")
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("✓ Database connection established")

	if err := db.EnsureSchema(ctx, database); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	log.Println("✓ Database schema ready")

	var publisher messaging.PublisherInterface
	rabbit, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: RabbitMQ unavailable, events will not be published: %v", err)
	} else {
		defer rabbit.Close()
		publisher = rabbit
		log.Println("✓ RabbitMQ publisher connected")
	}

	perms := loadPermissions()
	tokens := auth.NewTokenProvider(auth.LoadConfig())

	router := clinichttp.SetupRouter(database, tokens, perms, publisher, metrics)
	handler := clinichttp.CORSMiddleware(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ clinic-service listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown error: %v", err)
	}
	log.Println("clinic-service stopped")
}

func loadPermissions() auth.Permissions {
	path := os.Getenv("PERMISSIONS_FILE")
	if path == "" {
		path = "permissions.yml"
	}

	perms, err := auth.LoadPermissions(path)
	if err != nil {
		log.Printf("Warning: could not load %s (%v), using built-in permissions", path, err)
		return auth.DefaultPermissions()
	}

	log.Printf("✓ Permissions loaded from %s", path)
	return perms
}
