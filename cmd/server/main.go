package main

import (
	"context"
	"log"
	"os"

	"github.com/anonto42/collab/backend/internal/handlers"
	"github.com/anonto42/collab/backend/internal/router"
	"github.com/anonto42/collab/backend/internal/validators"
	"github.com/anonto42/collab/backend/pkg/config"
	"github.com/anonto42/collab/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Firebase login is optional
	var firebaseAuth handlers.TokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		client, err := firebase.NewAuthClient(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuth = client
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, cfg, logger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db, firebaseAuth, logger); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	logger.Info("server starting", "port", cfg.Port, "backend", cfg.StoreBackend)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
