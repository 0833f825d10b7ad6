package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/balaji0322/smart-ai-triage/internal/roster"
	"github.com/balaji0322/smart-ai-triage/pkg/config"
	"github.com/balaji0322/smart-ai-triage/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	service := roster.New(cfg, logger)

	port := os.Getenv("ROSTER_PORT")
	if port == "" {
		port = "8081"
	}

	// Start service in a goroutine
	go func() {
		logger.Infof("Starting Roster Service on port %s", port)
		if err := service.Start(":" + port); err != nil {
			logger.Fatalf("Failed to start Roster Service: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Roster Service...")
	if err := service.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Roster Service stopped")
}
