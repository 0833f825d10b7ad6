package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/balaji0322/smart-ai-triage/internal/dispatch"
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

	// The dispatch service shares doctor assignment state with an
	// in-process roster store.
	rosterService := roster.New(cfg, logger)

	service, err := dispatch.New(cfg, logger, rosterService.Store())
	if err != nil {
		logger.Fatalf("Failed to initialize Dispatch Service: %v", err)
	}

	addr := ":" + strconv.Itoa(cfg.Server.Port)

	// Start service in a goroutine
	go func() {
		logger.Infof("Starting Dispatch Service on %s", addr)
		if err := service.Start(addr); err != nil {
			logger.Fatalf("Failed to start Dispatch Service: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Dispatch Service...")
	if err := service.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Dispatch Service stopped")
}
