// Package main provides the entry point for the Sanctuary server application.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/sanctuaryapp/sanctuary-server/internal/di"
	"github.com/sanctuaryapp/sanctuary-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services. The configured logger may not exist yet,
	// so failures report through a default one.
	if err := di.Bootstrap(injector); err != nil {
		logger.New(logger.Config{Writer: os.Stderr}).Fatal("Failed to bootstrap server", "error", err)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse dependency order. Every handle
	// implements do.Shutdownable, so the HTTP server drains first and
	// the database and search index close last.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Goodnight.")
}
