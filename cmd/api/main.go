package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"econbot/infrastructure/config"
	"econbot/infrastructure/di"
	"econbot/interfaces/http/rest"
	"econbot/interfaces/http/rest/handlers"

	"go.uber.org/zap"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	// Create router
	// Only the breaker-wrapped client reports a state
	circuit, _ := container.LLM.(handlers.CircuitState)

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.GraphStore,
		container.Collector,
		rest.Options{
			RequestTimeout:     cfg.RequestTimeout,
			EnableCORS:         cfg.EnableCORS,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			EnableMetrics:      cfg.EnableMetrics,
			RateLimiter:        container.RateLimiter,
			LLMCircuit:         circuit,
			EnableTracing:      cfg.EnableTracing,
			Debug:              cfg.IsDevelopment(),
		},
		container.Logger,
	)

	// Create HTTP server. Educate requests make two model calls, so writes
	// must be allowed to outlast the request timeout.
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("graph_backend", cfg.GraphBackend),
			zap.String("model", cfg.OpenAIModel),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown; in-flight educate requests get their full timeout
	container.Logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.RequestTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// Clean up resources
	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
