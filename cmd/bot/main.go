package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zarabot/crates/internal/config"
	"github.com/zarabot/crates/internal/handlers"
	"github.com/zarabot/crates/internal/logger"
	"github.com/zarabot/crates/internal/middleware"
	"github.com/zarabot/crates/internal/services"
	"github.com/zarabot/crates/internal/session"
	"github.com/zarabot/crates/pkg/correlate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting crate game bot",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"narrators", len(cfg.Narrators))

	cache := services.NewRedisService(cfg.RedisURL, log)
	cacheCtx, cacheCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cacheCancel()

	if err := cache.WaitForConnection(cacheCtx); err != nil {
		log.Error("Failed to connect to cache", "error", err)
		os.Exit(1)
	}
	log.Info("Cache connection established successfully")

	// The catalog must load at least once before games can run; the
	// cached copy covers manifest host outages after that.
	catalogs := services.NewCatalogService(cfg.ItemManifestURL, cache, log)
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer loadCancel()
	if err := catalogs.Load(loadCtx); err != nil {
		log.Error("Failed to load item catalog", "error", err)
		os.Exit(1)
	}
	log.Info("Item catalog loaded", "items", catalogs.Catalog().Len())

	providers := make([]services.Narrator, 0, len(cfg.Narrators))
	for _, p := range cfg.Narrators {
		providers = append(providers, services.NewOpenAIService(p.Name, p.APIKey, p.BaseURL, p.Model))
		log.Info("Registered narrator provider", "name", p.Name, "model", p.Model)
	}
	narrator := services.NewFailoverNarrator(log, providers...)

	inventory := services.NewBagService(cfg.BagAPIURL, cfg.BagAppKey, cfg.BagBotAccount, log)
	registry := correlate.NewRegistry(correlate.DefaultTTL, log)
	transcript := session.NewTranscript()

	manager := session.NewManager(catalogs, inventory, narrator, cache, registry, transcript, session.Config{
		BotAccount: cfg.BagBotAccount,
		PriceFloor: cfg.PriceFloor,
	}, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cache, catalogs, log)
	mux.Handle("/health", healthHandler)

	gameHandler := handlers.NewGameHandler(manager, transcript, log)
	mux.Handle("/v1/games", gameHandler)
	mux.Handle("/v1/games/", gameHandler)

	actionHandler := handlers.NewActionHandler(registry, log)
	mux.Handle("/v1/actions", actionHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Pending player actions fail closed; their sessions see the
	// channel close and give up.
	registry.Close()

	if err := cache.Close(); err != nil {
		log.Error("Error closing cache connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
