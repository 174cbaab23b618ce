package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/gossip-village/internal/config"
	"github.com/jwebster45206/gossip-village/internal/handlers"
	"github.com/jwebster45206/gossip-village/internal/logger"
	"github.com/jwebster45206/gossip-village/internal/middleware"
	"github.com/jwebster45206/gossip-village/internal/services"
	"github.com/jwebster45206/gossip-village/internal/services/events"
	"github.com/jwebster45206/gossip-village/internal/services/queue"
	"github.com/jwebster45206/gossip-village/internal/session"
	"github.com/jwebster45206/gossip-village/internal/storage"
	"github.com/jwebster45206/gossip-village/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Gossip Village API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"oracle_provider", cfg.OracleProvider,
		"locale", cfg.DefaultLocale)

	oracle, err := services.NewOracle(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to configure oracle", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	archive, err := storage.OpenArchive(cfg.ArchivePath, log)
	if err != nil {
		log.Error("Failed to open archive", "error", err, "path", cfg.ArchivePath)
		os.Exit(1)
	}

	layout := world.DefaultLayout()
	if cfg.WorldLayoutPath != "" {
		if layout, err = world.LoadLayout(cfg.WorldLayoutPath); err != nil {
			log.Error("Failed to load world layout", "error", err, "path", cfg.WorldLayoutPath)
			os.Exit(1)
		}
		log.Info("World layout loaded", "path", cfg.WorldLayoutPath)
	}

	queueClient := queue.NewClientFromRedis(store.Client(), log)
	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)
	// interrogations hold the lock for a whole oracle call
	lock := queue.NewGameLock(queueClient).WithTTL(cfg.OracleTimeout + queue.DefaultLockTTL)

	sessions := session.NewService(store, oracle, lock, log).
		WithArchive(archive).
		WithQueue(queue.NewPhaseQueue(queueClient)).
		WithEvents(broadcaster).
		WithLayout(layout).
		WithVillagerCount(cfg.VillagerCount).
		WithLocale(cfg.DefaultLocale)

	mux := http.NewServeMux()
	mux.Handle("GET /health", handlers.NewHealthHandler(map[string]handlers.Pinger{
		"redis":   store,
		"archive": archive,
	}, log))
	handlers.NewGameHandler(sessions, log).Register(mux)
	mux.Handle("GET /v1/events/games/{id}", handlers.NewEventsHandler(broadcaster, log))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     middleware.Logger(mux),
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: websocket streams and interrogations run long
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := archive.Close(); err != nil {
		log.Error("Error closing archive", "error", err)
	}
	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
