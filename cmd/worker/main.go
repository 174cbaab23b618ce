package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/gossip-village/internal/config"
	"github.com/jwebster45206/gossip-village/internal/logger"
	"github.com/jwebster45206/gossip-village/internal/services"
	"github.com/jwebster45206/gossip-village/internal/services/events"
	"github.com/jwebster45206/gossip-village/internal/services/queue"
	"github.com/jwebster45206/gossip-village/internal/session"
	"github.com/jwebster45206/gossip-village/internal/storage"
	"github.com/jwebster45206/gossip-village/internal/worker"
	"github.com/jwebster45206/gossip-village/pkg/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Gossip Village Worker",
		"environment", cfg.Environment,
		"worker_id", cfg.WorkerID,
		"oracle_provider", cfg.OracleProvider)

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, log)
	if err != nil {
		log.Error("Failed to create storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage connection", "error", err)
		}
	}()

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage service initialized successfully")

	archive, err := storage.OpenArchive(cfg.ArchivePath, log)
	if err != nil {
		log.Error("Failed to open archive", "error", err, "path", cfg.ArchivePath)
		os.Exit(1)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			log.Error("Error closing archive", "error", err)
		}
	}()

	oracle, err := services.NewOracle(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to configure oracle", "error", err)
		os.Exit(1)
	}

	layout := world.DefaultLayout()
	if cfg.WorldLayoutPath != "" {
		if layout, err = world.LoadLayout(cfg.WorldLayoutPath); err != nil {
			log.Error("Failed to load world layout", "error", err, "path", cfg.WorldLayoutPath)
			os.Exit(1)
		}
	}

	queueClient := queue.NewClientFromRedis(store.Client(), log)
	phaseQueue := queue.NewPhaseQueue(queueClient)
	broadcaster := events.NewBroadcaster(queueClient.GetRedisClient(), log)

	// the worker releases the lock during the oracle call, so the default TTL holds
	sessions := session.NewService(store, oracle, queue.NewGameLock(queueClient), log).
		WithArchive(archive).
		WithQueue(phaseQueue).
		WithEvents(broadcaster).
		WithLayout(layout).
		WithVillagerCount(cfg.VillagerCount).
		WithLocale(cfg.DefaultLocale).
		WithOwner(cfg.WorkerID)

	w := worker.New(phaseQueue, sessions, broadcaster, log, cfg.WorkerID)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Start(); err != nil {
			log.Error("Worker error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("Worker started, waiting for requests...")

	<-quit
	log.Info("Worker shutdown signal received")

	w.Stop()

	// let the in-flight phase finish
	time.Sleep(2 * time.Second)

	log.Info("Worker exited")
}
