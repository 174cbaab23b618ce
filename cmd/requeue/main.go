package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/internal/config"
	"github.com/jwebster45206/gossip-village/internal/logger"
	"github.com/jwebster45206/gossip-village/internal/services/queue"
	"github.com/jwebster45206/gossip-village/internal/storage"
	queuePkg "github.com/jwebster45206/gossip-village/pkg/queue"
)

// requeue puts a game that is stuck simulating back on the phase queue,
// e.g. after a worker died mid-phase. Workers drop duplicates, so running it
// against a game whose request is still queued is harmless.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <game-id>\n", os.Args[0])
		os.Exit(1)
	}
	gameID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("Invalid game id: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logger.Setup(cfg)

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.SessionTTL, logger)
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gs, err := store.LoadGameState(ctx, gameID)
	if err != nil {
		log.Fatalf("Failed to load game: %v", err)
	}
	if gs == nil {
		log.Fatalf("Game %s not found", gameID)
	}
	if !gs.IsSimulating {
		fmt.Printf("Game %s is not simulating (day %d, %s); nothing to do\n", gameID, gs.Day, gs.Phase)
		return
	}

	phaseQueue := queue.NewPhaseQueue(queue.NewClientFromRedis(store.Client(), logger))
	req := queuePkg.NewEndPhaseRequest(gs.ID, gs.Day, string(gs.Phase))
	if err := phaseQueue.Enqueue(ctx, req); err != nil {
		log.Fatalf("Failed to enqueue: %v", err)
	}

	depth, err := phaseQueue.Depth(ctx)
	if err != nil {
		log.Fatalf("Failed to read queue depth: %v", err)
	}
	fmt.Printf("Enqueued %s for day %d %s (queue depth %d)\n", req.RequestID, gs.Day, gs.Phase, depth)
}
