package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypePhaseQueued     EventType = "phase.queued"
	EventTypePhaseProcessing EventType = "phase.processing"
	EventTypePhaseCompleted  EventType = "phase.completed"
	EventTypePhaseFailed     EventType = "phase.failed"
	EventTypeGameUpdated     EventType = "game.updated"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	RequestID string         `json:"request_id,omitempty"`
	GameID    string         `json:"game_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying one game's events.
func Channel(gameID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", gameID.String())
}

// Broadcaster publishes game events on Redis pub/sub.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{redisClient: redisClient, logger: logger}
}

func (b *Broadcaster) PublishPhaseQueued(ctx context.Context, gameID uuid.UUID, requestID string, day int, phase string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypePhaseQueued,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data:      map[string]any{"status": "queued", "day": day, "phase": phase},
	})
}

func (b *Broadcaster) PublishPhaseProcessing(ctx context.Context, gameID uuid.UUID, requestID, workerID string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypePhaseProcessing,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data:      map[string]any{"status": "processing", "worker_id": workerID},
	})
}

// PublishPhaseCompleted carries the new clock and, once the game is over,
// its result.
func (b *Broadcaster) PublishPhaseCompleted(ctx context.Context, gameID uuid.UUID, requestID string, day int, phase string, outcome string) error {
	data := map[string]any{"status": "completed", "day": day, "phase": phase}
	if outcome != "" {
		data["outcome"] = outcome
	}
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypePhaseCompleted,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data:      data,
	})
}

func (b *Broadcaster) PublishPhaseFailed(ctx context.Context, gameID uuid.UUID, requestID, errorMsg string) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:      EventTypePhaseFailed,
		RequestID: requestID,
		GameID:    gameID.String(),
		Data:      map[string]any{"status": "failed", "error": errorMsg},
	})
}

// PublishGameUpdated announces a synchronous change such as a queued action.
func (b *Broadcaster) PublishGameUpdated(ctx context.Context, gameID uuid.UUID, reason string, actionPoints int) error {
	return b.publishToGame(ctx, gameID, Event{
		Type:   EventTypeGameUpdated,
		GameID: gameID.String(),
		Data:   map[string]any{"reason": reason, "action_points": actionPoints},
	})
}

// publishToGame publishes an event to the game-specific channel
func (b *Broadcaster) publishToGame(ctx context.Context, gameID uuid.UUID, event Event) error {
	channel := Channel(gameID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)
	return nil
}

// Subscribe returns a subscription to one game's channel. The caller closes it.
func (b *Broadcaster) Subscribe(ctx context.Context, gameID uuid.UUID) *redis.PubSub {
	return b.redisClient.Subscribe(ctx, Channel(gameID))
}
