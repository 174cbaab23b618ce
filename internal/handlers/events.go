package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jwebster45206/gossip-village/internal/services/events"
	"github.com/redis/go-redis/v9"
)

const (
	pingEvery    = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// Subscriber opens a pub/sub subscription to one game's events.
type Subscriber interface {
	Subscribe(ctx context.Context, gameID uuid.UUID) *redis.PubSub
}

// EventsHandler streams a game's events to a websocket client.
// GET /v1/events/games/{id}
type EventsHandler struct {
	subscriber Subscriber
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewEventsHandler(subscriber Subscriber, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		subscriber: subscriber,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "game_id", gameID, "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pubsub := h.subscriber.Subscribe(ctx, gameID)
	defer func() {
		if err := pubsub.Close(); err != nil {
			h.logger.Error("Failed to close pubsub", "error", err)
		}
	}()
	// wait for the subscription so no event published after the hello is lost
	if _, err := pubsub.Receive(ctx); err != nil {
		h.logger.Error("Failed to subscribe", "game_id", gameID, "error", err)
		return
	}

	h.logger.Info("Websocket connection established", "game_id", gameID, "remote_addr", r.RemoteAddr)

	// The client sends nothing; reading only notices when it goes away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := h.write(conn, events.Event{
		Type:   "connected",
		GameID: gameID.String(),
		Data:   map[string]any{"message": "Connected to event stream"},
	}); err != nil {
		return
	}

	msgChan := pubsub.Channel()
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Websocket client disconnected", "game_id", gameID)
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				h.logger.Debug("Failed to forward event", "game_id", gameID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

func (h *EventsHandler) write(conn *websocket.Conn, ev events.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(ev); err != nil {
		h.logger.Debug("Failed to write websocket message", "error", err)
		return err
	}
	return nil
}
