package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/internal/services/queue"
	"github.com/jwebster45206/gossip-village/internal/session"
	queuePkg "github.com/jwebster45206/gossip-village/pkg/queue"
)

const (
	workerTimeout = 5 * time.Second
	errorBackoff  = time.Second
)

// PhaseSource yields queued phase requests.
type PhaseSource interface {
	BlockingDequeue(ctx context.Context, timeout time.Duration) (*queuePkg.Request, error)
	Enqueue(ctx context.Context, req *queuePkg.Request) error
}

// PhaseEvents is the subset of the broadcaster the worker publishes to.
type PhaseEvents interface {
	PublishPhaseProcessing(ctx context.Context, gameID uuid.UUID, requestID, workerID string) error
	PublishPhaseCompleted(ctx context.Context, gameID uuid.UUID, requestID string, day int, phase string, outcome string) error
	PublishPhaseFailed(ctx context.Context, gameID uuid.UUID, requestID, errorMsg string) error
}

// Worker processes end-of-phase requests from the shared queue.
type Worker struct {
	id          string
	queue       PhaseSource
	sessions    *session.Service
	broadcaster PhaseEvents
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

func New(q PhaseSource, sessions *session.Service, broadcaster PhaseEvents, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	return &Worker{
		id:          workerID,
		queue:       q,
		sessions:    sessions,
		broadcaster: broadcaster,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				select {
				case <-w.ctx.Done():
				case <-time.After(errorBackoff):
				}
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	req, err := w.queue.BlockingDequeue(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"game_id", req.GameStateID.String(),
	)
	return w.processRequest(req)
}

func (w *Worker) processRequest(req *queuePkg.Request) error {
	start := time.Now()
	if err := w.broadcaster.PublishPhaseProcessing(w.ctx, req.GameStateID, req.RequestID, w.id); err != nil {
		w.log.Error("Failed to publish processing event", "error", err)
	}

	out, err := w.sessions.ProcessEndPhase(w.ctx, req, w.id)
	switch {
	case errors.Is(err, queue.ErrLocked):
		// Another writer holds the game; try again later.
		w.log.Info("Game locked, re-queueing request", "worker_id", w.id, "request_id", req.RequestID)
		if err := w.queue.Enqueue(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		return nil
	case session.IsDroppable(err):
		w.log.Warn("Dropping request", "worker_id", w.id, "request_id", req.RequestID, "reason", err)
		return nil
	case err != nil:
		if pubErr := w.broadcaster.PublishPhaseFailed(w.ctx, req.GameStateID, req.RequestID, err.Error()); pubErr != nil {
			w.log.Error("Failed to publish failure event", "error", pubErr)
		}
		return fmt.Errorf("failed to process phase: %w", err)
	}

	if out.SimErr != nil {
		w.log.Error("Phase simulation failed",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"game_id", req.GameStateID.String(),
			"error", out.SimErr,
		)
		if err := w.broadcaster.PublishPhaseFailed(w.ctx, req.GameStateID, req.RequestID, out.State.ErrorMessage); err != nil {
			w.log.Error("Failed to publish failure event", "error", err)
		}
		return nil
	}

	var outcome string
	if out.State.Outcome != nil {
		outcome = string(out.State.Outcome.Result)
	}
	w.log.Info("Phase processed",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"day", out.State.Day,
		"phase", out.State.Phase,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if err := w.broadcaster.PublishPhaseCompleted(w.ctx, req.GameStateID, req.RequestID, out.State.Day, string(out.State.Phase), outcome); err != nil {
		w.log.Error("Failed to publish completion event", "error", err)
	}
	return nil
}
