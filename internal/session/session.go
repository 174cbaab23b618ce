// Package session runs engine operations against persisted games. Every
// read-modify-write happens under the per-game lock.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/queue"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/storage"
	"github.com/jwebster45206/gossip-village/pkg/world"
)

const DefaultLockWait = 5 * time.Second

var (
	ErrGameNotFound = errors.New("game not found")
	// ErrStaleRequest marks a phase request that no longer matches the game.
	ErrStaleRequest = errors.New("stale phase request")
)

// Locker serialises writers of one game.
type Locker interface {
	Do(ctx context.Context, gameID uuid.UUID, owner string, wait time.Duration, fn func() error) error
}

// Enqueuer hands end-of-phase requests to the workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *queue.Request) error
}

// Publisher announces state changes to subscribed clients.
type Publisher interface {
	PublishPhaseQueued(ctx context.Context, gameID uuid.UUID, requestID string, day int, phase string) error
	PublishGameUpdated(ctx context.Context, gameID uuid.UUID, reason string, actionPoints int) error
}

type Service struct {
	store         storage.Storage
	archive       storage.Archive
	oracle        engine.Oracle
	lock          Locker
	queue         Enqueuer
	events        Publisher
	layout        *world.Layout
	logger        *slog.Logger
	villagerCount int
	locale        string
	lockWait      time.Duration
	owner         string
	now           func() time.Time
}

func NewService(store storage.Storage, oracle engine.Oracle, lock Locker, logger *slog.Logger) *Service {
	return &Service{
		store:         store,
		oracle:        oracle,
		lock:          lock,
		logger:        logger,
		villagerCount: engine.DefaultVillagerCount,
		lockWait:      DefaultLockWait,
		owner:         "api-" + uuid.NewString()[:8],
		now:           time.Now,
	}
}

func (s *Service) WithArchive(a storage.Archive) *Service {
	s.archive = a
	return s
}

func (s *Service) WithQueue(q Enqueuer) *Service {
	s.queue = q
	return s
}

func (s *Service) WithEvents(p Publisher) *Service {
	s.events = p
	return s
}

func (s *Service) WithLayout(l *world.Layout) *Service {
	s.layout = l
	return s
}

func (s *Service) WithVillagerCount(n int) *Service {
	s.villagerCount = n
	return s
}

func (s *Service) WithLocale(tag string) *Service {
	s.locale = tag
	return s
}

func (s *Service) WithLockWait(d time.Duration) *Service {
	s.lockWait = d
	return s
}

// WithOwner names this process in the lock value.
func (s *Service) WithOwner(owner string) *Service {
	if owner != "" {
		s.owner = owner
	}
	return s
}

func (s *Service) engineFor(gs *state.GameState) *engine.Engine {
	return engine.New(s.oracle, s.layout).
		WithLogger(s.logger).
		WithVillagerCount(s.villagerCount).
		WithLocale(s.locale).
		WithState(gs)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	gs, err := s.store.LoadGameState(ctx, id)
	if err != nil {
		return nil, err
	}
	if gs == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return gs, nil
}

// mutate loads the game under the lock, applies fn and saves the result. The
// state is saved even when fn fails, so error messages reach the player.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(e *engine.Engine) error) (*state.GameState, error) {
	var (
		out   *state.GameState
		opErr error
	)
	err := s.lock.Do(ctx, id, s.owner, s.lockWait, func() error {
		gs, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		e := s.engineFor(gs)
		opErr = fn(e)
		out = e.State()
		return s.store.SaveGameState(ctx, id, out)
	})
	if err != nil {
		return nil, err
	}
	return out, opErr
}

func (s *Service) publishUpdated(ctx context.Context, gs *state.GameState, reason string) {
	if s.events == nil || gs == nil {
		return
	}
	if err := s.events.PublishGameUpdated(ctx, gs.ID, reason, gs.ActionPoints); err != nil {
		s.logger.Warn("Failed to publish game update", "game_id", gs.ID, "error", err)
	}
}

// Start generates a new village. A generation failure returns the error and
// saves nothing.
func (s *Service) Start(ctx context.Context, mode state.GameMode, locale string) (*state.GameState, error) {
	e := s.engineFor(nil)
	if locale != "" {
		e.WithLocale(locale)
	}
	if err := e.StartGame(ctx, mode); err != nil {
		return nil, err
	}
	gs := e.State()
	if err := s.store.SaveGameState(ctx, gs.ID, gs); err != nil {
		return nil, fmt.Errorf("failed to save new game: %w", err)
	}
	s.logger.Info("Game started", "game_id", gs.ID, "mode", gs.Mode, "npcs", len(gs.NPCs))
	return gs, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	return s.load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.lock.Do(ctx, id, s.owner, s.lockWait, func() error {
		if _, err := s.load(ctx, id); err != nil {
			return err
		}
		return s.store.DeleteGameState(ctx, id)
	})
}

// Act performs one player action. Interrogations return the reply.
func (s *Service) Act(ctx context.Context, id uuid.UUID, actionType state.ActionType, content, targetID string) (*state.GameState, *engine.InterrogationResult, error) {
	var result *engine.InterrogationResult
	gs, err := s.mutate(ctx, id, func(e *engine.Engine) error {
		var err error
		result, err = e.PerformAction(ctx, actionType, content, targetID)
		return err
	})
	if err == nil {
		s.publishUpdated(ctx, gs, "action")
	}
	return gs, result, err
}

func (s *Service) Undo(ctx context.Context, id uuid.UUID) (*state.GameState, int, error) {
	var refunded int
	gs, err := s.mutate(ctx, id, func(e *engine.Engine) error {
		var err error
		refunded, err = e.UndoLastAction()
		return err
	})
	if err == nil && refunded > 0 {
		s.publishUpdated(ctx, gs, "undo")
	}
	return gs, refunded, err
}

func (s *Service) CloseNewspaper(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	return s.mutate(ctx, id, func(e *engine.Engine) error {
		return e.CloseNewspaper()
	})
}

// RequestEndPhase closes the action queue and hands the phase to a worker.
// It returns the queued request id.
func (s *Service) RequestEndPhase(ctx context.Context, id uuid.UUID) (*state.GameState, string, error) {
	if s.queue == nil {
		return nil, "", errors.New("no phase queue configured")
	}
	gs, err := s.mutate(ctx, id, func(e *engine.Engine) error {
		_, ok, err := e.BeginPhaseEnd()
		if err != nil {
			return err
		}
		if !ok {
			return engine.ErrGameOver
		}
		return nil
	})
	if err != nil {
		return gs, "", err
	}

	req := queue.NewEndPhaseRequest(gs.ID, gs.Day, string(gs.Phase))
	if err := s.queue.Enqueue(ctx, req); err != nil {
		s.logger.Error("Failed to enqueue phase request, reopening the phase", "game_id", id, "error", err)
		gs, _ = s.mutate(ctx, id, func(e *engine.Engine) error {
			e.FailPhaseEnd(err)
			return nil
		})
		return gs, "", fmt.Errorf("failed to enqueue phase request: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishPhaseQueued(ctx, gs.ID, req.RequestID, gs.Day, string(gs.Phase)); err != nil {
			s.logger.Warn("Failed to publish phase queued", "game_id", gs.ID, "error", err)
		}
	}
	s.logger.Info("Phase queued", "game_id", gs.ID, "request_id", req.RequestID, "day", gs.Day, "phase", gs.Phase)
	return gs, req.RequestID, nil
}

// ListArchive returns finished games, newest first.
func (s *Service) ListArchive(ctx context.Context, limit int) ([]storage.ArchivedGame, error) {
	if s.archive == nil {
		return []storage.ArchivedGame{}, nil
	}
	return s.archive.ListGames(ctx, limit)
}
