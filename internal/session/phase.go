package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/queue"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/storage"
)

// PhaseOutcome reports what ProcessEndPhase did with a request.
type PhaseOutcome struct {
	State *state.GameState
	// SimErr is the oracle failure, if any. The game was reopened and saved.
	SimErr error
}

// ProcessEndPhase runs the simulation for a queued request. The lock is held
// only while reading and writing the game, not during the oracle call; the
// isSimulating flag keeps other writers out in between.
func (s *Service) ProcessEndPhase(ctx context.Context, req *queue.Request, owner string) (*PhaseOutcome, error) {
	if req.Type != queue.RequestTypeEndPhase {
		return nil, fmt.Errorf("unknown request type: %s", req.Type)
	}
	id := req.GameStateID

	var (
		snapshot *state.GameState
		actions  []state.PendingAction
	)
	err := s.lock.Do(ctx, id, owner, s.lockWait, func() error {
		gs, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := matches(gs, req); err != nil {
			return err
		}
		snapshot = gs.Clone()
		actions = snapshot.PendingActions
		return nil
	})
	if err != nil {
		return nil, err
	}

	res, simErr := s.oracle.SimulateDay(ctx, snapshot, actions)

	out := &PhaseOutcome{}
	err = s.lock.Do(ctx, id, owner, s.lockWait, func() error {
		gs, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		if err := matches(gs, req); err != nil {
			return err
		}
		e := s.engineFor(gs)
		if simErr != nil {
			e.FailPhaseEnd(simErr)
			out.SimErr = fmt.Errorf("%w: %w", engine.ErrSimulationFailed, simErr)
		} else if err := e.CompletePhaseEnd(res); err != nil {
			return err
		}
		out.State = e.State()
		return s.store.SaveGameState(ctx, id, out.State)
	})
	if err != nil {
		return nil, err
	}

	s.archiveIfOver(ctx, out.State)
	return out, nil
}

// matches rejects requests for a phase the game has already left.
func matches(gs *state.GameState, req *queue.Request) error {
	if !gs.IsSimulating {
		return fmt.Errorf("%w: game %s is not simulating", ErrStaleRequest, gs.ID)
	}
	if req.Day != 0 && (req.Day != gs.Day || req.Phase != string(gs.Phase)) {
		return fmt.Errorf("%w: request for day %d %s, game at day %d %s",
			ErrStaleRequest, req.Day, req.Phase, gs.Day, gs.Phase)
	}
	return nil
}

func (s *Service) archiveIfOver(ctx context.Context, gs *state.GameState) {
	if s.archive == nil {
		return
	}
	entry, ok := storage.ArchiveEntry(gs, s.now())
	if !ok {
		return
	}
	if err := s.archive.RecordGame(ctx, entry); err != nil {
		s.logger.Error("Failed to archive finished game", "game_id", gs.ID, "error", err)
		return
	}
	s.logger.Info("Game archived", "game_id", gs.ID, "result", entry.Result, "day", entry.Day)
}

// IsDroppable reports errors after which a request should not be retried.
func IsDroppable(err error) bool {
	return errors.Is(err, ErrStaleRequest) || errors.Is(err, ErrGameNotFound) || errors.Is(err, engine.ErrNotSimulating)
}
