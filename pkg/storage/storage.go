package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// Storage persists live game sessions.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// LoadGameState returns nil, nil when the session does not exist.
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)
	DeleteGameState(ctx context.Context, id uuid.UUID) error
}

// ArchivedGame is one finished game as kept in the archive.
type ArchivedGame struct {
	ID         uuid.UUID           `json:"id"`
	Mode       state.GameMode      `json:"mode"`
	Day        int                 `json:"day"`
	Result     state.OutcomeResult `json:"result"`
	Reason     string              `json:"reason"`
	Objective  string              `json:"objective"`
	FinishedAt time.Time           `json:"finishedAt"`
}

// Archive keeps a history of finished games.
type Archive interface {
	Ping(ctx context.Context) error
	Close() error
	RecordGame(ctx context.Context, g ArchivedGame) error
	ListGames(ctx context.Context, limit int) ([]ArchivedGame, error)
}

// ArchiveEntry summarises a finished game. ok is false while the game is
// still running.
func ArchiveEntry(gs *state.GameState, now time.Time) (ArchivedGame, bool) {
	if gs == nil || gs.Outcome == nil {
		return ArchivedGame{}, false
	}
	g := ArchivedGame{
		ID:         gs.ID,
		Mode:       gs.Mode,
		Day:        gs.Day,
		Result:     gs.Outcome.Result,
		Reason:     gs.Outcome.Reason,
		FinishedAt: now.UTC(),
	}
	if gs.Objective != nil {
		g.Objective = gs.Objective.Description
	}
	return g, true
}
