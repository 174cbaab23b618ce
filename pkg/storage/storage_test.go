package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveEntry(t *testing.T) {
	gs := state.NewGameState()
	gs.Mode = state.ModeDetective
	gs.Day = 6
	gs.Objective = &state.GameObjective{Mode: state.ModeDetective, Description: "找出真凶"}

	_, ok := ArchiveEntry(gs, time.Now())
	assert.False(t, ok, "running games are not archived")

	gs.Outcome = &state.Outcome{Result: state.OutcomeVictory, Reason: "目标已死"}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	g, ok := ArchiveEntry(gs, now)
	require.True(t, ok)
	assert.Equal(t, gs.ID, g.ID)
	assert.Equal(t, 6, g.Day)
	assert.Equal(t, state.OutcomeVictory, g.Result)
	assert.Equal(t, "找出真凶", g.Objective)
	assert.Equal(t, time.UTC, g.FinishedAt.Location())
}

func TestMockStorage_SaveLoadDelete(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	gs := state.NewGameState()
	gs.Day = 3

	require.NoError(t, m.SaveGameState(ctx, gs.ID, gs))
	gs.Day = 99

	loaded, err := m.LoadGameState(ctx, gs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 3, loaded.Day)

	require.NoError(t, m.DeleteGameState(ctx, gs.ID))
	loaded, err = m.LoadGameState(ctx, gs.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	assert.Error(t, m.SaveGameState(ctx, uuid.New(), nil))
}

func TestMockStorage_Archive(t *testing.T) {
	m := NewMockStorage()
	ctx := context.Background()
	a, b := ArchivedGame{ID: uuid.New(), Day: 1}, ArchivedGame{ID: uuid.New(), Day: 2}
	require.NoError(t, m.RecordGame(ctx, a))
	require.NoError(t, m.RecordGame(ctx, b))
	a.Day = 5
	require.NoError(t, m.RecordGame(ctx, a))

	games, err := m.ListGames(ctx, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 5, games[0].Day)

	games, _ = m.ListGames(ctx, 1)
	assert.Len(t, games, 1)
}
