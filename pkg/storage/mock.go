package storage

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// MockStorage is an in-memory Storage and Archive for tests.
type MockStorage struct {
	mu         sync.RWMutex
	gamestates map[uuid.UUID]*state.GameState
	archive    []ArchivedGame
	pingError  error
}

var (
	_ Storage = (*MockStorage)(nil)
	_ Archive = (*MockStorage)(nil)
)

func NewMockStorage() *MockStorage {
	return &MockStorage{gamestates: make(map[uuid.UUID]*state.GameState)}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveGameState stores a deep copy so callers cannot mutate saved state.
func (m *MockStorage) SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error {
	if gs == nil {
		return errors.New("gamestate cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamestates[id] = gs.Clone()
	return nil
}

func (m *MockStorage) LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.gamestates[id]
	if !ok {
		return nil, nil
	}
	return gs.Clone(), nil
}

func (m *MockStorage) DeleteGameState(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.gamestates, id)
	return nil
}

// RecordGame replaces an existing entry with the same id.
func (m *MockStorage) RecordGame(ctx context.Context, g ArchivedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archive = slices.DeleteFunc(m.archive, func(a ArchivedGame) bool { return a.ID == g.ID })
	m.archive = append(m.archive, g)
	return nil
}

// ListGames returns the newest games first.
func (m *MockStorage) ListGames(ctx context.Context, limit int) ([]ArchivedGame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := slices.Clone(m.archive)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
