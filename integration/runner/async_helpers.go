package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

const (
	// PollInterval is how often to check the game for updates
	PollInterval = 500 * time.Millisecond
	// PhaseTimeout is the longest a worker may take to simulate a phase
	PhaseTimeout = 60 * time.Second
)

// GetGameState retrieves the current game
func GetGameState(ctx context.Context, client *http.Client, baseURL string, gameID uuid.UUID) (*state.GameState, error) {
	url := fmt.Sprintf("%s/v1/games/%s", baseURL, gameID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create game request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send game request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("game endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var gs state.GameState
	if err := json.NewDecoder(resp.Body).Decode(&gs); err != nil {
		return nil, fmt.Errorf("failed to decode game: %w", err)
	}
	return &gs, nil
}

// PollForPhaseCompletion polls until a worker has finished the simulation
// started from before. A failed simulation also counts as finished; the
// caller inspects ErrorMessage.
func PollForPhaseCompletion(ctx context.Context, client *http.Client, baseURL string, gameID uuid.UUID, before *state.GameState) (*state.GameState, error) {
	timeout := time.After(PhaseTimeout)
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
			return nil, fmt.Errorf("timeout waiting for phase completion (waited %v)", PhaseTimeout)
		case <-ticker.C:
			gs, err := GetGameState(ctx, client, baseURL, gameID)
			if err != nil {
				continue
			}
			if gs.IsSimulating {
				continue
			}
			if gs.Day != before.Day || gs.Phase != before.Phase || gs.ErrorMessage != "" || gs.Outcome != nil {
				return gs, nil
			}
		}
	}
}
