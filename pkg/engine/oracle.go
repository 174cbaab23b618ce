package engine

import (
	"context"

	"github.com/jwebster45206/gossip-village/pkg/simulation"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// Oracle is the generative backend. Implementations own their timeouts and
// retries; the engine calls each method once.
type Oracle interface {
	// GenerateVillage returns count raw villagers with placement descriptors
	// filled in and no positions or relationships.
	GenerateVillage(ctx context.Context, count int) ([]state.NPC, error)
	// SimulateDay proposes the changes for the current phase given the queued
	// player actions.
	SimulateDay(ctx context.Context, gs *state.GameState, actions []state.PendingAction) (*simulation.Result, error)
	// InteractWithNPC answers a direct interrogation.
	InteractWithNPC(ctx context.Context, npc *state.NPC, question string) (*simulation.Interaction, error)
}
