// Package objective picks the single goal of a play session.
package objective

import (
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"golang.org/x/text/message"
)

// DeadlineDays is the deadline of every timed mode.
const DeadlineDays = 7

// Generate builds the objective for mode from a shuffled copy of the roster.
// Rosters too small for the mode yield as many targets as are available.
// Unknown modes fall back to Sandbox.
func Generate(mode state.GameMode, roster []state.NPC, rng *rand.Rand, printer *message.Printer) state.GameObjective {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if printer == nil {
		printer = locale.Printer("")
	}

	shuffled := slices.Clone(roster)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	nobody := printer.Sprintf(locale.ObjectiveNoTargets)

	switch mode {
	case state.ModeMatchmaker:
		targets := pick(shuffled, 2)
		names := []string{nobody, nobody}
		for i, n := range targets {
			names[i] = n.Name
		}
		return state.GameObjective{
			Mode:        state.ModeMatchmaker,
			TargetIDs:   ids(targets),
			Description: printer.Sprintf(locale.ObjectiveMatchmaker, names[0], names[1]),
			DeadlineDay: deadline(),
		}
	case state.ModeDetective:
		targets := pick(shuffled, 1)
		name := nobody
		if len(targets) > 0 {
			name = targets[0].Name
		}
		return state.GameObjective{
			Mode:        state.ModeDetective,
			TargetIDs:   ids(targets),
			Description: printer.Sprintf(locale.ObjectiveDetective, name),
			DeadlineDay: deadline(),
		}
	case state.ModeChaos:
		return state.GameObjective{
			Mode:        state.ModeChaos,
			TargetIDs:   []string{},
			Description: printer.Sprintf(locale.ObjectiveChaos, DeadlineDays),
			DeadlineDay: deadline(),
		}
	default:
		return state.GameObjective{
			Mode:        state.ModeSandbox,
			TargetIDs:   []string{},
			Description: printer.Sprintf(locale.ObjectiveSandbox),
		}
	}
}

func pick(npcs []state.NPC, n int) []state.NPC {
	return npcs[:min(n, len(npcs))]
}

func ids(npcs []state.NPC) []string {
	out := make([]string, 0, len(npcs))
	for _, n := range npcs {
		out = append(out, n.ID)
	}
	return out
}

func deadline() *int {
	d := DeadlineDays
	return &d
}
