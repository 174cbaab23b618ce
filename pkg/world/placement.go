package world

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/jwebster45206/gossip-village/pkg/state"
)

// relationshipPasses is how many times the relationship pass runs so that
// chains such as A->B->C resolve.
const relationshipPasses = 2

var neighbourOffsets = []state.Position{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}}

// Placer assigns villagers to grid cells.
type Placer struct {
	layout *Layout
	rng    *rand.Rand
	logger *slog.Logger
}

// NewPlacer creates a placer. A nil rng gets a randomly seeded source.
func NewPlacer(layout *Layout, rng *rand.Rand) *Placer {
	if layout == nil {
		layout = DefaultLayout()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Placer{layout: layout, rng: rng}
}

// WithLogger sets a logger for placement diagnostics.
func (p *Placer) WithLogger(logger *slog.Logger) *Placer {
	p.logger = logger
	return p
}

// placement tracks assignments and per-cell occupancy during one run.
type placement struct {
	p         *Placer
	npcs      []state.NPC
	assigned  map[int]state.Position
	occupancy map[state.Position]int
}

func (pl *placement) register(i int, pos state.Position) {
	pl.assigned[i] = pos
	pl.occupancy[pos]++
}

func (pl *placement) isPlaced(i int) bool {
	_, ok := pl.assigned[i]
	return ok
}

func (pl *placement) indexByName(name string) int {
	if name == "" {
		return -1
	}
	return slices.IndexFunc(pl.npcs, func(n state.NPC) bool { return n.Name == name })
}

// bestSlot picks the least occupied cell of a zone, breaking ties randomly.
func (pl *placement) bestSlot(z state.Zone) state.Position {
	candidates := pl.p.layout.zoneCells(z)
	pl.p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	best := candidates[0]
	for _, c := range candidates[1:] {
		if pl.occupancy[c] < pl.occupancy[best] {
			best = c
		}
	}
	return best
}

// neighbour returns a random in-bounds 4-neighbour of center, or center
// itself when none exists.
func (pl *placement) neighbour(center state.Position) state.Position {
	valid := make([]state.Position, 0, len(neighbourOffsets))
	for _, o := range neighbourOffsets {
		n := state.Position{X: center.X + o.X, Y: center.Y + o.Y}
		if n.InBounds() {
			valid = append(valid, n)
		}
	}
	if len(valid) == 0 {
		return center
	}
	return valid[pl.p.rng.IntN(len(valid))]
}

func (pl *placement) sameOrNeighbour(center state.Position, sameChance float64) state.Position {
	if pl.p.rng.Float64() < sameChance {
		return center
	}
	return pl.neighbour(center)
}

// AssignPositions places every NPC on the grid and renames cells after their
// residents. The inputs are not modified.
func (p *Placer) AssignPositions(raw []state.NPC, grid state.GridMap) ([]state.NPC, state.GridMap) {
	npcs := make([]state.NPC, len(raw))
	for i, n := range raw {
		npcs[i] = n.Clone()
	}
	pl := &placement{
		p:         p,
		npcs:      npcs,
		assigned:  make(map[int]state.Position, len(npcs)),
		occupancy: make(map[state.Position]int),
	}

	// Fixed roles.
	for i := range npcs {
		if pos, ok := p.layout.anchorFor(npcs[i].Role); ok {
			pl.register(i, pos)
		}
	}

	// Relationships.
	for pass := 0; pass < relationshipPasses; pass++ {
		for i := range npcs {
			if pl.isPlaced(i) {
				continue
			}
			t := pl.indexByName(npcs[i].InitialConnectionName)
			if t < 0 || !pl.isPlaced(t) {
				continue
			}
			target := pl.assigned[t]
			switch npcs[i].InitialConnectionType {
			case state.RelationLover, state.RelationMaster, state.RelationDisciple:
				pl.register(i, pl.sameOrNeighbour(target, 0.8))
			case state.RelationFamily:
				pl.register(i, pl.sameOrNeighbour(target, 0.5))
			case state.RelationEnemy:
				// enemies spawn by zone
			default:
				pl.register(i, pl.neighbour(target))
			}
		}
	}

	// Zone fallback.
	for i := range npcs {
		if pl.isPlaced(i) {
			continue
		}
		t := pl.indexByName(npcs[i].InitialConnectionName)
		if t < 0 || t == i {
			pl.register(i, pl.bestSlot(npcs[i].SpawnZone))
			continue
		}
		if !pl.isPlaced(t) {
			pl.register(t, pl.bestSlot(npcs[t].SpawnZone))
		}
		target := pl.assigned[t]
		switch npcs[i].InitialConnectionType {
		case state.RelationLover, state.RelationMaster, state.RelationDisciple:
			pl.register(i, target)
		case state.RelationFamily:
			pl.register(i, pl.sameOrNeighbour(target, 0.5))
		case state.RelationEnemy:
			pl.register(i, pl.bestSlot(npcs[i].SpawnZone))
		default:
			pl.register(i, pl.neighbour(target))
		}
	}

	for i := range npcs {
		npcs[i].Position = pl.assigned[i]
	}

	out := grid
	for i := range npcs {
		name, ok := p.layout.cellNameFor(&npcs[i])
		if !ok {
			continue
		}
		pos := npcs[i].Position
		if out[pos.Y][pos.X] != name && p.logger != nil {
			p.logger.Debug("Renaming cell after resident",
				"x", pos.X, "y", pos.Y,
				"from", out[pos.Y][pos.X], "to", name,
				"npc", npcs[i].Name)
		}
		out[pos.Y][pos.X] = name
	}

	return npcs, out
}
