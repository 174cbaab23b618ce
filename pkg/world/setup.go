package world

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"golang.org/x/text/message"
)

// Village is the initial world produced from a freshly generated roster.
type Village struct {
	NPCs  []state.NPC
	Grid  state.GridMap
	Intel []state.IntelCard
}

// SetupVillage places the roster, materializes the initial relationship
// edges in both directions and turns every deep secret into a Secret card.
func (p *Placer) SetupVillage(raw []state.NPC, base state.GridMap, printer *message.Printer) Village {
	npcs, grid := p.AssignPositions(raw, base)

	for i := range npcs {
		src := &npcs[i]
		if src.InitialConnectionName == "" || src.InitialConnectionType == "" {
			continue
		}
		t := indexOfName(npcs, src.InitialConnectionName)
		if t < 0 || t == i {
			if p.logger != nil {
				p.logger.Warn("Initial connection target not found",
					"npc", src.Name, "target", src.InitialConnectionName)
			}
			continue
		}
		dst := &npcs[t]
		kind := src.InitialConnectionType
		seed := p.layout.SeedFor(kind)

		if src.FindRelationship(dst.ID) == nil {
			src.Relationships = append(src.Relationships, state.Relationship{
				TargetID:     dst.ID,
				TargetName:   dst.Name,
				Type:         kind,
				Affinity:     seed.Affinity,
				Trust:        seed.Trust,
				KnownSecrets: []string{},
			})
		}
		if dst.FindRelationship(src.ID) == nil {
			dst.Relationships = append(dst.Relationships, state.Relationship{
				TargetID:     src.ID,
				TargetName:   src.Name,
				Type:         kind.Reciprocal(),
				Affinity:     seed.Affinity,
				Trust:        seed.Trust,
				KnownSecrets: []string{},
			})
		}
	}

	if printer == nil {
		printer = locale.Printer("")
	}
	intel := make([]state.IntelCard, 0, len(npcs))
	for _, n := range npcs {
		intel = append(intel, state.IntelCard{
			ID:        uuid.NewString(),
			Type:      state.IntelSecret,
			Content:   printer.Sprintf(locale.SecretCard, n.Name, n.DeepSecret),
			SourceID:  n.ID,
			Timestamp: 1,
		})
	}

	return Village{NPCs: npcs, Grid: grid, Intel: intel}
}

func indexOfName(npcs []state.NPC, name string) int {
	for i := range npcs {
		if npcs[i].Name == name {
			return i
		}
	}
	return -1
}
