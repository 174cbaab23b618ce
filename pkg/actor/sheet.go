// Package actor builds d20 character sheets for villagers so prompts can
// describe their fighting strength consistently.
package actor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// Attribute keys stored on every villager actor.
const (
	AttrMartial    = "martial"
	AttrCorruption = "corruption"
)

// Tier names a band of martial power.
type Tier string

const (
	TierNovice      Tier = "不入流"
	TierThirdRate   Tier = "三流"
	TierSecondRate  Tier = "二流"
	TierFirstRate   Tier = "一流"
	TierGrandmaster Tier = "宗师"
)

// TierFor maps a 0..100 martial power to its tier.
func TierFor(mp int) Tier {
	switch {
	case mp >= 90:
		return TierGrandmaster
	case mp >= 70:
		return TierFirstRate
	case mp >= 45:
		return TierSecondRate
	case mp >= 20:
		return TierThirdRate
	default:
		return TierNovice
	}
}

// Sheet pairs a villager with its d20 actor.
type Sheet struct {
	NPC   *state.NPC
	Actor *d20.Actor
}

// NewSheet builds the actor for npc. Armour class grows with martial power
// and the strike modifier is a tenth of it.
func NewSheet(npc *state.NPC) (*Sheet, error) {
	if npc == nil {
		return nil, fmt.Errorf("npc cannot be nil")
	}

	a, err := d20.NewActor(npc.ID).
		WithHP(state.StatMax).
		WithAC(10 + npc.MP/10).
		WithAttributes(map[string]int{
			AttrMartial:    npc.MP,
			AttrCorruption: npc.SAN,
		}).
		WithCombatModifiers(map[string]int{
			"strike": npc.MP / 10,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor for %s: %w", npc.Name, err)
	}

	if npc.HP > 0 && npc.HP != state.StatMax {
		if err := a.SetHP(npc.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP for %s: %w", npc.Name, err)
		}
	}
	return &Sheet{NPC: npc, Actor: a}, nil
}

func (s *Sheet) attr(key string) int {
	if v, ok := s.Actor.Attribute(key); ok {
		return v
	}
	return 0
}

// Tier is the villager's martial tier.
func (s *Sheet) Tier() Tier {
	return TierFor(s.attr(AttrMartial))
}

// Summary is a one-line stat block, e.g. "气血 80/100 | 武力 72 (一流) | 防御 17 | 心魔 10".
func (s *Sheet) Summary() string {
	return fmt.Sprintf("气血 %d/%d | 武力 %d (%s) | 防御 %d | 心魔 %d",
		s.Actor.HP(), s.Actor.MaxHP(),
		s.attr(AttrMartial), s.Tier(),
		s.Actor.AC(),
		s.attr(AttrCorruption))
}

// Roster builds sheets for every active villager. Villagers whose sheet
// cannot be built are skipped.
func Roster(npcs []state.NPC) []*Sheet {
	out := make([]*Sheet, 0, len(npcs))
	for i := range npcs {
		if !npcs[i].IsActive() {
			continue
		}
		s, err := NewSheet(&npcs[i])
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// StrongestFirst returns a compact ranking such as "阿青(一流) > 阿牛(三流)".
func StrongestFirst(sheets []*Sheet) string {
	sorted := slices.Clone(sheets)
	slices.SortStableFunc(sorted, func(a, b *Sheet) int {
		return b.attr(AttrMartial) - a.attr(AttrMartial)
	})
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = fmt.Sprintf("%s(%s)", s.NPC.Name, s.Tier())
	}
	return strings.Join(parts, " > ")
}
