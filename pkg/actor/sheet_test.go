package actor

import (
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/state"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		mp   int
		want Tier
	}{
		{0, TierNovice},
		{19, TierNovice},
		{20, TierThirdRate},
		{45, TierSecondRate},
		{70, TierFirstRate},
		{89, TierFirstRate},
		{90, TierGrandmaster},
		{100, TierGrandmaster},
	}
	for _, tt := range tests {
		if got := TierFor(tt.mp); got != tt.want {
			t.Errorf("TierFor(%d) = %s, want %s", tt.mp, got, tt.want)
		}
	}
}

func TestNewSheet(t *testing.T) {
	npc := &state.NPC{ID: "npc-1", Name: "阿青", HP: 64, MP: 72, SAN: 15}
	s, err := NewSheet(npc)
	if err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if s.Actor.HP() != 64 {
		t.Errorf("HP() = %d, want 64", s.Actor.HP())
	}
	if s.Actor.MaxHP() != 100 {
		t.Errorf("MaxHP() = %d, want 100", s.Actor.MaxHP())
	}
	if s.Actor.AC() != 17 {
		t.Errorf("AC() = %d, want 17", s.Actor.AC())
	}
	if v, ok := s.Actor.Attribute(AttrMartial); !ok || v != 72 {
		t.Errorf("Attribute(martial) = %d, %v", v, ok)
	}
	if s.Tier() != TierFirstRate {
		t.Errorf("Tier() = %s", s.Tier())
	}
	want := "气血 64/100 | 武力 72 (一流) | 防御 17 | 心魔 15"
	if got := s.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestNewSheet_FullHealth(t *testing.T) {
	s, err := NewSheet(&state.NPC{ID: "npc-2", Name: "阿牛", HP: 100, MP: 10})
	if err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	if s.Actor.HP() != 100 {
		t.Errorf("HP() = %d, want 100", s.Actor.HP())
	}
}

func TestNewSheet_Nil(t *testing.T) {
	if _, err := NewSheet(nil); err == nil {
		t.Error("expected error for nil npc")
	}
}

func TestRoster_SkipsInactive(t *testing.T) {
	npcs := []state.NPC{
		{ID: "a", Name: "阿青", HP: 50, MP: 30, Status: state.StatusNormal},
		{ID: "b", Name: "阿牛", HP: 0, MP: 95, Status: state.StatusDead},
		{ID: "c", Name: "阿花", HP: 80, MP: 95, Status: state.StatusInjured},
	}
	sheets := Roster(npcs)
	if len(sheets) != 2 {
		t.Fatalf("len(Roster) = %d, want 2", len(sheets))
	}
	if got := StrongestFirst(sheets); got != "阿花(宗师) > 阿青(三流)" {
		t.Errorf("StrongestFirst() = %q", got)
	}
}
