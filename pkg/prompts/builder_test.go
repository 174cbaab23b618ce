package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/state"
)

func testGame() *state.GameState {
	gs := state.NewGameState()
	gs.GridMap[1][1] = "演武场"
	gs.GridMap[2][0] = "打铁铺"
	gs.NPCs = []state.NPC{
		{
			ID: "a", Name: "阿青", Role: "铁匠", Status: state.StatusNormal, CurrentMood: "平静",
			HP: 90, MP: 72, SAN: 10, Position: state.Position{X: 0, Y: 2},
			Relationships: []state.Relationship{{TargetID: "b", TargetName: "阿牛", Type: state.RelationEnemy, Affinity: -80}},
		},
		{ID: "b", Name: "阿牛", Role: "天策军士", Status: state.StatusInjured, CurrentMood: "痛苦", HP: 15, MP: 50, SAN: 30, Position: state.Position{X: 1, Y: 1}},
		{ID: "c", Name: "阿花", Role: "农夫", Status: state.StatusDead},
	}
	deadline := 7
	gs.Objective = &state.GameObjective{Mode: state.ModeChaos, TargetIDs: []string{}, Description: "混乱任务", DeadlineDay: &deadline}
	return gs
}

func TestNew(t *testing.T) {
	b := New()
	if b.logWindow != DefaultLogWindow {
		t.Errorf("logWindow = %d, want %d", b.logWindow, DefaultLogWindow)
	}
}

func TestBuilder_RequiresGameState(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Error("expected error without gamestate")
	}
}

func TestBuilder_Build(t *testing.T) {
	gs := testGame()
	p, err := BuildSimulation(gs, []state.PendingAction{
		{Type: state.ActionWhisper, TargetID: "a", Content: "阿牛要杀你"},
		{Type: state.ActionBroadcast, TargetID: "a", Content: "天降异象"},
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if p.System != DirectorSystemPrompt {
		t.Error("unexpected system prompt")
	}

	wants := []string{
		"Day 1, phase Morning.",
		"(1,1)演武场",
		"[阿青|铁匠] status:Normal mood:平静 at 打铁铺(0,2) 气血 90/100 | 武力 72 (一流)",
		"[阿花|农夫] Dead, takes no part.",
		"Martial ranking: 阿青(一流) > 阿牛(二流)",
		"阿青: 阿牛[Enemy affinity:-80 trust:0]",
		`- TYPE: WHISPER TARGET: 阿青 CONTENT: "阿牛要杀你"`,
		`- TYPE: BROADCAST TARGET: Global CONTENT: "天降异象"`,
		"Deadline: end of day 7.",
		"Currently active: 2 of 3.",
		"RULES OF THE JIANGHU",
	}
	for _, w := range wants {
		if !strings.Contains(p.User, w) {
			t.Errorf("prompt missing %q\n%s", w, p.User)
		}
	}
	if strings.Contains(p.User, "RECENT EVENTS") {
		t.Error("empty log should not render a recent events section")
	}
}

func TestBuilder_NoActions(t *testing.T) {
	p, err := New().WithGameState(testGame()).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !strings.Contains(p.User, "No player intervention.") {
		t.Error("expected no-intervention line")
	}
}

func TestBuilder_LogWindow(t *testing.T) {
	gs := testGame()
	for i := range 30 {
		gs.AppendLog("阿青", fmt.Sprintf("line-%02d", i), state.LogAction)
	}

	p, _ := New().WithGameState(gs).WithLogWindow(5).Build()
	if strings.Contains(p.User, "line-24") {
		t.Error("log window should drop older lines")
	}
	if !strings.Contains(p.User, "line-25") || !strings.Contains(p.User, "line-29") {
		t.Error("log window should keep the latest lines")
	}

	p, _ = New().WithGameState(gs).WithLogWindow(0).Build()
	if strings.Contains(p.User, "RECENT EVENTS") {
		t.Error("zero window should drop the section")
	}
}

func TestVillage(t *testing.T) {
	p := Village(10)
	if !strings.Contains(p.User, "Generate 10 unique") {
		t.Errorf("unexpected village prompt: %s", p.User)
	}
}

func TestInterrogation(t *testing.T) {
	gs := testGame()
	p := Interrogation(&gs.NPCs[0], "你昨夜在哪?")
	for _, w := range []string{"You are 阿青 (铁匠)", "- 阿牛: [Enemy] affinity -80", `The stranger asks: "你昨夜在哪?"`} {
		if !strings.Contains(p.User, w) {
			t.Errorf("prompt missing %q", w)
		}
	}
	if p.System != InterrogationPrompt {
		t.Error("unexpected system prompt")
	}
}
