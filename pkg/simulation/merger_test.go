package simulation

import (
	"strings"
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func npc(id, name string, hp, mp, san int) state.NPC {
	return state.NPC{
		ID: id, Name: name, Status: state.StatusNormal,
		HP: hp, MP: mp, SAN: san,
		Position:      state.Position{X: 1, Y: 1},
		CurrentMood:   "平静",
		Relationships: []state.Relationship{},
	}
}

func merge(npcs []state.NPC, res *Result) Output {
	m := NewMerger(nil, locale.Printer("zh"))
	return m.Merge(Input{NPCs: npcs, Result: res, Day: 1, Phase: state.PhaseMorning})
}

func TestMerge_ClockAndActionPoints(t *testing.T) {
	out := merge(nil, nil)
	assert.Equal(t, 1, out.Day)
	assert.Equal(t, state.PhaseAfternoon, out.Phase)
	assert.Equal(t, state.MaxActionPoints, out.ActionPoints)

	m := NewMerger(nil, nil)
	out = m.Merge(Input{Day: 4, Phase: state.PhaseNight})
	assert.Equal(t, 5, out.Day)
	assert.Equal(t, state.PhaseMorning, out.Phase)
}

func TestMerge_StatClamping(t *testing.T) {
	tests := []struct {
		name       string
		hp         int
		delta      int
		wantHP     int
		wantStatus state.Status
	}{
		{"massive damage", 10, -9999, 0, state.StatusDead},
		{"exact zero", 10, -10, 0, state.StatusDead},
		{"overheal", 90, 50, 100, state.StatusNormal},
		{"into injury", 30, -15, 15, state.StatusInjured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := merge([]state.NPC{npc("a", "阿青", tt.hp, 50, 10)}, &Result{
				StatUpdates: []StatProposal{{NPCName: "阿青", HPChange: tt.delta, MPChange: 500, SANChange: -500}},
			})
			got := out.NPCs[0]
			assert.Equal(t, tt.wantHP, got.HP)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, state.StatMax, got.MP)
			assert.Equal(t, state.StatMin, got.SAN)
		})
	}
}

func TestMerge_MultipleStatUpdatesApplySequentially(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 50, 50, 10)}, &Result{
		StatUpdates: []StatProposal{
			{NPCName: "阿青", HPChange: -10},
			{NPCName: "阿青", HPChange: -5, SANChange: 3},
		},
	})
	assert.Equal(t, 35, out.NPCs[0].HP)
	assert.Equal(t, 13, out.NPCs[0].SAN)
}

func TestMerge_TerminalStatusLocked(t *testing.T) {
	for _, st := range []state.Status{state.StatusDead, state.StatusJailed, state.StatusLeftVillage, state.StatusEscaped} {
		t.Run(string(st), func(t *testing.T) {
			n := npc("a", "阿青", 50, 50, 10)
			n.Status = st
			out := merge([]state.NPC{n}, &Result{
				StatUpdates: []StatProposal{{NPCName: "阿青", HPChange: 40, MPChange: 5, SANChange: 30}},
				NPCStatusUpdates: []StatusProposal{{
					NPCName: "阿青", Status: "Normal",
					NewPosition: &state.Position{X: 3, Y: 3},
				}},
			})
			assert.Equal(t, st, out.NPCs[0].Status)
			assert.Equal(t, state.Position{X: 1, Y: 1}, out.NPCs[0].Position)
			assert.Equal(t, 50, out.NPCs[0].HP)
			assert.Equal(t, 50, out.NPCs[0].MP)
			assert.Equal(t, 10, out.NPCs[0].SAN)
			assert.Empty(t, out.Logs)
		})
	}
}

func TestMerge_StatusPriority(t *testing.T) {
	// hp below the injury line wins over high san and over the oracle's suggestion
	out := merge([]state.NPC{npc("a", "阿青", 15, 50, 95)}, &Result{
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "Married"}},
	})
	assert.Equal(t, state.StatusInjured, out.NPCs[0].Status)

	// high san overrides the suggestion when hp is fine
	out = merge([]state.NPC{npc("a", "阿青", 80, 50, 95)}, &Result{
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "Married"}},
	})
	assert.Equal(t, state.StatusQiDeviated, out.NPCs[0].Status)

	// suggestion is taken when no override applies
	out = merge([]state.NPC{npc("a", "阿青", 80, 50, 10)}, &Result{
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "Married"}},
	})
	assert.Equal(t, state.StatusMarried, out.NPCs[0].Status)

	// unknown suggestion keeps the previous status
	out = merge([]state.NPC{npc("a", "阿青", 80, 50, 10)}, &Result{
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "Ascended"}},
	})
	assert.Equal(t, state.StatusNormal, out.NPCs[0].Status)
}

func TestMerge_DeathSuggestionWithHealthyHP(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10)}, &Result{
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "LeftVillage"}},
	})
	assert.Equal(t, state.StatusLeftVillage, out.NPCs[0].Status)
}

func TestResolveStatus_Hysteresis(t *testing.T) {
	tests := []struct {
		name      string
		previous  state.Status
		suggested state.Status
		hp, san   int
		want      state.Status
	}{
		{"enters qi deviation", state.StatusNormal, state.StatusNormal, 80, 90, state.StatusQiDeviated},
		{"stays deviated between thresholds", state.StatusQiDeviated, state.StatusQiDeviated, 80, 85, state.StatusQiDeviated},
		{"recovers below 80", state.StatusQiDeviated, state.StatusQiDeviated, 80, 79, state.StatusNormal},
		{"injured recovers", state.StatusInjured, state.StatusInjured, 20, 10, state.StatusNormal},
		{"injured stays injured", state.StatusInjured, state.StatusInjured, 19, 10, state.StatusInjured},
		{"dead stays dead", state.StatusDead, state.StatusNormal, 100, 10, state.StatusDead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ResolveStatus(tt.previous, tt.suggested, tt.hp, tt.san)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge_RelationshipNewEdge(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10), npc("b", "阿牛", 80, 50, 10)}, &Result{
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: -30, TrustChange: 70},
		},
	})
	require.Len(t, out.NPCs[0].Relationships, 1)
	rel := out.NPCs[0].Relationships[0]
	assert.Equal(t, "b", rel.TargetID)
	assert.Equal(t, "阿牛", rel.TargetName)
	assert.Equal(t, state.RelationNone, rel.Type)
	assert.Equal(t, -30, rel.Affinity)
	assert.Equal(t, 100, rel.Trust)
	assert.Empty(t, out.NPCs[1].Relationships)
}

func TestMerge_RelationshipExistingEdge(t *testing.T) {
	a := npc("a", "阿青", 80, 50, 10)
	a.Relationships = []state.Relationship{{TargetID: "b", TargetName: "阿牛", Type: state.RelationFriend, Affinity: 90, Trust: 10}}
	out := merge([]state.NPC{a, npc("b", "阿牛", 80, 50, 10)}, &Result{
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: 30, TrustChange: -30, NewType: state.RelationNone},
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: 0, TrustChange: 0, NewType: "Rival"},
		},
	})
	require.Len(t, out.NPCs[0].Relationships, 1)
	rel := out.NPCs[0].Relationships[0]
	assert.Equal(t, state.RelationFriend, rel.Type)
	assert.Equal(t, 100, rel.Affinity)
	assert.Equal(t, 0, rel.Trust)

	out = merge(out.NPCs, &Result{
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿牛", NewType: state.RelationLover},
		},
	})
	assert.Equal(t, state.RelationLover, out.NPCs[0].Relationships[0].Type)
}

func TestMerge_DuplicateDeltasShareOneEdge(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10), npc("b", "阿牛", 80, 50, 10)}, &Result{
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: 10, TrustChange: 5},
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: 10, TrustChange: 5},
		},
	})
	require.Len(t, out.NPCs[0].Relationships, 1)
	assert.Equal(t, 20, out.NPCs[0].Relationships[0].Affinity)
	assert.Equal(t, 60, out.NPCs[0].Relationships[0].Trust)
}

func TestMerge_IgnoresUnknownAndSelfReferences(t *testing.T) {
	in := []state.NPC{npc("a", "阿青", 80, 50, 10)}
	out := merge(in, &Result{
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿青", AffinityChange: 50},
			{SourceName: "阿青", TargetName: "鬼", AffinityChange: 50},
			{SourceName: "鬼", TargetName: "阿青", AffinityChange: 50},
		},
		StatUpdates:      []StatProposal{{NPCName: "鬼", HPChange: -100}},
		NPCStatusUpdates: []StatusProposal{{NPCName: "鬼", Status: "Dead"}},
	})
	assert.Empty(t, out.NPCs[0].Relationships)
	assert.Equal(t, 80, out.NPCs[0].HP)
	assert.Equal(t, state.StatusNormal, out.NPCs[0].Status)
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	in := []state.NPC{npc("a", "阿青", 80, 50, 10), npc("b", "阿牛", 80, 50, 10)}
	merge(in, &Result{
		StatUpdates:         []StatProposal{{NPCName: "阿青", HPChange: -30}},
		RelationshipUpdates: []RelationshipProposal{{SourceName: "阿青", TargetName: "阿牛", AffinityChange: 5}},
	})
	assert.Equal(t, 80, in[0].HP)
	assert.Empty(t, in[0].Relationships)
}

func TestMerge_IntelDedup(t *testing.T) {
	history := []state.IntelCard{{ID: "x", Type: state.IntelSecret, Content: "阿青偷了剑谱"}}
	m := NewMerger(nil, nil)
	out := m.Merge(Input{
		Intel: history, Day: 3, Phase: state.PhaseEvening,
		Result: &Result{NewIntel: []IntelProposal{
			{Content: "阿青偷了剑谱"},
			{Content: "阿牛夜里出门"},
			{Content: "阿牛夜里出门"},
			{Content: "  "},
		}},
	})
	require.Len(t, out.Intel, 1)
	card := out.Intel[0]
	assert.Equal(t, "阿牛夜里出门", card.Content)
	assert.Equal(t, state.IntelRumor, card.Type)
	assert.Equal(t, IntelSourceSimulation, card.SourceID)
	assert.Equal(t, 3, card.Timestamp)
	assert.NotEmpty(t, card.ID)

	// a later tick proposing the same rumor adds nothing
	next := m.Merge(Input{
		Intel: append(history, out.Intel...), Day: 3, Phase: state.PhaseNight,
		Result: &Result{NewIntel: []IntelProposal{{Content: "阿牛夜里出门"}}},
	})
	assert.Empty(t, next.Intel)
}

func TestMerge_PositionBounds(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10), npc("b", "阿牛", 80, 50, 10)}, &Result{
		NPCStatusUpdates: []StatusProposal{
			{NPCName: "阿青", NewPosition: &state.Position{X: 5, Y: 5}},
			{NPCName: "阿牛", NewPosition: &state.Position{X: 3, Y: 0}},
		},
	})
	assert.Equal(t, state.Position{X: 1, Y: 1}, out.NPCs[0].Position)
	assert.Equal(t, state.Position{X: 3, Y: 0}, out.NPCs[1].Position)
}

func TestMerge_DyingNPCDoesNotMove(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 10, 50, 10)}, &Result{
		StatUpdates:      []StatProposal{{NPCName: "阿青", HPChange: -20}},
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", NewPosition: &state.Position{X: 0, Y: 0}}},
	})
	assert.Equal(t, state.StatusDead, out.NPCs[0].Status)
	assert.Equal(t, state.Position{X: 1, Y: 1}, out.NPCs[0].Position)
}

func TestMerge_Mood(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10), npc("b", "阿牛", 80, 50, 10)}, &Result{
		NPCStatusUpdates: []StatusProposal{
			{NPCName: "阿青", Mood: "愤怒"},
			{NPCName: "阿牛", Mood: ""},
		},
	})
	assert.Equal(t, "愤怒", out.NPCs[0].CurrentMood)
	assert.Equal(t, "平静", out.NPCs[1].CurrentMood)
}

func TestMerge_LogsAndMartialGrowth(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10)}, &Result{
		Logs: []LogProposal{
			{NPCName: "阿青", Thought: "他骗了我", Action: "拔剑"},
			{NPCName: "阿青", Thought: "", Action: "离开"},
		},
		StatUpdates: []StatProposal{{NPCName: "阿青", MPChange: 5}},
	})
	require.Len(t, out.Logs, 3)
	assert.Equal(t, "他骗了我 (行动: 拔剑)", out.Logs[0].Content)
	assert.Equal(t, state.LogThought, out.Logs[0].Type)
	assert.Equal(t, state.LogAction, out.Logs[1].Type)
	assert.Equal(t, state.LogSystem, out.Logs[2].Type)
	assert.Equal(t, "阿青 武学精进！武力值提升了 5 点。", out.Logs[2].Content)
	for _, l := range out.Logs {
		assert.Equal(t, 1, l.Day)
		assert.Equal(t, state.PhaseMorning, l.Phase)
	}
	assert.Equal(t, 55, out.NPCs[0].MP)
}

func TestMerge_NoGrowthLogForLoss(t *testing.T) {
	out := merge([]state.NPC{npc("a", "阿青", 80, 50, 10)}, &Result{
		StatUpdates: []StatProposal{{NPCName: "阿青", MPChange: -5}},
	})
	assert.Empty(t, out.Logs)
}

func TestMerge_NewspaperAndOutcome(t *testing.T) {
	out := merge(nil, &Result{Newspaper: &state.Newspaper{Headline: " ", Articles: []string{"x"}}})
	assert.Nil(t, out.Newspaper)
	assert.Nil(t, out.Outcome)

	out = merge(nil, &Result{
		Newspaper:   &state.Newspaper{Headline: "血溅铁铺", Articles: []string{"一", "二"}},
		GameOutcome: &state.Outcome{Result: state.OutcomeVictory, Reason: "有情人终成眷属"},
	})
	require.NotNil(t, out.Newspaper)
	assert.Equal(t, "血溅铁铺", out.Newspaper.Headline)
	assert.Len(t, out.Newspaper.Articles, 2)
	require.NotNil(t, out.Outcome)
	assert.Equal(t, state.OutcomeVictory, out.Outcome.Result)
}

func TestMerge_TwoCharacterFight(t *testing.T) {
	a := npc("a", "阿青", 60, 70, 40)
	b := npc("b", "阿牛", 25, 40, 60)
	out := merge([]state.NPC{a, b}, &Result{
		Logs: []LogProposal{
			{NPCName: "阿青", Thought: "新仇旧恨", Action: "与阿牛决斗"},
			{NPCName: "阿牛", Thought: "", Action: "倒地不起"},
		},
		RelationshipUpdates: []RelationshipProposal{
			{SourceName: "阿青", TargetName: "阿牛", AffinityChange: -60, TrustChange: -40, NewType: state.RelationEnemy},
			{SourceName: "阿牛", TargetName: "阿青", AffinityChange: -80, TrustChange: -50, NewType: state.RelationEnemy},
		},
		StatUpdates: []StatProposal{
			{NPCName: "阿青", HPChange: -45, MPChange: 3, SANChange: 55},
			{NPCName: "阿牛", HPChange: -40},
		},
		NewIntel:         []IntelProposal{{Content: "阿青与阿牛在铁铺决斗"}},
		NPCStatusUpdates: []StatusProposal{{NPCName: "阿青", Status: "Agitated", Mood: "杀红了眼"}},
		Newspaper:        &state.Newspaper{Headline: "铁铺血案"},
	})

	qing, niu := out.NPCs[0], out.NPCs[1]
	assert.Equal(t, 15, qing.HP)
	assert.Equal(t, 73, qing.MP)
	assert.Equal(t, 95, qing.SAN)
	assert.Equal(t, state.StatusInjured, qing.Status)
	assert.Equal(t, "杀红了眼", qing.CurrentMood)
	assert.Equal(t, -60, qing.Relationships[0].Affinity)
	assert.Equal(t, 10, qing.Relationships[0].Trust)
	assert.Equal(t, state.RelationEnemy, qing.Relationships[0].Type)

	assert.Equal(t, 0, niu.HP)
	assert.Equal(t, state.StatusDead, niu.Status)
	assert.Equal(t, 0, niu.Relationships[0].Trust)

	require.Len(t, out.Logs, 3)
	assert.True(t, strings.Contains(out.Logs[2].Content, "阿青"))
	assert.Len(t, out.Intel, 1)
	assert.NotNil(t, out.Newspaper)
	assert.Equal(t, state.PhaseAfternoon, out.Phase)
}

func TestResult_IsEmpty(t *testing.T) {
	var r *Result
	assert.True(t, r.IsEmpty())
	assert.True(t, (&Result{}).IsEmpty())
	assert.False(t, (&Result{Logs: []LogProposal{{NPCName: "x"}}}).IsEmpty())
}
