package state

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvance(t *testing.T) {
	tests := []struct {
		name      string
		day       int
		phase     Phase
		wantDay   int
		wantPhase Phase
	}{
		{"morning to afternoon", 3, PhaseMorning, 3, PhaseAfternoon},
		{"afternoon to evening", 3, PhaseAfternoon, 3, PhaseEvening},
		{"evening to night", 3, PhaseEvening, 3, PhaseNight},
		{"night wraps to next day", 3, PhaseNight, 4, PhaseMorning},
		{"first day", 1, PhaseNight, 2, PhaseMorning},
		{"unknown phase resets to morning", 4, Phase("Dusk"), 4, PhaseMorning},
		{"empty phase resets to morning", 2, Phase(""), 2, PhaseMorning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, phase := Advance(tt.day, tt.phase)
			assert.Equal(t, tt.wantDay, day)
			assert.Equal(t, tt.wantPhase, phase)
		})
	}
}

func TestAdvance_FullDayCycle(t *testing.T) {
	day, phase := 1, PhaseMorning
	for i := 0; i < len(Phases); i++ {
		assert.Equal(t, Phases[i], phase)
		day, phase = Advance(day, phase)
	}
	assert.Equal(t, 2, day)
	assert.Equal(t, PhaseMorning, phase)
}

func TestStatus_IsInactive(t *testing.T) {
	inactive := []Status{StatusDead, StatusJailed, StatusLeftVillage, StatusEscaped, "LeftVillage"}
	for _, s := range inactive {
		assert.True(t, s.IsInactive(), "expected %q to be inactive", s)
	}
	active := []Status{StatusNormal, StatusInjured, StatusQiDeviated, StatusMarried, StatusHeartbroken, StatusAgitated, StatusDepressed}
	for _, s := range active {
		assert.False(t, s.IsInactive(), "expected %q to be active", s)
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("LeftVillage")
	assert.True(t, ok)
	assert.Equal(t, StatusLeftVillage, s)

	s, ok = ParseStatus("Injured")
	assert.True(t, ok)
	assert.Equal(t, StatusInjured, s)

	_, ok = ParseStatus("Sleepy")
	assert.False(t, ok)
}

func TestRelationshipType_Reciprocal(t *testing.T) {
	tests := map[RelationshipType]RelationshipType{
		RelationLover:    RelationLover,
		RelationEnemy:    RelationEnemy,
		RelationFamily:   RelationFamily,
		RelationMaster:   RelationDisciple,
		RelationDisciple: RelationMaster,
		RelationFriend:   RelationFriend,
		RelationNone:     RelationFriend,
		"":               RelationFriend,
	}
	for in, want := range tests {
		assert.Equal(t, want, in.Reciprocal(), "reciprocal of %q", in)
	}
}

func TestActionType_Cost(t *testing.T) {
	assert.Equal(t, 2, ActionInterrogate.Cost())
	for _, a := range []ActionType{ActionWhisper, ActionBroadcast, ActionFabricate, ActionInception} {
		assert.Equal(t, 1, a.Cost(), "cost of %s", a)
	}
}

func TestPosition_InBounds(t *testing.T) {
	assert.True(t, Position{0, 0}.InBounds())
	assert.True(t, Position{3, 3}.InBounds())
	assert.False(t, Position{4, 0}.InBounds())
	assert.False(t, Position{0, -1}.InBounds())
	assert.False(t, Position{5, 5}.InBounds())
}

func TestGameState_AppendAndRemoveLog(t *testing.T) {
	gs := NewGameState()
	gs.Day = 2
	gs.Phase = PhaseEvening

	first := gs.AppendLog("", "first", LogSystem)
	second := gs.AppendLog("阿青", "second", LogAction)

	require.Len(t, gs.Logs, 2)
	assert.Equal(t, 2, gs.Logs[1].Day)
	assert.Equal(t, PhaseEvening, gs.Logs[1].Phase)
	assert.Equal(t, "阿青", gs.Logs[1].NPCName)

	assert.True(t, gs.RemoveLog(first))
	require.Len(t, gs.Logs, 1)
	assert.Equal(t, second, gs.Logs[0].ID)

	assert.False(t, gs.RemoveLog(uuid.New()))
	assert.Len(t, gs.Logs, 1)
}

func TestGameState_Clone(t *testing.T) {
	deadline := 7
	gs := NewGameState()
	gs.NPCs = []NPC{{
		ID:   "npc-1",
		Name: "阿青",
		Relationships: []Relationship{
			{TargetID: "npc-2", Type: RelationLover, Affinity: 80, Trust: 90, KnownSecrets: []string{"x"}},
		},
	}}
	gs.Objective = &GameObjective{Mode: ModeDetective, TargetIDs: []string{"npc-1"}, DeadlineDay: &deadline}
	gs.LastNewspaper = &Newspaper{Headline: "h", Articles: []string{"a"}}

	clone := gs.Clone()
	clone.NPCs[0].Relationships[0].Affinity = -50
	clone.NPCs[0].Relationships[0].KnownSecrets[0] = "y"
	clone.Objective.TargetIDs[0] = "npc-9"
	*clone.Objective.DeadlineDay = 9
	clone.LastNewspaper.Articles[0] = "b"

	assert.Equal(t, 80, gs.NPCs[0].Relationships[0].Affinity)
	assert.Equal(t, "x", gs.NPCs[0].Relationships[0].KnownSecrets[0])
	assert.Equal(t, "npc-1", gs.Objective.TargetIDs[0])
	assert.Equal(t, 7, *gs.Objective.DeadlineDay)
	assert.Equal(t, "a", gs.LastNewspaper.Articles[0])
}

func TestGameState_JSONRoundTripKeepsWireNames(t *testing.T) {
	gs := NewGameState()
	gs.Outcome = &Outcome{Result: OutcomeVictory, Reason: "done"}

	data, err := json.Marshal(gs)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "timePhase")
	assert.Contains(t, raw, "gameOutcome")
	assert.Contains(t, raw, "actionPoints")
	assert.Equal(t, float64(MaxActionPoints), raw["actionPoints"])
}

func TestGameState_FindNPC(t *testing.T) {
	gs := NewGameState()
	gs.NPCs = []NPC{{ID: "a", Name: "甲"}, {ID: "b", Name: "乙", Status: StatusDead}}

	require.NotNil(t, gs.FindNPC("b"))
	assert.Equal(t, "乙", gs.FindNPC("b").Name)
	assert.Nil(t, gs.FindNPC("c"))
	assert.Equal(t, "a", gs.FindNPCByName("甲").ID)
	assert.Nil(t, gs.FindNPCByName("丙"))
	assert.Equal(t, 1, gs.ActiveCount())
}
