package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jwebster45206/gossip-village/pkg/prompts"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter replays canned responses in order.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []prompts.Prompt
}

func (s *scriptedCompleter) Name() string { return "scripted" }

func (s *scriptedCompleter) Complete(_ context.Context, p prompts.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := len(s.prompts)
	s.prompts = append(s.prompts, p)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.responses) {
		return s.responses[i], nil
	}
	return "", errors.New("script exhausted")
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOracle(c Completer) *LLMOracle {
	return NewLLMOracle(c, MustLoadSchemas(), discard()).WithRetry(3, 0)
}

const villageJSON = "```json\n" + `{"npcs":[
 {"name":"阿青","age":19,"gender":"Female","role":"铁匠","publicPersona":"p","deepSecret":"s","lifeGoal":"g","currentMood":"m","spawnZone":"Market","hp":90,"mp":60,"san":5,"initialConnectionName":"阿牛","initialConnectionType":"Lover"},
 {"name":"阿牛","age":22,"gender":"Male","role":"猎户","publicPersona":"p","deepSecret":"s","lifeGoal":"g","currentMood":"m","spawnZone":"Secluded","hp":85,"mp":40,"san":10,"initialConnectionName":null,"initialConnectionType":null}
]}` + "\n```"

func TestLLMOracle_GenerateVillage(t *testing.T) {
	c := &scriptedCompleter{responses: []string{villageJSON}}
	npcs, err := newTestOracle(c).GenerateVillage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, npcs, 2)

	assert.Regexp(t, `^npc-\d+-0$`, npcs[0].ID)
	assert.Equal(t, state.StatusNormal, npcs[0].Status)
	assert.Equal(t, state.Position{}, npcs[0].Position)
	assert.NotNil(t, npcs[0].Relationships)
	assert.Equal(t, state.RelationLover, npcs[0].InitialConnectionType)
	assert.Equal(t, state.ZoneSecluded, npcs[1].SpawnZone)
	assert.Empty(t, npcs[1].InitialConnectionName)
	assert.Contains(t, c.prompts[0].User, "Generate 2 unique")
}

func TestLLMOracle_RetriesSchemaViolations(t *testing.T) {
	c := &scriptedCompleter{responses: []string{
		`{"npcs":[{"name":"阿青"}]}`,
		`not json`,
		villageJSON,
	}}
	npcs, err := newTestOracle(c).GenerateVillage(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, npcs, 2)
	assert.Len(t, c.prompts, 3)
}

func TestLLMOracle_GivesUpAfterMaxAttempts(t *testing.T) {
	boom := errors.New("503")
	c := &scriptedCompleter{errs: []error{boom, boom, boom, nil}, responses: []string{"", "", "", villageJSON}}
	_, err := newTestOracle(c).GenerateVillage(context.Background(), 2)
	require.ErrorIs(t, err, boom)
	assert.Len(t, c.prompts, 3)
}

func TestLLMOracle_SimulateDay(t *testing.T) {
	c := &scriptedCompleter{responses: []string{`{
		"logs":[{"npcName":"阿青","thought":"t","action":"a"}],
		"relationshipUpdates":[{"sourceName":"阿青","targetName":"阿牛","affinityChange":5,"trustChange":-3,"newType":null}],
		"statUpdates":[{"npcName":"阿青","hpChange":-10,"mpChange":2,"sanChange":0}],
		"newIntel":[],
		"newspaper":null,
		"npcStatusUpdates":[{"npcName":"阿青","status":"Agitated","mood":"怒","newPosition":{"x":1,"y":2}}],
		"gameOutcome":{"result":"Victory","reason":"r"}
	}`}}
	gs := state.NewGameState()
	gs.NPCs = []state.NPC{{ID: "a", Name: "阿青", Status: state.StatusNormal, HP: 50}}

	res, err := newTestOracle(c).SimulateDay(context.Background(), gs, nil)
	require.NoError(t, err)
	require.Len(t, res.Logs, 1)
	assert.Equal(t, -3, res.RelationshipUpdates[0].TrustChange)
	assert.Equal(t, state.RelationshipType(""), res.RelationshipUpdates[0].NewType)
	assert.Nil(t, res.Newspaper)
	require.NotNil(t, res.NPCStatusUpdates[0].NewPosition)
	assert.Equal(t, 2, res.NPCStatusUpdates[0].NewPosition.Y)
	assert.Equal(t, state.OutcomeVictory, res.GameOutcome.Result)
	assert.Contains(t, c.prompts[0].User, "[阿青|]")
}

func TestLLMOracle_SimulateDayRejectsBadOutcome(t *testing.T) {
	bad := `{"gameOutcome":{"result":"Draw","reason":"r"}}`
	c := &scriptedCompleter{responses: []string{bad, bad, bad}}
	_, err := newTestOracle(c).SimulateDay(context.Background(), state.NewGameState(), nil)
	assert.ErrorIs(t, err, ErrSchemaViolation)
}

func TestLLMOracle_InteractWithNPC(t *testing.T) {
	c := &scriptedCompleter{responses: []string{`{"reply":"滚","revealedInfo":null,"moodChange":"愤怒"}`}}
	npc := &state.NPC{ID: "a", Name: "阿青", HP: 50}
	res, err := newTestOracle(c).InteractWithNPC(context.Background(), npc, "你是谁")
	require.NoError(t, err)
	assert.Equal(t, "滚", res.Reply)
	assert.Empty(t, res.RevealedInfo)
	assert.Equal(t, "愤怒", res.MoodChange)
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry(ctx, 5, time.Hour, nil, "op", func() error {
		calls++
		cancel()
		return errors.New("fail")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetry_SucceedsEventually(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, discard(), "op", func() error {
		calls++
		if calls < 3 {
			return errors.New("fail")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_ReturnsLastErrorAtMaxAttempts(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		wantCalls int
	}{
		{"single attempt", 1, 1},
		{"zero means one", 0, 1},
		{"two attempts", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retry(context.Background(), tt.attempts, time.Millisecond, discard(), "op", func() error {
				calls++
				return fmt.Errorf("attempt %d: %w", calls, ErrSchemaViolation)
			})
			require.ErrorIs(t, err, ErrSchemaViolation)
			assert.Contains(t, err.Error(), fmt.Sprintf("attempt %d", tt.wantCalls))
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}
