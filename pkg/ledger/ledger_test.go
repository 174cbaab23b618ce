package ledger

import (
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame() *state.GameState {
	gs := state.NewGameState()
	gs.NPCs = []state.NPC{{ID: "a", Name: "阿青"}, {ID: "b", Name: "阿牛"}}
	return gs
}

func TestRecord_LogLineAndQueue(t *testing.T) {
	tests := []struct {
		name     string
		action   state.ActionType
		targetID string
		wantLine string
	}{
		{"whisper to npc", state.ActionWhisper, "a", `玩家对 【阿青】 施展了 传音入密: "小心"。`},
		{"broadcast ignores target", state.ActionBroadcast, "a", `玩家对 【全体侠士】 施展了 江湖传闻: "小心"。`},
		{"fabricate", state.ActionFabricate, "", `玩家对 【全体侠士】 施展了 散布谣言: "小心"。`},
		{"inception without target", state.ActionInception, "", `玩家对 【全体侠士】 施展了 心魔植入: "小心"。`},
		{"unknown target", state.ActionWhisper, "zzz", `玩家对 【未知目标】 施展了 传音入密: "小心"。`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newGame()
			l := New(gs, nil)

			cost, err := l.Record(tt.action, "小心", tt.targetID)
			require.NoError(t, err)
			assert.Equal(t, 1, cost)
			assert.Equal(t, 2, gs.ActionPoints)

			require.Len(t, gs.Logs, 1)
			assert.Equal(t, tt.wantLine, gs.Logs[0].Content)
			assert.Equal(t, state.LogSystem, gs.Logs[0].Type)

			require.Len(t, gs.PendingActions, 1)
			assert.Equal(t, gs.Logs[0].ID, gs.PendingActions[0].LogID)
			assert.Equal(t, tt.targetID, gs.PendingActions[0].TargetID)
		})
	}
}

func TestRecord_InsufficientPoints(t *testing.T) {
	gs := newGame()
	gs.ActionPoints = 1
	l := New(gs, nil)

	_, err := l.Record(state.ActionInterrogate, "说实话", "a")

	assert.ErrorIs(t, err, ErrInsufficientActionPoints)
	assert.Equal(t, 1, gs.ActionPoints)
	assert.Empty(t, gs.PendingActions)
	assert.Empty(t, gs.Logs)
}

func TestUndoLast_RemovesOwnLogLine(t *testing.T) {
	gs := newGame()
	l := New(gs, nil)
	gs.AppendLog("阿青", "narrative", state.LogAction)

	_, err := l.Record(state.ActionWhisper, "一", "a")
	require.NoError(t, err)
	_, err = l.Record(state.ActionWhisper, "一", "a")
	require.NoError(t, err)
	require.Len(t, gs.Logs, 3)
	secondID := gs.PendingActions[1].LogID

	refunded := l.UndoLast()

	assert.Equal(t, 1, refunded)
	assert.Equal(t, 2, gs.ActionPoints)
	require.Len(t, gs.PendingActions, 1)
	require.Len(t, gs.Logs, 2)
	for _, e := range gs.Logs {
		assert.NotEqual(t, secondID, e.ID)
	}
	assert.Equal(t, "narrative", gs.Logs[0].Content)
}

func TestUndoLast_RefundCappedAtMax(t *testing.T) {
	gs := newGame()
	l := New(gs, nil)
	_, err := l.Record(state.ActionBroadcast, "消息", "")
	require.NoError(t, err)

	gs.ActionPoints = state.MaxActionPoints
	refunded := l.UndoLast()

	assert.Equal(t, 0, refunded)
	assert.Equal(t, state.MaxActionPoints, gs.ActionPoints)
	assert.Empty(t, gs.PendingActions)
}

func TestUndoLast_Empty(t *testing.T) {
	gs := newGame()
	l := New(gs, nil)

	assert.Equal(t, 0, l.UndoLast())
	assert.Equal(t, state.MaxActionPoints, gs.ActionPoints)
}

func TestSpend(t *testing.T) {
	gs := newGame()
	l := New(gs, nil)

	require.NoError(t, l.Spend(2))
	assert.Equal(t, 1, gs.ActionPoints)
	assert.ErrorIs(t, l.Spend(2), ErrInsufficientActionPoints)
	assert.Equal(t, 1, gs.ActionPoints)
	assert.Empty(t, gs.PendingActions)
}

func TestRecord_EnglishLocale(t *testing.T) {
	gs := newGame()
	gs.Locale = "en"
	l := New(gs, nil)

	_, err := l.Record(state.ActionWhisper, "hide", "b")
	require.NoError(t, err)
	assert.Equal(t, `The player used Whisper on [阿牛]: "hide".`, gs.Logs[0].Content)
}
