package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleGame() *state.GameState {
	gs := state.NewGameState()
	gs.NPCs = []state.NPC{{ID: "a", Name: "阿青"}, {ID: "b", Name: "阿牛"}}
	gs.AppendLog("", "玩家对 【阿青】 施展了 传音入密", state.LogSystem)
	gs.ActionPoints = 2
	return gs
}

func TestCheckExpectations(t *testing.T) {
	gs := sampleGame()

	ok := Expectations{
		Day:          ptr(1),
		Phase:        ptr("Morning"),
		ActionPoints: ptr(2),
		IsSimulating: ptr(false),
		HasOutcome:   ptr(false),
		LogContains:  []string{"传音入密"},
	}
	assert.NoError(t, CheckExpectations(ok, gs, ""))

	bad := Expectations{
		Day:            ptr(2),
		PendingActions: ptr(1),
		LogNotContains: []string{"阿青"},
		ReplyContains:  []string{"滚"},
	}
	err := CheckExpectations(bad, gs, "嗯")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "day: expected 2, got 1")
	assert.Contains(t, err.Error(), "pending actions")
	assert.Contains(t, err.Error(), "should not contain")
	assert.Contains(t, err.Error(), "reply should contain")
}

func TestResolveTarget(t *testing.T) {
	gs := sampleGame()
	npc, err := ResolveTarget(gs, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", npc.ID)

	npc, err = ResolveTarget(gs, "阿青")
	require.NoError(t, err)
	assert.Equal(t, "a", npc.ID)

	_, err = ResolveTarget(gs, "3")
	assert.Error(t, err)
	_, err = ResolveTarget(gs, "王五")
	assert.Error(t, err)
}

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("one.json", `{"name":"one","steps":[{"kind":"read","expect":{"day":1}}]}`)
	write("two.json", `{"name":"two","mode":"Chaos","steps":[{"kind":"undo"}]}`)
	write("all.json", `{"name":"all","cases":["one.json","two.json"]}`)

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(dir, "all.json"), dir)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "one", jobs[0].Name)
	assert.Equal(t, "Chaos", jobs[1].Suite.Mode)
	require.NotNil(t, jobs[0].Suite.Steps[0].Expectations.Day)

	write("broken.json", `{"name":"broken","cases":["missing.json"]}`)
	_, err = LoadTestSuiteWithExpansion(filepath.Join(dir, "broken.json"), dir)
	assert.Error(t, err)
}
