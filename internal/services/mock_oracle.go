package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/simulation"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// MockOracle is an offline engine.Oracle for tests and local play. Without
// hooks it returns a fixed cast and quiet phases.
type MockOracle struct {
	GenerateVillageFunc func(ctx context.Context, count int) ([]state.NPC, error)
	SimulateDayFunc     func(ctx context.Context, gs *state.GameState, actions []state.PendingAction) (*simulation.Result, error)
	InteractWithNPCFunc func(ctx context.Context, npc *state.NPC, question string) (*simulation.Interaction, error)

	// Track calls for testing
	GenerateVillageCalls []int
	SimulateDayCalls     []SimulateDayCall
	InteractCalls        []InteractCall

	mu sync.Mutex // protects all fields above
}

type SimulateDayCall struct {
	GameID  string
	Day     int
	Phase   state.Phase
	Actions []state.PendingAction
}

type InteractCall struct {
	NPCID    string
	Question string
}

var _ engine.Oracle = (*MockOracle)(nil)

func NewMockOracle() *MockOracle {
	return &MockOracle{
		GenerateVillageCalls: make([]int, 0),
		SimulateDayCalls:     make([]SimulateDayCall, 0),
		InteractCalls:        make([]InteractCall, 0),
	}
}

var mockCast = []struct {
	name, role, gender string
	zone               state.Zone
	hp, mp, san        int
	link               string
	linkType           state.RelationshipType
}{
	{"李铁", "藏剑铁匠", "Male", state.ZoneMarket, 95, 60, 10, "", ""},
	{"王村长", "村长", "Male", state.ZoneOfficial, 60, 30, 25, "", ""},
	{"苏青", "万花游医", "Female", state.ZoneTemple, 70, 55, 5, "李铁", state.RelationLover},
	{"赵七", "丐帮弟子", "Male", state.ZoneMarket, 85, 65, 20, "李铁", state.RelationEnemy},
	{"林婉儿", "书生", "Female", state.ZoneOfficial, 45, 5, 8, "王村长", state.RelationFamily},
	{"莫问", "纯阳道长", "Male", state.ZoneTemple, 80, 88, 3, "", ""},
	{"小虎", "猎户", "Male", state.ZoneSecluded, 90, 40, 12, "莫问", state.RelationDisciple},
	{"阿朵", "五毒教徒", "Female", state.ZoneSecluded, 75, 70, 55, "苏青", state.RelationEnemy},
	{"钱掌柜", "酒肆掌柜", "Male", state.ZoneMarket, 65, 15, 30, "", ""},
	{"燕十三", "天策军士", "Male", state.ZoneOfficial, 92, 78, 18, "赵七", state.RelationFriend},
}

// GenerateVillage returns up to count members of a fixed cast.
func (m *MockOracle) GenerateVillage(ctx context.Context, count int) ([]state.NPC, error) {
	m.mu.Lock()
	m.GenerateVillageCalls = append(m.GenerateVillageCalls, count)
	fn := m.GenerateVillageFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, count)
	}

	n := min(count, len(mockCast))
	out := make([]state.NPC, 0, n)
	for i, c := range mockCast[:n] {
		out = append(out, state.NPC{
			ID:                    fmt.Sprintf("npc-mock-%d", i),
			Name:                  c.name,
			Age:                   20 + i*3,
			Gender:                c.gender,
			Role:                  c.role,
			PublicPersona:         c.role + "，为人低调",
			DeepSecret:            c.name + "藏着一段往事",
			LifeGoal:              "在江湖中求得一席之地",
			CurrentMood:           "平静",
			Status:                state.StatusNormal,
			HP:                    c.hp,
			MP:                    c.mp,
			SAN:                   c.san,
			Relationships:         []state.Relationship{},
			SpawnZone:             c.zone,
			InitialConnectionName: c.link,
			InitialConnectionType: c.linkType,
		})
	}
	return out, nil
}

// SimulateDay records the call and by default lets every active villager
// pass the phase quietly.
func (m *MockOracle) SimulateDay(ctx context.Context, gs *state.GameState, actions []state.PendingAction) (*simulation.Result, error) {
	m.mu.Lock()
	m.SimulateDayCalls = append(m.SimulateDayCalls, SimulateDayCall{
		GameID:  gs.ID.String(),
		Day:     gs.Day,
		Phase:   gs.Phase,
		Actions: append([]state.PendingAction(nil), actions...),
	})
	fn := m.SimulateDayFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, gs, actions)
	}

	res := &simulation.Result{}
	for _, n := range gs.NPCs {
		if !n.IsActive() {
			continue
		}
		res.Logs = append(res.Logs, simulation.LogProposal{NPCName: n.Name, Action: "闭门不出"})
	}
	return res, nil
}

// InteractWithNPC records the call and by default gives nothing away.
func (m *MockOracle) InteractWithNPC(ctx context.Context, npc *state.NPC, question string) (*simulation.Interaction, error) {
	m.mu.Lock()
	m.InteractCalls = append(m.InteractCalls, InteractCall{NPCID: npc.ID, Question: question})
	fn := m.InteractWithNPCFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, npc, question)
	}
	return &simulation.Interaction{Reply: "……无可奉告。", MoodChange: "警惕"}, nil
}

// Reset clears all call tracking
func (m *MockOracle) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateVillageCalls = make([]int, 0)
	m.SimulateDayCalls = make([]SimulateDayCall, 0)
	m.InteractCalls = make([]InteractCall, 0)
}

// SimulateDayCallCount is safe to call while the oracle is in use.
func (m *MockOracle) SimulateDayCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SimulateDayCalls)
}
