package state

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// MaxActionPoints is the per-day action budget.
const MaxActionPoints = 3

// GridMap holds location names indexed [y][x].
type GridMap [GridSize][GridSize]string

// Name returns the location name at p, or "" when p is off the grid.
func (g GridMap) Name(p Position) string {
	if !p.InBounds() {
		return ""
	}
	return g[p.Y][p.X]
}

// IntelCard is a unit of player-visible knowledge.
type IntelCard struct {
	ID        string    `json:"id"`
	Type      IntelType `json:"type"`
	Content   string    `json:"content"`
	SourceID  string    `json:"sourceId,omitempty"`
	Timestamp int       `json:"timestamp"` // day number
}

// LogEntry is an immutable line of the village chronicle.
type LogEntry struct {
	ID      uuid.UUID `json:"id"`
	Day     int       `json:"day"`
	Phase   Phase     `json:"phase"`
	NPCName string    `json:"npcName,omitempty"`
	Content string    `json:"content"`
	Type    LogType   `json:"type"`
}

// GameObjective is fixed for the whole session once generated.
type GameObjective struct {
	Mode        GameMode `json:"mode"`
	TargetIDs   []string `json:"targetIds"`
	Description string   `json:"description"`
	DeadlineDay *int     `json:"deadlineDay,omitempty"`
}

type Newspaper struct {
	Headline string   `json:"headline"`
	Articles []string `json:"articles"`
}

type Outcome struct {
	Result OutcomeResult `json:"result"`
	Reason string        `json:"reason"`
}

// PendingAction is a player intervention queued for the next oracle call.
type PendingAction struct {
	Type     ActionType `json:"type"`
	Content  string     `json:"content"`
	TargetID string     `json:"targetId,omitempty"`
	Cost     int        `json:"cost"`
	LogID    uuid.UUID  `json:"logId"` // log line written when the action was recorded
}

// GameState is the aggregate root of one play session.
type GameState struct {
	ID             uuid.UUID       `json:"id"`
	Mode           GameMode        `json:"mode"`
	Day            int             `json:"day"`
	Phase          Phase           `json:"timePhase"`
	NPCs           []NPC           `json:"npcs"`
	Intel          []IntelCard     `json:"intel"`
	Logs           []LogEntry      `json:"logs"`
	GridMap        GridMap         `json:"gridMap"`
	Objective      *GameObjective  `json:"objective,omitempty"`
	ActionPoints   int             `json:"actionPoints"`
	PendingActions []PendingAction `json:"pendingActions"`
	IsSimulating   bool            `json:"isSimulating"`
	Outcome        *Outcome        `json:"gameOutcome,omitempty"`
	LastNewspaper  *Newspaper      `json:"lastNewspaper,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	Locale         string          `json:"locale,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewGameState returns an empty session at day 1, morning.
func NewGameState() *GameState {
	now := time.Now()
	return &GameState{
		ID:             uuid.New(),
		Mode:           ModeSandbox,
		Day:            1,
		Phase:          PhaseMorning,
		NPCs:           make([]NPC, 0),
		Intel:          make([]IntelCard, 0),
		Logs:           make([]LogEntry, 0),
		ActionPoints:   MaxActionPoints,
		PendingActions: make([]PendingAction, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// FindNPC returns the NPC with the given id, or nil.
func (gs *GameState) FindNPC(id string) *NPC {
	for i := range gs.NPCs {
		if gs.NPCs[i].ID == id {
			return &gs.NPCs[i]
		}
	}
	return nil
}

// FindNPCByName returns the first NPC with the given name, or nil.
func (gs *GameState) FindNPCByName(name string) *NPC {
	for i := range gs.NPCs {
		if gs.NPCs[i].Name == name {
			return &gs.NPCs[i]
		}
	}
	return nil
}

// AppendLog stamps a new entry with the current day and phase and returns its id.
func (gs *GameState) AppendLog(npcName, content string, t LogType) uuid.UUID {
	entry := LogEntry{
		ID:      uuid.New(),
		Day:     gs.Day,
		Phase:   gs.Phase,
		NPCName: npcName,
		Content: content,
		Type:    t,
	}
	gs.Logs = append(gs.Logs, entry)
	return entry.ID
}

// RemoveLog deletes the entry with the given id. It reports whether an entry
// was removed.
func (gs *GameState) RemoveLog(id uuid.UUID) bool {
	idx := slices.IndexFunc(gs.Logs, func(e LogEntry) bool { return e.ID == id })
	if idx < 0 {
		return false
	}
	gs.Logs = slices.Delete(gs.Logs, idx, idx+1)
	return true
}

// ActiveCount returns how many NPCs are still active.
func (gs *GameState) ActiveCount() int {
	n := 0
	for i := range gs.NPCs {
		if gs.NPCs[i].IsActive() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the game state.
func (gs *GameState) Clone() *GameState {
	out := *gs
	out.NPCs = make([]NPC, len(gs.NPCs))
	for i, n := range gs.NPCs {
		out.NPCs[i] = n.Clone()
	}
	out.Intel = slices.Clone(gs.Intel)
	out.Logs = slices.Clone(gs.Logs)
	out.PendingActions = slices.Clone(gs.PendingActions)
	if gs.Objective != nil {
		obj := *gs.Objective
		obj.TargetIDs = slices.Clone(gs.Objective.TargetIDs)
		if gs.Objective.DeadlineDay != nil {
			d := *gs.Objective.DeadlineDay
			obj.DeadlineDay = &d
		}
		out.Objective = &obj
	}
	if gs.Outcome != nil {
		o := *gs.Outcome
		out.Outcome = &o
	}
	if gs.LastNewspaper != nil {
		np := *gs.LastNewspaper
		np.Articles = slices.Clone(gs.LastNewspaper.Articles)
		out.LastNewspaper = &np
	}
	return &out
}
