package state

// Phase is one of the four sub-divisions of a game day.
type Phase string

const (
	PhaseMorning   Phase = "Morning"
	PhaseAfternoon Phase = "Afternoon"
	PhaseEvening   Phase = "Evening"
	PhaseNight     Phase = "Night"
)

// Phases lists the phases of a day in order.
var Phases = []Phase{PhaseMorning, PhaseAfternoon, PhaseEvening, PhaseNight}

// Status is the life/social state of an NPC.
type Status string

const (
	StatusNormal      Status = "Normal"
	StatusAgitated    Status = "Agitated"
	StatusDepressed   Status = "Depressed"
	StatusLeftVillage Status = "Left Village"
	StatusMarried     Status = "Married"
	StatusDead        Status = "Dead"
	StatusJailed      Status = "Jailed"
	StatusHeartbroken Status = "Heartbroken"
	StatusEscaped     Status = "Escaped"
	StatusQiDeviated  Status = "QiDeviated"
	StatusInjured     Status = "Injured"
)

var knownStatuses = map[Status]bool{
	StatusNormal: true, StatusAgitated: true, StatusDepressed: true, StatusLeftVillage: true,
	StatusMarried: true, StatusDead: true, StatusJailed: true, StatusHeartbroken: true,
	StatusEscaped: true, StatusQiDeviated: true, StatusInjured: true,
}

// ParseStatus normalises a status string. The compact "LeftVillage" spelling
// is accepted. ok is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	if s == "LeftVillage" {
		return StatusLeftVillage, true
	}
	st := Status(s)
	return st, knownStatuses[st]
}

// IsInactive reports whether the status is terminal. Inactive NPCs never
// change status or position again.
func (s Status) IsInactive() bool {
	switch s {
	case StatusDead, StatusJailed, StatusLeftVillage, StatusEscaped, "LeftVillage":
		return true
	}
	return false
}

// RelationshipType classifies a directed relationship edge.
type RelationshipType string

const (
	RelationNone     RelationshipType = "None"
	RelationFriend   RelationshipType = "Friend"
	RelationEnemy    RelationshipType = "Enemy"
	RelationLover    RelationshipType = "Lover"
	RelationFamily   RelationshipType = "Family"
	RelationMaster   RelationshipType = "Master"
	RelationDisciple RelationshipType = "Disciple"
)

// Reciprocal returns the type of the edge pointing back from the target.
func (t RelationshipType) Reciprocal() RelationshipType {
	switch t {
	case RelationLover, RelationEnemy, RelationFamily:
		return t
	case RelationMaster:
		return RelationDisciple
	case RelationDisciple:
		return RelationMaster
	default:
		return RelationFriend
	}
}

// IsValid reports whether t is one of the known relationship types.
func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationNone, RelationFriend, RelationEnemy, RelationLover, RelationFamily, RelationMaster, RelationDisciple:
		return true
	}
	return false
}

type IntelType string

const (
	IntelObservation IntelType = "Observation"
	IntelSecret      IntelType = "Secret"
	IntelRumor       IntelType = "Rumor"
	IntelFabrication IntelType = "Fabrication"
	IntelConfession  IntelType = "Confession"
)

type LogType string

const (
	LogThought LogType = "Thought"
	LogAction  LogType = "Action"
	LogSystem  LogType = "System"
)

// GameMode selects the objective of a session.
type GameMode string

const (
	ModeSandbox    GameMode = "Sandbox"
	ModeChaos      GameMode = "Chaos"
	ModeMatchmaker GameMode = "Matchmaker"
	ModeDetective  GameMode = "Detective"
)

// ParseGameMode is case sensitive and defaults nothing.
func ParseGameMode(s string) (GameMode, bool) {
	switch m := GameMode(s); m {
	case ModeSandbox, ModeChaos, ModeMatchmaker, ModeDetective:
		return m, true
	}
	return "", false
}

// ActionType is a player intervention.
type ActionType string

const (
	ActionWhisper     ActionType = "WHISPER"
	ActionBroadcast   ActionType = "BROADCAST"
	ActionFabricate   ActionType = "FABRICATE"
	ActionInception   ActionType = "INCEPTION"
	ActionInterrogate ActionType = "INTERROGATE"
)

// ParseActionType validates an action type name.
func ParseActionType(s string) (ActionType, bool) {
	switch a := ActionType(s); a {
	case ActionWhisper, ActionBroadcast, ActionFabricate, ActionInception, ActionInterrogate:
		return a, true
	}
	return "", false
}

// Cost is the action point price of the action.
func (a ActionType) Cost() int {
	if a == ActionInterrogate {
		return 2
	}
	return 1
}

// IsGlobal reports whether the action addresses the whole village.
func (a ActionType) IsGlobal() bool {
	return a == ActionBroadcast || a == ActionFabricate
}

// Zone is a named social area of the map used for spawning.
type Zone string

const (
	ZoneMarket   Zone = "Market"
	ZoneOfficial Zone = "Official"
	ZoneTemple   Zone = "Temple"
	ZoneSecluded Zone = "Secluded"
)

type OutcomeResult string

const (
	OutcomeVictory OutcomeResult = "Victory"
	OutcomeDefeat  OutcomeResult = "Defeat"
)
