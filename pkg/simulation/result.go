// Package simulation turns the oracle's proposed changes for one phase into
// the next authoritative roster, log and intel state.
package simulation

import "github.com/jwebster45206/gossip-village/pkg/state"

// Result is the oracle's proposal for one tick. It is shaped like the
// oracle's JSON and trusted for nothing beyond its shape.
type Result struct {
	Logs                []LogProposal          `json:"logs"`
	RelationshipUpdates []RelationshipProposal `json:"relationshipUpdates"`
	StatUpdates         []StatProposal         `json:"statUpdates"`
	NewIntel            []IntelProposal        `json:"newIntel"`
	Newspaper           *state.Newspaper       `json:"newspaper,omitempty"`
	NPCStatusUpdates    []StatusProposal       `json:"npcStatusUpdates"`
	GameOutcome         *state.Outcome         `json:"gameOutcome,omitempty"`
}

type LogProposal struct {
	NPCName string `json:"npcName"`
	Thought string `json:"thought"`
	Action  string `json:"action"`
}

type RelationshipProposal struct {
	SourceName     string                 `json:"sourceName"`
	TargetName     string                 `json:"targetName"`
	AffinityChange int                    `json:"affinityChange"`
	TrustChange    int                    `json:"trustChange"`
	NewType        state.RelationshipType `json:"newType,omitempty"`
}

type StatProposal struct {
	NPCName   string `json:"npcName"`
	HPChange  int    `json:"hpChange"`
	MPChange  int    `json:"mpChange"`
	SANChange int    `json:"sanChange"`
}

type IntelProposal struct {
	Content    string `json:"content"`
	Type       string `json:"type"`
	SourceName string `json:"sourceName"`
}

type StatusProposal struct {
	NPCName     string          `json:"npcName"`
	Status      string          `json:"status"`
	Mood        string          `json:"mood"`
	NewPosition *state.Position `json:"newPosition,omitempty"`
}

// IsEmpty reports whether the result proposes nothing at all.
func (r *Result) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.Logs) == 0 &&
		len(r.RelationshipUpdates) == 0 &&
		len(r.StatUpdates) == 0 &&
		len(r.NewIntel) == 0 &&
		r.Newspaper == nil &&
		len(r.NPCStatusUpdates) == 0 &&
		r.GameOutcome == nil
}

// Interaction is the oracle's answer to an interrogation.
type Interaction struct {
	Reply        string `json:"reply"`
	RevealedInfo string `json:"revealedInfo,omitempty"`
	MoodChange   string `json:"moodChange"`
}
