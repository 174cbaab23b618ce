package state

const (
	StatMin     = 0
	StatMax     = 100
	AffinityMin = -100
	AffinityMax = 100
	TrustMin    = 0
	TrustMax    = 100
)

// GridSize is the width and height of the village map.
const GridSize = 4

// Position is a cell on the village grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// InBounds reports whether the position lies on the grid.
func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Relationship is a directed edge owned by the source NPC.
type Relationship struct {
	TargetID     string           `json:"targetId"`
	TargetName   string           `json:"targetName"` // denormalized for display
	Type         RelationshipType `json:"type"`
	Affinity     int              `json:"affinity"` // -100..100
	Trust        int              `json:"trust"`    // 0..100
	KnownSecrets []string         `json:"knownSecrets"`
}

// NPC is a villager.
type NPC struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Age           int            `json:"age"`
	Gender        string         `json:"gender"`
	Role          string         `json:"role"`
	PublicPersona string         `json:"publicPersona"`
	DeepSecret    string         `json:"deepSecret"`
	LifeGoal      string         `json:"lifeGoal"`
	Backstory     string         `json:"backstory,omitempty"`
	CurrentMood   string         `json:"currentMood"`
	Status        Status         `json:"status"`
	HP            int            `json:"hp"`  // health
	MP            int            `json:"mp"`  // martial power
	SAN           int            `json:"san"` // corruption; high is bad
	Position      Position       `json:"position"`
	Relationships []Relationship `json:"relationships"`

	// Generation-time descriptors consumed by the placement engine.
	SpawnZone             Zone             `json:"spawnZone,omitempty"`
	InitialConnectionName string           `json:"initialConnectionName,omitempty"`
	InitialConnectionType RelationshipType `json:"initialConnectionType,omitempty"`
}

// IsActive is false once the NPC has died, been jailed or left.
func (n *NPC) IsActive() bool {
	return !n.Status.IsInactive()
}

// FindRelationship returns the edge to targetID, or nil.
func (n *NPC) FindRelationship(targetID string) *Relationship {
	for i := range n.Relationships {
		if n.Relationships[i].TargetID == targetID {
			return &n.Relationships[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (n NPC) Clone() NPC {
	out := n
	if n.Relationships != nil {
		out.Relationships = make([]Relationship, len(n.Relationships))
		for i, r := range n.Relationships {
			r.KnownSecrets = append([]string(nil), r.KnownSecrets...)
			out.Relationships[i] = r
		}
	}
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
