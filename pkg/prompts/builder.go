// Package prompts renders game state into the text sent to the oracle.
package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/gossip-village/pkg/actor"
	"github.com/jwebster45206/gossip-village/pkg/state"
)

// DefaultLogWindow is how many recent log lines a simulation prompt carries.
const DefaultLogWindow = 20

// Prompt is a system instruction plus the user turn.
type Prompt struct {
	System string
	User   string
}

// Builder renders a simulation prompt using a fluent interface.
type Builder struct {
	gs        *state.GameState
	actions   []state.PendingAction
	logWindow int
}

// New creates a builder with default settings.
func New() *Builder {
	return &Builder{logWindow: DefaultLogWindow}
}

func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// WithActions sets the player interventions queued for this phase.
func (b *Builder) WithActions(actions []state.PendingAction) *Builder {
	b.actions = actions
	return b
}

// WithLogWindow sets how many recent log lines are included. Zero drops them.
func (b *Builder) WithLogWindow(n int) *Builder {
	b.logWindow = n
	return b
}

// Build renders the simulation prompt.
func (b *Builder) Build() (Prompt, error) {
	if b.gs == nil {
		return Prompt{}, fmt.Errorf("gamestate is required")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "### CONTEXT\nDay %d, phase %s.\n", b.gs.Day, b.gs.Phase)

	b.writeMap(&sb)
	b.writeCharacters(&sb)
	b.writeRelationships(&sb)
	b.writeRecentLogs(&sb)
	b.writeActions(&sb)
	b.writeObjective(&sb)

	sb.WriteString("\n")
	sb.WriteString(SimulationRules)

	return Prompt{System: DirectorSystemPrompt, User: sb.String()}, nil
}

func (b *Builder) writeMap(sb *strings.Builder) {
	sb.WriteString("\n### MAP (x,y)\n")
	for y := range state.GridSize {
		cells := make([]string, state.GridSize)
		for x := range state.GridSize {
			cells[x] = fmt.Sprintf("(%d,%d)%s", x, y, b.gs.GridMap[y][x])
		}
		sb.WriteString(strings.Join(cells, "  "))
		sb.WriteString("\n")
	}
}

func (b *Builder) writeCharacters(sb *strings.Builder) {
	sb.WriteString("\n### CHARACTERS\n")
	sheets := actor.Roster(b.gs.NPCs)
	for _, s := range sheets {
		n := s.NPC
		fmt.Fprintf(sb, "[%s|%s] status:%s mood:%s at %s(%d,%d) %s\n",
			n.Name, n.Role, n.Status, n.CurrentMood,
			b.gs.GridMap.Name(n.Position), n.Position.X, n.Position.Y,
			s.Summary())
	}
	for _, n := range b.gs.NPCs {
		if !n.IsActive() {
			fmt.Fprintf(sb, "[%s|%s] %s, takes no part.\n", n.Name, n.Role, n.Status)
		}
	}
	if len(sheets) > 1 {
		fmt.Fprintf(sb, "Martial ranking: %s\n", actor.StrongestFirst(sheets))
	}
}

func (b *Builder) writeRelationships(sb *strings.Builder) {
	sb.WriteString("\n### RELATIONSHIPS\n")
	for _, n := range b.gs.NPCs {
		if !n.IsActive() || len(n.Relationships) == 0 {
			continue
		}
		rels := make([]string, 0, len(n.Relationships))
		for _, r := range n.Relationships {
			rels = append(rels, fmt.Sprintf("%s[%s affinity:%d trust:%d]", r.TargetName, r.Type, r.Affinity, r.Trust))
		}
		fmt.Fprintf(sb, "%s: %s\n", n.Name, strings.Join(rels, ", "))
	}
}

func (b *Builder) writeRecentLogs(sb *strings.Builder) {
	if b.logWindow <= 0 || len(b.gs.Logs) == 0 {
		return
	}
	logs := b.gs.Logs
	if len(logs) > b.logWindow {
		logs = logs[len(logs)-b.logWindow:]
	}
	sb.WriteString("\n### RECENT EVENTS\n")
	for _, l := range logs {
		if l.NPCName != "" {
			fmt.Fprintf(sb, "- D%d %s %s: %s\n", l.Day, l.Phase, l.NPCName, l.Content)
		} else {
			fmt.Fprintf(sb, "- D%d %s %s\n", l.Day, l.Phase, l.Content)
		}
	}
}

func (b *Builder) writeActions(sb *strings.Builder) {
	sb.WriteString("\n### PLAYER ACTIONS\n")
	if len(b.actions) == 0 {
		sb.WriteString("No player intervention.\n")
		return
	}
	for _, a := range b.actions {
		target := "Global"
		if !a.Type.IsGlobal() && a.TargetID != "" {
			if npc := b.gs.FindNPC(a.TargetID); npc != nil {
				target = npc.Name
			}
		}
		fmt.Fprintf(sb, "- TYPE: %s TARGET: %s CONTENT: %q\n", a.Type, target, a.Content)
	}
}

func (b *Builder) writeObjective(sb *strings.Builder) {
	obj := b.gs.Objective
	if obj == nil {
		return
	}
	sb.WriteString("\n### PLAYER OBJECTIVE\n")
	fmt.Fprintf(sb, "Mode: %s. %s\n", obj.Mode, obj.Description)
	if len(obj.TargetIDs) > 0 {
		names := make([]string, 0, len(obj.TargetIDs))
		for _, id := range obj.TargetIDs {
			if npc := b.gs.FindNPC(id); npc != nil {
				names = append(names, npc.Name)
			}
		}
		fmt.Fprintf(sb, "Targets: %s\n", strings.Join(names, ", "))
	}
	if obj.DeadlineDay != nil {
		fmt.Fprintf(sb, "Deadline: end of day %d. If it has passed without success, set gameOutcome to Defeat.\n", *obj.DeadlineDay)
	}
	if obj.Mode == state.ModeChaos {
		fmt.Fprintf(sb, "Currently active: %d of %d.\n", b.gs.ActiveCount(), len(b.gs.NPCs))
	}
}

// Village renders the roster generation prompt.
func Village(count int) Prompt {
	return Prompt{
		System: DirectorSystemPrompt,
		User:   fmt.Sprintf(VillagePrompt, count),
	}
}

// Interrogation renders the prompt for questioning npc.
func Interrogation(npc *state.NPC, question string) Prompt {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s (%s), %d years old.\n", npc.Name, npc.Role, npc.Age)
	fmt.Fprintf(&sb, "Public face: %s\nSecret: %s\nLife goal: %s\n", npc.PublicPersona, npc.DeepSecret, npc.LifeGoal)
	fmt.Fprintf(&sb, "Status: %s. Mood: %s.\n", npc.Status, npc.CurrentMood)
	if s, err := actor.NewSheet(npc); err == nil {
		fmt.Fprintf(&sb, "Stats: %s\n", s.Summary())
	}
	sb.WriteString("Social circle:\n")
	if len(npc.Relationships) == 0 {
		sb.WriteString("- none\n")
	}
	for _, r := range npc.Relationships {
		fmt.Fprintf(&sb, "- %s: [%s] affinity %d\n", r.TargetName, r.Type, r.Affinity)
	}
	fmt.Fprintf(&sb, "\nThe stranger asks: %q\n", question)
	return Prompt{System: InterrogationPrompt, User: sb.String()}
}

// BuildSimulation is a convenience wrapper for the common case.
func BuildSimulation(gs *state.GameState, actions []state.PendingAction) (Prompt, error) {
	return New().WithGameState(gs).WithActions(actions).Build()
}
