package simulation

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/textfilter"
	"golang.org/x/text/message"
)

// IntelSourceSimulation marks intel cards that came from a simulated phase.
const IntelSourceSimulation = "simulation"

// Input is everything the merger reads. Nothing in it is modified.
type Input struct {
	NPCs   []state.NPC
	Intel  []state.IntelCard
	Result *Result
	Day    int
	Phase  state.Phase
}

// Output is the next authoritative state for the merged tick. Logs and Intel
// hold only the entries created by this tick.
type Output struct {
	NPCs         []state.NPC
	Logs         []state.LogEntry
	Intel        []state.IntelCard
	Day          int
	Phase        state.Phase
	ActionPoints int
	Newspaper    *state.Newspaper
	Outcome      *state.Outcome
}

// Merger applies an oracle Result to a roster. It never fails: references to
// unknown characters and out-of-range values are dropped or clamped.
type Merger struct {
	logger  *slog.Logger
	printer *message.Printer
}

func NewMerger(logger *slog.Logger, printer *message.Printer) *Merger {
	if printer == nil {
		printer = locale.Printer("")
	}
	return &Merger{logger: logger, printer: printer}
}

// Merge produces the next roster, new logs and new intel for one tick and
// advances the clock.
func (m *Merger) Merge(in Input) Output {
	res := in.Result
	if res == nil {
		res = &Result{}
	}
	m.warnUnknownNames(in.NPCs, res)

	out := Output{
		NPCs:  make([]state.NPC, len(in.NPCs)),
		Logs:  make([]state.LogEntry, 0, len(res.Logs)),
		Intel: m.mergeIntel(in.Intel, res.NewIntel, in.Day),
	}

	for _, l := range res.Logs {
		thought := textfilter.Clean(l.Thought)
		logType := state.LogAction
		if thought != "" {
			logType = state.LogThought
		}
		out.Logs = append(out.Logs, state.LogEntry{
			ID:      uuid.New(),
			Day:     in.Day,
			Phase:   in.Phase,
			NPCName: textfilter.Clean(l.NPCName),
			Content: m.printer.Sprintf(locale.NarrativeLine, thought, textfilter.Clean(l.Action)),
			Type:    logType,
		})
	}

	var growth []state.LogEntry
	for i, npc := range in.NPCs {
		next := npc.Clone()

		m.mergeRelationships(&next, in.NPCs, res.RelationshipUpdates)

		for _, su := range res.StatUpdates {
			if !textfilter.SameName(su.NPCName, npc.Name) {
				continue
			}
			if npc.Status.IsInactive() {
				if m.logger != nil {
					m.logger.Debug("Ignoring stat change for inactive villager", "npc", npc.Name, "status", npc.Status)
				}
				continue
			}
			next.HP = state.Clamp(next.HP+su.HPChange, state.StatMin, state.StatMax)
			next.MP = state.Clamp(next.MP+su.MPChange, state.StatMin, state.StatMax)
			next.SAN = state.Clamp(next.SAN+su.SANChange, state.StatMin, state.StatMax)
			if su.MPChange > 0 {
				growth = append(growth, state.LogEntry{
					ID:      uuid.New(),
					Day:     in.Day,
					Phase:   in.Phase,
					NPCName: npc.Name,
					Content: m.printer.Sprintf(locale.MartialGrowth, npc.Name, su.MPChange),
					Type:    state.LogSystem,
				})
			}
		}

		proposal := findStatus(res.NPCStatusUpdates, npc.Name)
		suggested := npc.Status
		if proposal != nil {
			if st, ok := state.ParseStatus(proposal.Status); ok {
				suggested = st
			} else if proposal.Status != "" && m.logger != nil {
				m.logger.Warn("Ignoring unknown status from oracle", "npc", npc.Name, "status", proposal.Status)
			}
		}
		next.Status, next.HP = ResolveStatus(npc.Status, suggested, next.HP, next.SAN)

		if proposal != nil && !npc.Status.IsInactive() && !next.Status.IsInactive() && proposal.NewPosition != nil {
			if proposal.NewPosition.InBounds() {
				next.Position = *proposal.NewPosition
			} else if m.logger != nil {
				m.logger.Warn("Dropping out-of-bounds move", "npc", npc.Name,
					"x", proposal.NewPosition.X, "y", proposal.NewPosition.Y)
			}
		}

		if proposal != nil {
			if mood := textfilter.Clean(proposal.Mood); mood != "" {
				next.CurrentMood = mood
			}
		}

		out.NPCs[i] = next
	}
	out.Logs = append(out.Logs, growth...)

	if np := res.Newspaper; np != nil && strings.TrimSpace(np.Headline) != "" {
		out.Newspaper = &state.Newspaper{
			Headline: textfilter.Clean(np.Headline),
			Articles: append([]string{}, np.Articles...),
		}
	}
	if oc := res.GameOutcome; oc != nil {
		o := *oc
		out.Outcome = &o
	}

	out.Day, out.Phase = state.Advance(in.Day, in.Phase)
	out.ActionPoints = state.MaxActionPoints
	return out
}

// mergeRelationships applies every delta whose source is npc. An existing
// edge to the target is updated in place; otherwise one is appended, so
// repeated deltas to the same target in one batch share a single edge.
func (m *Merger) mergeRelationships(npc *state.NPC, roster []state.NPC, updates []RelationshipProposal) {
	for _, u := range updates {
		if !textfilter.SameName(u.SourceName, npc.Name) {
			continue
		}
		target := findNPC(roster, u.TargetName)
		if target == nil || target.ID == npc.ID {
			continue
		}
		newType := u.NewType
		if !newType.IsValid() {
			newType = state.RelationNone
		}

		if rel := npc.FindRelationship(target.ID); rel != nil {
			rel.Affinity = state.Clamp(rel.Affinity+u.AffinityChange, state.AffinityMin, state.AffinityMax)
			rel.Trust = state.Clamp(rel.Trust+u.TrustChange, state.TrustMin, state.TrustMax)
			if newType != state.RelationNone {
				rel.Type = newType
			}
			continue
		}
		npc.Relationships = append(npc.Relationships, state.Relationship{
			TargetID:     target.ID,
			TargetName:   target.Name,
			Type:         newType,
			Affinity:     state.Clamp(u.AffinityChange, state.AffinityMin, state.AffinityMax),
			Trust:        state.Clamp(50+u.TrustChange, state.TrustMin, state.TrustMax),
			KnownSecrets: []string{},
		})
	}
}

// mergeIntel keeps proposals whose content is new to both history and this
// batch.
func (m *Merger) mergeIntel(history []state.IntelCard, proposals []IntelProposal, day int) []state.IntelCard {
	seen := make(map[string]bool, len(history)+len(proposals))
	for _, c := range history {
		seen[c.Content] = true
	}
	out := make([]state.IntelCard, 0, len(proposals))
	for _, p := range proposals {
		content := textfilter.Clean(p.Content)
		if content == "" || seen[content] {
			continue
		}
		seen[content] = true
		out = append(out, state.IntelCard{
			ID:        uuid.NewString(),
			Type:      state.IntelRumor,
			Content:   content,
			SourceID:  IntelSourceSimulation,
			Timestamp: day,
		})
	}
	return out
}

func (m *Merger) warnUnknownNames(roster []state.NPC, res *Result) {
	if m.logger == nil {
		return
	}
	check := func(field, name string) {
		if findNPC(roster, name) == nil {
			m.logger.Warn("Oracle referenced unknown character", "field", field, "name", name)
		}
	}
	for _, u := range res.StatUpdates {
		check("statUpdates", u.NPCName)
	}
	for _, u := range res.NPCStatusUpdates {
		check("npcStatusUpdates", u.NPCName)
	}
	for _, u := range res.RelationshipUpdates {
		check("relationshipUpdates.source", u.SourceName)
		check("relationshipUpdates.target", u.TargetName)
	}
}

func findNPC(roster []state.NPC, name string) *state.NPC {
	for i := range roster {
		if textfilter.SameName(roster[i].Name, name) {
			return &roster[i]
		}
	}
	return nil
}

func findStatus(updates []StatusProposal, name string) *StatusProposal {
	for i := range updates {
		if textfilter.SameName(updates[i].NPCName, name) {
			return &updates[i]
		}
	}
	return nil
}
