package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jwebster45206/gossip-village/internal/handlers"
	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"golang.org/x/text/message"
)

// command is one parsed line of player input. action is set for commands
// that spend action points.
type command struct {
	name   string
	action *handlers.ActionRequest
}

var errUsage = errors.New("usage")

// targeted actions take a villager before their text
var targetedCommands = map[string]state.ActionType{
	"/whisper":   state.ActionWhisper,
	"/inception": state.ActionInception,
	"/ask":       state.ActionInterrogate,

	"/interrogate": state.ActionInterrogate,
}

var globalCommands = map[string]state.ActionType{
	"/broadcast": state.ActionBroadcast,
	"/fabricate": state.ActionFabricate,
}

var plainCommands = map[string]bool{
	"/help": true, "/undo": true, "/end": true, "/paper": true,
	"/npcs": true, "/intel": true, "/copy": true, "/quit": true,
}

const helpText = `Commands:
• /whisper <villager> <text>   - secret message (1 AP)
• /inception <villager> <text> - plant a thought (1 AP)
• /ask <villager> <question>   - interrogate now (2 AP), also /interrogate
• /broadcast <text>            - public rumour (1 AP)
• /fabricate <text>            - forged evidence (1 AP)
• /undo   - take back the last queued action
• /end    - end the phase and let the village act
• /paper  - dismiss the newspaper
• /npcs   - list villagers with their numbers
• /intel  - list collected intel
• /copy   - copy the chronicle to the clipboard
• /quit   - leave

Villagers can be named or referred to by their number in /npcs.`

// parseCommand turns a slash command into a command. Villager references
// are resolved against gs.
func parseCommand(input string, gs *state.GameState) (command, error) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return command{}, fmt.Errorf("commands start with /, try /help")
	}
	name, rest, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	if plainCommands[name] {
		return command{name: name}, nil
	}

	if t, ok := globalCommands[name]; ok {
		if rest == "" {
			return command{}, fmt.Errorf("%w: %s <text>", errUsage, name)
		}
		return command{name: name, action: &handlers.ActionRequest{Type: string(t), Content: rest}}, nil
	}

	if t, ok := targetedCommands[name]; ok {
		ref, text, _ := strings.Cut(rest, " ")
		text = strings.TrimSpace(text)
		if ref == "" || text == "" {
			return command{}, fmt.Errorf("%w: %s <villager> <text>", errUsage, name)
		}
		npc, err := resolveNPC(gs, ref)
		if err != nil {
			return command{}, err
		}
		return command{name: name, action: &handlers.ActionRequest{Type: string(t), Content: text, TargetID: npc.ID}}, nil
	}

	return command{}, fmt.Errorf("unknown command %s, try /help", name)
}

// resolveNPC finds a villager by 1-based number or exact name.
func resolveNPC(gs *state.GameState, ref string) (*state.NPC, error) {
	if gs == nil {
		return nil, fmt.Errorf("no game loaded")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(gs.NPCs) {
			return nil, fmt.Errorf("no villager #%d", n)
		}
		return &gs.NPCs[n-1], nil
	}
	if npc := gs.FindNPCByName(ref); npc != nil {
		return npc, nil
	}
	return nil, fmt.Errorf("no villager named %q", ref)
}

// plainChronicle renders the log without styling, one line per entry,
// grouped under day and phase headers.
func plainChronicle(gs *state.GameState, p *message.Printer) string {
	if gs == nil {
		return ""
	}
	var b strings.Builder
	lastDay, lastPhase := 0, state.Phase("")
	for _, entry := range gs.Logs {
		if entry.Day != lastDay || entry.Phase != lastPhase {
			fmt.Fprintf(&b, "== Day %d · %s ==\n", entry.Day, locale.PhaseLabel(p, entry.Phase))
			lastDay, lastPhase = entry.Day, entry.Phase
		}
		switch {
		case entry.NPCName == "":
			b.WriteString(entry.Content)
		case entry.Type == state.LogThought:
			fmt.Fprintf(&b, "%s (%s)", entry.NPCName, entry.Content)
		default:
			fmt.Fprintf(&b, "%s: %s", entry.NPCName, entry.Content)
		}
		b.WriteString("\n")
	}
	return b.String()
}
