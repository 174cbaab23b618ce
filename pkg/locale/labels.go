package locale

import (
	"github.com/jwebster45206/gossip-village/pkg/state"
	"golang.org/x/text/message"
)

var phaseKeys = map[state.Phase]string{
	state.PhaseMorning:   PhaseMorning,
	state.PhaseAfternoon: PhaseAfternoon,
	state.PhaseEvening:   PhaseEvening,
	state.PhaseNight:     PhaseNight,
}

var actionKeys = map[state.ActionType]string{
	state.ActionWhisper:     LabelWhisper,
	state.ActionBroadcast:   LabelBroadcast,
	state.ActionFabricate:   LabelFabricate,
	state.ActionInception:   LabelInception,
	state.ActionInterrogate: LabelInterrogate,
}

// PhaseLabel renders a phase for display, e.g. "子时 (深夜)".
func PhaseLabel(p *message.Printer, phase state.Phase) string {
	key, ok := phaseKeys[phase]
	if !ok {
		return string(phase)
	}
	return p.Sprintf(key)
}

// ActionLabel renders an action type for display.
func ActionLabel(p *message.Printer, a state.ActionType) string {
	key, ok := actionKeys[a]
	if !ok {
		return string(a)
	}
	return p.Sprintf(key)
}
