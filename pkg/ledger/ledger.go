// Package ledger records the player's interventions for the current phase.
package ledger

import (
	"errors"

	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"golang.org/x/text/message"
)

// ErrInsufficientActionPoints is returned when an action costs more than the
// points left today. The game state is untouched.
var ErrInsufficientActionPoints = errors.New("insufficient action points")

// Ledger mutates the action points, pending queue and log of one game state.
type Ledger struct {
	gs      *state.GameState
	printer *message.Printer
}

func New(gs *state.GameState, printer *message.Printer) *Ledger {
	if printer == nil {
		printer = locale.Printer(gs.Locale)
	}
	return &Ledger{gs: gs, printer: printer}
}

// Record queues an action for the next simulation, charges its cost and
// writes a log line describing it.
func (l *Ledger) Record(actionType state.ActionType, content, targetID string) (int, error) {
	cost := actionType.Cost()
	if l.gs.ActionPoints < cost {
		return 0, ErrInsufficientActionPoints
	}

	line := l.printer.Sprintf(locale.ActionRecorded,
		l.TargetName(actionType, targetID),
		locale.ActionLabel(l.printer, actionType),
		content)
	logID := l.gs.AppendLog("", line, state.LogSystem)

	l.gs.ActionPoints -= cost
	l.gs.PendingActions = append(l.gs.PendingActions, state.PendingAction{
		Type:     actionType,
		Content:  content,
		TargetID: targetID,
		Cost:     cost,
		LogID:    logID,
	})
	return cost, nil
}

// UndoLast drops the most recent pending action, refunds its cost up to the
// daily maximum and removes its log line. It returns the refunded points.
func (l *Ledger) UndoLast() int {
	n := len(l.gs.PendingActions)
	if n == 0 {
		return 0
	}
	last := l.gs.PendingActions[n-1]
	l.gs.PendingActions = l.gs.PendingActions[:n-1]

	before := l.gs.ActionPoints
	l.gs.ActionPoints = min(state.MaxActionPoints, before+last.Cost)
	l.gs.RemoveLog(last.LogID)
	return l.gs.ActionPoints - before
}

// Spend charges cost immediately without queueing anything.
func (l *Ledger) Spend(cost int) error {
	if l.gs.ActionPoints < cost {
		return ErrInsufficientActionPoints
	}
	l.gs.ActionPoints -= cost
	return nil
}

// Pending returns a copy of the queued actions.
func (l *Ledger) Pending() []state.PendingAction {
	return append([]state.PendingAction(nil), l.gs.PendingActions...)
}

// TargetName resolves how an action's target is shown in the log.
func (l *Ledger) TargetName(actionType state.ActionType, targetID string) string {
	if actionType.IsGlobal() || targetID == "" {
		return l.printer.Sprintf(locale.TargetEveryone)
	}
	if npc := l.gs.FindNPC(targetID); npc != nil {
		return npc.Name
	}
	return l.printer.Sprintf(locale.TargetUnknown)
}
