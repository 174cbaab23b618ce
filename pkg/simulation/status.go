package simulation

import "github.com/jwebster45206/gossip-village/pkg/state"

const (
	// InjuredBelow is the hp under which a character is Injured.
	InjuredBelow = 20
	// QiDeviationAt is the san at or above which a character loses control.
	QiDeviationAt = 90
	// QiRecoveryBelow is the san under which a QiDeviated character recovers.
	QiRecoveryBelow = 80
)

// ResolveStatus applies the status priority chain. previous is the status
// before this tick, suggested is the oracle's proposal (or previous when the
// oracle said nothing), hp and san are the already clamped new values.
// Exactly one rule fires:
//
//  1. an inactive previous status is frozen
//  2. hp <= 0 is Dead, with hp pinned to 0
//  3. hp below InjuredBelow is Injured
//  4. san at or above QiDeviationAt is QiDeviated
//  5. Injured with hp recovered is Normal
//  6. QiDeviated with san below QiRecoveryBelow is Normal
func ResolveStatus(previous, suggested state.Status, hp, san int) (state.Status, int) {
	switch {
	case previous.IsInactive():
		return previous, hp
	case hp <= 0:
		return state.StatusDead, 0
	case hp < InjuredBelow:
		return state.StatusInjured, hp
	case san >= QiDeviationAt:
		return state.StatusQiDeviated, hp
	case suggested == state.StatusInjured:
		return state.StatusNormal, hp
	case suggested == state.StatusQiDeviated && san < QiRecoveryBelow:
		return state.StatusNormal, hp
	}
	return suggested, hp
}
