package state

// Advance moves the clock one phase forward. Night wraps to the next
// day's morning. An unrecognised phase resets to the same day's morning.
func Advance(day int, phase Phase) (int, Phase) {
	switch phase {
	case PhaseMorning:
		return day, PhaseAfternoon
	case PhaseAfternoon:
		return day, PhaseEvening
	case PhaseEvening:
		return day, PhaseNight
	case PhaseNight:
		return day + 1, PhaseMorning
	default:
		return day, PhaseMorning
	}
}
