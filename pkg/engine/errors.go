package engine

import "errors"

var (
	// ErrNoGame is returned by operations that need a started game.
	ErrNoGame = errors.New("no game in progress")
	// ErrGenerationFailed wraps an oracle failure while generating a village.
	ErrGenerationFailed = errors.New("village generation failed")
	// ErrSimulationFailed wraps an oracle failure while simulating a phase.
	ErrSimulationFailed = errors.New("phase simulation failed")
	// ErrInterrogationFailed wraps an oracle failure during an interrogation.
	ErrInterrogationFailed = errors.New("interrogation failed")
	// ErrSimulationInProgress rejects mutations while a phase is being simulated.
	ErrSimulationInProgress = errors.New("simulation in progress")
	// ErrNotSimulating is returned when a phase result arrives for a game
	// that is not waiting for one.
	ErrNotSimulating = errors.New("game is not simulating")
	// ErrGameOver rejects actions once the game has an outcome.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidAction covers unknown action types and empty content.
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidTarget is returned when an action needs a living target and
	// none was given.
	ErrInvalidTarget = errors.New("invalid action target")
)
