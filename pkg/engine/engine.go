// Package engine owns one game session and exposes the player operations:
// start, act, undo and end the phase.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jwebster45206/gossip-village/pkg/ledger"
	"github.com/jwebster45206/gossip-village/pkg/locale"
	"github.com/jwebster45206/gossip-village/pkg/objective"
	"github.com/jwebster45206/gossip-village/pkg/simulation"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/world"
	"golang.org/x/text/message"
)

// DefaultVillagerCount is how many villagers a new game asks the oracle for.
const DefaultVillagerCount = 10

// InterrogationResult is returned to the player after an interrogation.
type InterrogationResult struct {
	NPCName  string `json:"npcName"`
	Question string `json:"question"`
	Reply    string `json:"reply"`
}

// Engine is the single writer of one GameState. It is not safe for
// concurrent use; callers serialise access per game.
type Engine struct {
	gs            *state.GameState
	oracle        Oracle
	layout        *world.Layout
	rng           *rand.Rand
	logger        *slog.Logger
	villagerCount int
	locale        string
	now           func() time.Time
}

// New returns an engine with no game loaded. A nil layout uses the built-in
// village.
func New(oracle Oracle, layout *world.Layout) *Engine {
	if layout == nil {
		layout = world.DefaultLayout()
	}
	return &Engine{
		oracle:        oracle,
		layout:        layout,
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		villagerCount: DefaultVillagerCount,
		now:           time.Now,
	}
}

func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// WithRand fixes the source used for placement and objectives.
func (e *Engine) WithRand(rng *rand.Rand) *Engine {
	if rng != nil {
		e.rng = rng
	}
	return e
}

func (e *Engine) WithVillagerCount(n int) *Engine {
	if n > 0 {
		e.villagerCount = n
	}
	return e
}

// WithLocale sets the language of new games. Loaded games keep their own.
func (e *Engine) WithLocale(tag string) *Engine {
	e.locale = tag
	return e
}

// WithState loads an existing game. The engine takes ownership of gs.
func (e *Engine) WithState(gs *state.GameState) *Engine {
	e.gs = gs
	return e
}

// State returns the live game state, or nil before StartGame.
func (e *Engine) State() *state.GameState {
	return e.gs
}

// Snapshot returns a deep copy of the game state for readers.
func (e *Engine) Snapshot() *state.GameState {
	if e.gs == nil {
		return nil
	}
	return e.gs.Clone()
}

func (e *Engine) printer() *message.Printer {
	if e.gs != nil && e.gs.Locale != "" {
		return locale.Printer(e.gs.Locale)
	}
	return locale.Printer(e.locale)
}

func (e *Engine) touch() {
	e.gs.UpdatedAt = e.now()
}

// StartGame generates a fresh village and objective and resets the clock.
// An existing game keeps its id. On oracle failure the previous state is
// kept with an error message set.
func (e *Engine) StartGame(ctx context.Context, mode state.GameMode) error {
	if e.gs == nil {
		e.gs = state.NewGameState()
		e.gs.Locale = locale.Match(e.locale).String()
	}
	if e.gs.IsSimulating {
		return ErrSimulationInProgress
	}
	p := e.printer()

	raw, err := e.oracle.GenerateVillage(ctx, e.villagerCount)
	if err != nil {
		e.gs.ErrorMessage = p.Sprintf(locale.ErrGeneration)
		e.touch()
		if e.logger != nil {
			e.logger.Error("Failed to generate village", "game_id", e.gs.ID, "error", err)
		}
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if len(raw) == 0 {
		e.gs.ErrorMessage = p.Sprintf(locale.ErrGeneration)
		e.touch()
		return fmt.Errorf("%w: oracle returned no villagers", ErrGenerationFailed)
	}

	village := world.NewPlacer(e.layout, e.rng).
		WithLogger(e.logger).
		SetupVillage(normalizeRoster(raw), e.layout.BaseGrid(), p)
	obj := objective.Generate(mode, village.NPCs, e.rng, p)

	next := state.NewGameState()
	next.ID = e.gs.ID
	next.CreatedAt = e.gs.CreatedAt
	next.Locale = e.gs.Locale
	next.Mode = obj.Mode
	next.NPCs = village.NPCs
	next.GridMap = village.Grid
	next.Intel = village.Intel
	next.Objective = &obj
	e.gs = next
	e.gs.AppendLog("", p.Sprintf(locale.GameStarted, obj.Description), state.LogSystem)
	e.touch()

	if e.logger != nil {
		e.logger.Info("Game started", "game_id", e.gs.ID, "mode", obj.Mode, "villagers", len(e.gs.NPCs))
	}
	return nil
}

// normalizeRoster fills in what the oracle may leave blank so every
// villager starts valid.
func normalizeRoster(raw []state.NPC) []state.NPC {
	out := make([]state.NPC, len(raw))
	base := time.Now().UnixMilli()
	for i, n := range raw {
		n = n.Clone()
		if n.ID == "" {
			n.ID = fmt.Sprintf("npc-%d-%d", base, i)
		}
		if st, ok := state.ParseStatus(string(n.Status)); ok {
			n.Status = st
		} else {
			n.Status = state.StatusNormal
		}
		n.HP = state.Clamp(n.HP, state.StatMin, state.StatMax)
		n.MP = state.Clamp(n.MP, state.StatMin, state.StatMax)
		n.SAN = state.Clamp(n.SAN, state.StatMin, state.StatMax)
		n.Position = state.Position{}
		n.Relationships = []state.Relationship{}
		out[i] = n
	}
	return out
}

func (e *Engine) checkMutable() error {
	if e.gs == nil {
		return ErrNoGame
	}
	if e.gs.IsSimulating {
		return ErrSimulationInProgress
	}
	return nil
}

// PerformAction spends action points on an intervention. Interrogations are
// answered immediately; every other action is queued for the next phase.
func (e *Engine) PerformAction(ctx context.Context, actionType state.ActionType, content, targetID string) (*InterrogationResult, error) {
	if err := e.checkMutable(); err != nil {
		return nil, err
	}
	if e.gs.Outcome != nil {
		return nil, ErrGameOver
	}
	if _, ok := state.ParseActionType(string(actionType)); !ok {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAction, actionType)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidAction)
	}

	if actionType == state.ActionInterrogate {
		return e.interrogate(ctx, targetID, content)
	}

	if _, err := ledger.New(e.gs, e.printer()).Record(actionType, content, targetID); err != nil {
		return nil, err
	}
	e.gs.ErrorMessage = ""
	e.touch()
	return nil, nil
}

func (e *Engine) interrogate(ctx context.Context, targetID, question string) (*InterrogationResult, error) {
	npc := e.gs.FindNPC(targetID)
	if npc == nil || !npc.IsActive() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, targetID)
	}
	if e.gs.ActionPoints < state.ActionInterrogate.Cost() {
		return nil, ledger.ErrInsufficientActionPoints
	}

	reply, err := e.oracle.InteractWithNPC(ctx, npc, question)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("Interrogation failed", "game_id", e.gs.ID, "npc", npc.Name, "error", err)
		}
		e.gs.ErrorMessage = e.printer().Sprintf(locale.ErrSimulation)
		e.touch()
		return nil, fmt.Errorf("%w: %s: %w", ErrInterrogationFailed, npc.Name, err)
	}

	p := e.printer()
	l := ledger.New(e.gs, p)
	if err := l.Spend(state.ActionInterrogate.Cost()); err != nil {
		return nil, err
	}
	if mood := strings.TrimSpace(reply.MoodChange); mood != "" {
		npc.CurrentMood = mood
	}
	if info := strings.TrimSpace(reply.RevealedInfo); info != "" {
		e.gs.Intel = append(e.gs.Intel, state.IntelCard{
			ID:        fmt.Sprintf("confession-%d", e.now().UnixNano()),
			Type:      state.IntelConfession,
			Content:   p.Sprintf(locale.ConfessionCard, npc.Name, info),
			SourceID:  npc.ID,
			Timestamp: e.gs.Day,
		})
	}
	e.gs.AppendLog("", p.Sprintf(locale.Interrogated, npc.Name, npc.CurrentMood), state.LogSystem)
	e.gs.ErrorMessage = ""
	e.touch()

	return &InterrogationResult{NPCName: npc.Name, Question: question, Reply: reply.Reply}, nil
}

// UndoLastAction pops the most recent queued action and returns the points
// refunded.
func (e *Engine) UndoLastAction() (int, error) {
	if err := e.checkMutable(); err != nil {
		return 0, err
	}
	refunded := ledger.New(e.gs, e.printer()).UndoLast()
	e.gs.ErrorMessage = ""
	e.touch()
	return refunded, nil
}

// CloseNewspaper dismisses the last newspaper.
func (e *Engine) CloseNewspaper() error {
	if e.gs == nil {
		return ErrNoGame
	}
	e.gs.LastNewspaper = nil
	e.gs.ErrorMessage = ""
	e.touch()
	return nil
}

// BeginPhaseEnd marks the game as simulating and returns the actions to send
// to the oracle. It reports false when the game is already over, in which
// case nothing changes.
func (e *Engine) BeginPhaseEnd() ([]state.PendingAction, bool, error) {
	if err := e.checkMutable(); err != nil {
		return nil, false, err
	}
	if e.gs.Outcome != nil {
		return nil, false, nil
	}
	e.gs.IsSimulating = true
	e.touch()
	return ledger.New(e.gs, nil).Pending(), true, nil
}

// CompletePhaseEnd applies an oracle result to the game as one step.
func (e *Engine) CompletePhaseEnd(res *simulation.Result) error {
	if e.gs == nil {
		return ErrNoGame
	}
	if !e.gs.IsSimulating {
		return ErrNotSimulating
	}
	if res.IsEmpty() && e.logger != nil {
		e.logger.Warn("Oracle proposed nothing for the phase", "game_id", e.gs.ID, "day", e.gs.Day, "phase", e.gs.Phase)
	}

	out := simulation.NewMerger(e.logger, e.printer()).Merge(simulation.Input{
		NPCs:   e.gs.NPCs,
		Intel:  e.gs.Intel,
		Result: res,
		Day:    e.gs.Day,
		Phase:  e.gs.Phase,
	})

	next := e.gs.Clone()
	next.NPCs = out.NPCs
	next.Logs = append(next.Logs, out.Logs...)
	next.Intel = append(next.Intel, out.Intel...)
	next.Day, next.Phase = out.Day, out.Phase
	next.ActionPoints = out.ActionPoints
	if out.Newspaper != nil {
		next.LastNewspaper = out.Newspaper
	}
	if out.Outcome != nil {
		next.Outcome = out.Outcome
	}
	next.PendingActions = make([]state.PendingAction, 0)
	next.IsSimulating = false
	next.ErrorMessage = ""
	e.gs = next
	e.touch()

	if e.logger != nil {
		e.logger.Debug("Phase merged", "game_id", e.gs.ID, "day", e.gs.Day, "phase", e.gs.Phase,
			"logs", len(out.Logs), "intel", len(out.Intel))
	}
	return nil
}

// FailPhaseEnd abandons the simulation. The queued actions stay so the
// player can retry.
func (e *Engine) FailPhaseEnd(cause error) {
	if e.gs == nil {
		return
	}
	e.gs.IsSimulating = false
	e.gs.ErrorMessage = e.printer().Sprintf(locale.ErrSimulation)
	e.touch()
	if e.logger != nil {
		e.logger.Error("Phase simulation failed", "game_id", e.gs.ID, "error", cause)
	}
}

// EndPhase runs a whole phase transition in-process: begin, ask the oracle,
// then merge or fail. It is a no-op once the game has an outcome.
func (e *Engine) EndPhase(ctx context.Context) error {
	actions, ok, err := e.BeginPhaseEnd()
	if err != nil || !ok {
		return err
	}

	res, err := e.oracle.SimulateDay(ctx, e.gs.Clone(), actions)
	if err != nil {
		e.FailPhaseEnd(err)
		return fmt.Errorf("%w: %w", ErrSimulationFailed, err)
	}
	return e.CompletePhaseEnd(res)
}

// IsOracleFailure reports whether err came from the oracle rather than from
// the player's input.
func IsOracleFailure(err error) bool {
	return errors.Is(err, ErrGenerationFailed) ||
		errors.Is(err, ErrSimulationFailed) ||
		errors.Is(err, ErrInterrogationFailed)
}
