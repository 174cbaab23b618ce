package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/gossip-village/pkg/engine"
	"github.com/jwebster45206/gossip-village/pkg/prompts"
	"github.com/jwebster45206/gossip-village/pkg/simulation"
	"github.com/jwebster45206/gossip-village/pkg/state"
	"github.com/jwebster45206/gossip-village/pkg/textfilter"
)

// Completer sends one prompt to a model and returns its raw JSON text.
type Completer interface {
	Complete(ctx context.Context, p prompts.Prompt) (string, error)
	// Name identifies the backend in logs.
	Name() string
}

const (
	DefaultMaxAttempts = 3
	DefaultBackoff     = time.Second
)

// LLMOracle implements engine.Oracle on top of any Completer. Every response
// is validated against its schema before it is decoded; a failed call,
// schema violation or decode error counts as one failed attempt.
type LLMOracle struct {
	completer   Completer
	schemas     *Schemas
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

var _ engine.Oracle = (*LLMOracle)(nil)

func NewLLMOracle(completer Completer, schemas *Schemas, logger *slog.Logger) *LLMOracle {
	if schemas == nil {
		schemas = MustLoadSchemas()
	}
	return &LLMOracle{
		completer:   completer,
		schemas:     schemas,
		maxAttempts: DefaultMaxAttempts,
		backoff:     DefaultBackoff,
		logger:      logger,
		now:         time.Now,
	}
}

// WithRetry overrides the attempt count and initial backoff.
func (o *LLMOracle) WithRetry(attempts int, backoff time.Duration) *LLMOracle {
	if attempts > 0 {
		o.maxAttempts = attempts
	}
	if backoff >= 0 {
		o.backoff = backoff
	}
	return o
}

// call runs one prompt through the completer with retries and decodes the
// validated response into out.
func (o *LLMOracle) call(ctx context.Context, op, schema string, p prompts.Prompt, out any) error {
	start := o.now()
	err := retry(ctx, o.maxAttempts, o.backoff, o.logger, op, func() error {
		text, err := o.completer.Complete(ctx, p)
		if err != nil {
			return err
		}
		raw := []byte(textfilter.StripCodeFence(text))
		if err := o.schemas.Validate(schema, raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s via %s failed: %w", op, o.completer.Name(), err)
	}
	if o.logger != nil {
		o.logger.Debug("Oracle call succeeded", "op", op, "backend", o.completer.Name(), "duration", time.Since(start))
	}
	return nil
}

type villageResponse struct {
	NPCs []state.NPC `json:"npcs"`
}

// GenerateVillage asks for count villagers and gives each a fresh id, a
// Normal status and an empty social web.
func (o *LLMOracle) GenerateVillage(ctx context.Context, count int) ([]state.NPC, error) {
	var resp villageResponse
	if err := o.call(ctx, "generate_village", SchemaVillage, prompts.Village(count), &resp); err != nil {
		return nil, err
	}
	stamp := o.now().UnixMilli()
	for i := range resp.NPCs {
		n := &resp.NPCs[i]
		n.ID = fmt.Sprintf("npc-%d-%d", stamp, i)
		n.Status = state.StatusNormal
		n.Position = state.Position{}
		n.Relationships = []state.Relationship{}
		n.Name = textfilter.Clean(n.Name)
	}
	return resp.NPCs, nil
}

// SimulateDay asks the director for the next phase.
func (o *LLMOracle) SimulateDay(ctx context.Context, gs *state.GameState, actions []state.PendingAction) (*simulation.Result, error) {
	p, err := prompts.BuildSimulation(gs, actions)
	if err != nil {
		return nil, fmt.Errorf("failed to build simulation prompt: %w", err)
	}
	var res simulation.Result
	if err := o.call(ctx, "simulate_day", SchemaSimulation, p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// InteractWithNPC puts a question to one villager.
func (o *LLMOracle) InteractWithNPC(ctx context.Context, npc *state.NPC, question string) (*simulation.Interaction, error) {
	var res simulation.Interaction
	if err := o.call(ctx, "interact", SchemaInteraction, prompts.Interrogation(npc, question), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
